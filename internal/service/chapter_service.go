package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// chapterListTTL 章节目录缓存时长
const chapterListTTL = 10 * time.Minute

type ChapterService interface {
	CreateChapter(ctx context.Context, userID uint64, storyID uint64, dto *dto.ChapterBaseDTO) (*dto.ChapterDTO, error)
	UpdateChapter(ctx context.Context, userID uint64, chapterID uint64, dto *dto.ChapterBaseDTO) error
	GetChapter(ctx context.Context, storyID uint64, number int) (*dto.ChapterDTO, error)
	// PublishChapter 发布章节：作品章节数 +1 并刷新更新时间，收藏者收到通知
	PublishChapter(ctx context.Context, userID uint64, chapterID uint64) error
	ListChapters(ctx context.Context, userID uint64, storyID uint64, includeDrafts bool, page, limit int) (*dto.ChapterPageDTO, error)
}

type chapterServiceImpl struct {
	chapterRepo      repository.ChapterRepo
	storyRepo        repository.StoryRepo
	bookmarkRepo     repository.BookmarkRepo
	notificationRepo mongo.NotificationRepo
}

func NewChapterService(
	chapterRepo repository.ChapterRepo,
	storyRepo repository.StoryRepo,
	bookmarkRepo repository.BookmarkRepo,
	notificationRepo mongo.NotificationRepo,
) ChapterService {
	return &chapterServiceImpl{
		chapterRepo:      chapterRepo,
		storyRepo:        storyRepo,
		bookmarkRepo:     bookmarkRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *chapterServiceImpl) CreateChapter(ctx context.Context, userID uint64, storyID uint64, baseDTO *dto.ChapterBaseDTO) (*dto.ChapterDTO, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	if story.AuthorID != userID {
		return nil, UnauthorizedError
	}

	exist, err := s.chapterRepo.GetByStoryAndNumber(ctx, storyID, baseDTO.Number)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrChapterNumberExist
	}

	chapter := &model.Chapter{
		StoryID: storyID,
		Number:  baseDTO.Number,
		Name:    baseDTO.Name,
		Slug:    util.Slugify(baseDTO.Name),
		Content: baseDTO.Content,
		Status:  consts.ChapterStatusDraft,
	}
	if err = s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return toChapterDTO(chapter), nil
}

func (s *chapterServiceImpl) UpdateChapter(ctx context.Context, userID uint64, chapterID uint64, baseDTO *dto.ChapterBaseDTO) error {
	chapter, story, err := s.ownedChapter(ctx, userID, chapterID)
	if err != nil {
		return err
	}

	if baseDTO.Number != chapter.Number {
		exist, err := s.chapterRepo.GetByStoryAndNumber(ctx, chapter.StoryID, baseDTO.Number)
		if err != nil {
			return err
		}
		if exist != nil {
			return ErrChapterNumberExist
		}
		chapter.Number = baseDTO.Number
	}
	chapter.Name = baseDTO.Name
	chapter.Slug = util.Slugify(baseDTO.Name)
	chapter.Content = baseDTO.Content

	if err = s.chapterRepo.Update(ctx, chapter); err != nil {
		return err
	}
	s.evictChapterCache(ctx, story.ID)
	return nil
}

func (s *chapterServiceImpl) GetChapter(ctx context.Context, storyID uint64, number int) (*dto.ChapterDTO, error) {
	chapter, err := s.chapterRepo.GetByStoryAndNumber(ctx, storyID, number)
	if err != nil {
		return nil, err
	}
	if chapter == nil || chapter.Status != consts.ChapterStatusPublished {
		return nil, ErrChapterNotFound
	}
	return toChapterDTO(chapter), nil
}

func (s *chapterServiceImpl) PublishChapter(ctx context.Context, userID uint64, chapterID uint64) error {
	chapter, story, err := s.ownedChapter(ctx, userID, chapterID)
	if err != nil {
		return err
	}
	if chapter.Status == consts.ChapterStatusPublished {
		return nil
	}

	now := time.Now()
	chapter.Status = consts.ChapterStatusPublished
	chapter.PublishedAt = &now
	if err = s.chapterRepo.Update(ctx, chapter); err != nil {
		return err
	}
	if err = s.storyRepo.IncChapterCount(ctx, story.ID, now); err != nil {
		return err
	}
	s.evictChapterCache(ctx, story.ID)

	go s.notifyBookmarkers(story, chapter)
	return nil
}

func (s *chapterServiceImpl) ListChapters(ctx context.Context, userID uint64, storyID uint64, includeDrafts bool, page, limit int) (*dto.ChapterPageDTO, error) {
	// 草稿目录只有作者本人可见
	if includeDrafts {
		story, err := s.storyRepo.GetByID(ctx, storyID)
		if err != nil {
			return nil, err
		}
		if story == nil {
			return nil, ErrStoryNotFound
		}
		if story.AuthorID != userID {
			includeDrafts = false
		}
	}

	// 只缓存读者最常打开的第一页目录
	key := consts.StoryChaptersKey + strconv.FormatUint(storyID, 10)
	cacheable := !includeDrafts && page == 1
	if cacheable {
		if val, err := redis.GetValue(ctx, key); err == nil && val != "" {
			var cached dto.ChapterPageDTO
			if err = json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	chapters, total, err := s.chapterRepo.ListByStory(ctx, storyID, !includeDrafts, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChapterDTO, 0, len(chapters))
	for _, chapter := range chapters {
		item := toChapterDTO(chapter)
		// 目录页不带正文
		item.Content = ""
		items = append(items, item)
	}
	pageDTO := &dto.ChapterPageDTO{
		Chapters:   items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}

	if cacheable {
		if data, err := json.Marshal(pageDTO); err == nil {
			_ = redis.SetWithExpiration(ctx, key, string(data), chapterListTTL)
		}
	}
	return pageDTO, nil
}

func (s *chapterServiceImpl) ownedChapter(ctx context.Context, userID, chapterID uint64) (*model.Chapter, *model.Story, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, nil, err
	}
	if chapter == nil {
		return nil, nil, ErrChapterNotFound
	}
	story, err := s.storyRepo.GetByID(ctx, chapter.StoryID)
	if err != nil {
		return nil, nil, err
	}
	if story == nil {
		return nil, nil, ErrStoryNotFound
	}
	if story.AuthorID != userID {
		return nil, nil, UnauthorizedError
	}
	return chapter, story, nil
}

func (s *chapterServiceImpl) notifyBookmarkers(story *model.Story, chapter *model.Chapter) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userIDs, err := s.bookmarkRepo.ListUserIDsByStory(ctx, story.ID)
	if err != nil {
		log.Error("list bookmarkers error", "story_id", story.ID, "err", err)
		return
	}
	for _, userID := range userIDs {
		msg := &mongo.NotificationModel{
			ReceiverID: userID,
			SenderID:   story.AuthorID,
			Type:       consts.NotifyTypeNewChapter,
			TargetID:   story.ID,
			Content:    fmt.Sprintf("《%s》更新了第 %d 章：%s", story.Name, chapter.Number, chapter.Name),
			Payload:    map[string]any{"chapter_id": chapter.ID, "number": chapter.Number},
		}
		if err = s.notificationRepo.Create(ctx, msg); err != nil {
			log.Error("create chapter notification error", "user_id", userID, "err", err)
		}
	}
}

func (s *chapterServiceImpl) evictChapterCache(ctx context.Context, storyID uint64) {
	_ = redis.DeleteKey(ctx, consts.StoryChaptersKey+strconv.FormatUint(storyID, 10))
}

func toChapterDTO(chapter *model.Chapter) *dto.ChapterDTO {
	chapterDTO := &dto.ChapterDTO{}
	_ = copier.Copy(chapterDTO, chapter)
	return chapterDTO
}
