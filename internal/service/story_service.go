package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/es"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// storyDetailTTL 作品详情缓存时长
const storyDetailTTL = 10 * time.Minute

type StoryService interface {
	CreateStory(ctx context.Context, authorID uint64, dto *dto.StoryBaseDTO) (*dto.StoryDTO, error)
	UpdateStory(ctx context.Context, userID uint64, storyID uint64, dto *dto.StoryBaseDTO) error
	GetStory(ctx context.Context, storyID uint64) (*dto.StoryDTO, error)
	GetStoryBySlug(ctx context.Context, slug string) (*dto.StoryDTO, error)
	PublishStory(ctx context.Context, userID uint64, storyID uint64) error
	ApproveStory(ctx context.Context, storyID uint64, dto *dto.ApproveStoryDTO) error
	ListByAuthor(ctx context.Context, authorID uint64, page, limit int) (*dto.StoryPageDTO, error)
	ListByCategory(ctx context.Context, categorySlug string, page, limit int) (*dto.StoryPageDTO, error)
	ListPending(ctx context.Context, page, limit int) (*dto.StoryPageDTO, error)
	SearchStories(ctx context.Context, keyword string, page, limit int) (*dto.StoryPageDTO, error)
	// RecordView 阅读事件：当日计数、UV、脏集合，作品表阅读量实时 +1
	RecordView(ctx context.Context, storyID uint64, viewerKey string) error
	// RecordShare 分享事件，只进当日计数和脏集合
	RecordShare(ctx context.Context, storyID uint64) error
}

type storyServiceImpl struct {
	storyRepo    repository.StoryRepo
	categoryRepo repository.CategoryRepo
	userRepo     repository.UserRepo
	storyESRepo  es.StoryRepo
}

func NewStoryService(
	storyRepo repository.StoryRepo,
	categoryRepo repository.CategoryRepo,
	userRepo repository.UserRepo,
	storyESRepo es.StoryRepo,
) StoryService {
	return &storyServiceImpl{
		storyRepo:    storyRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		storyESRepo:  storyESRepo,
	}
}

func (s *storyServiceImpl) CreateStory(ctx context.Context, authorID uint64, baseDTO *dto.StoryBaseDTO) (*dto.StoryDTO, error) {
	slug := util.Slugify(baseDTO.Name)
	exist, err := s.storyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrStorySlugExist
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, baseDTO.Categories)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(baseDTO.Categories) {
		return nil, ErrCategoryNotFound
	}

	story := &model.Story{
		Name:           baseDTO.Name,
		Slug:           slug,
		AuthorID:       authorID,
		Description:    baseDTO.Description,
		CoverURL:       baseDTO.CoverURL,
		Status:         consts.StoryStatusDraft,
		ApprovalStatus: consts.ApprovalStatusPending,
	}
	if story.CoverURL == "" {
		story.CoverURL = consts.DefaultCoverURL
	}
	for _, c := range categories {
		story.Categories = append(story.Categories, *c)
	}

	if err = s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return toStoryDTO(story), nil
}

func (s *storyServiceImpl) UpdateStory(ctx context.Context, userID uint64, storyID uint64, baseDTO *dto.StoryBaseDTO) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if story.AuthorID != userID {
		return UnauthorizedError
	}

	story.Name = baseDTO.Name
	story.Description = baseDTO.Description
	if baseDTO.CoverURL != "" {
		story.CoverURL = baseDTO.CoverURL
	}
	if len(baseDTO.Categories) > 0 {
		categories, err := s.categoryRepo.GetByIDs(ctx, baseDTO.Categories)
		if err != nil {
			return err
		}
		if len(categories) != len(baseDTO.Categories) {
			return ErrCategoryNotFound
		}
		story.Categories = story.Categories[:0]
		for _, c := range categories {
			story.Categories = append(story.Categories, *c)
		}
	}

	if err = s.storyRepo.Update(ctx, story); err != nil {
		return err
	}
	s.evictStoryCache(ctx, story)
	s.reindexStory(ctx, story)
	return nil
}

func (s *storyServiceImpl) GetStory(ctx context.Context, storyID uint64) (*dto.StoryDTO, error) {
	key := consts.StoryDetailKey + strconv.FormatUint(storyID, 10)
	if val, err := redis.GetValue(ctx, key); err == nil && val != "" {
		var cached dto.StoryDTO
		if err = json.Unmarshal([]byte(val), &cached); err == nil {
			return &cached, nil
		}
	}

	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}

	storyDTO := toStoryDTO(story)
	if data, err := json.Marshal(storyDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(data), storyDetailTTL)
	}
	return storyDTO, nil
}

func (s *storyServiceImpl) GetStoryBySlug(ctx context.Context, slug string) (*dto.StoryDTO, error) {
	story, err := s.storyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	return toStoryDTO(story), nil
}

func (s *storyServiceImpl) PublishStory(ctx context.Context, userID uint64, storyID uint64) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if story.AuthorID != userID {
		return UnauthorizedError
	}

	if err = s.storyRepo.UpdateStatus(ctx, storyID, consts.StoryStatusPublished); err != nil {
		return err
	}
	story.Status = consts.StoryStatusPublished
	s.evictStoryCache(ctx, story)
	s.reindexStory(ctx, story)
	return nil
}

// ApproveStory 审核：通过的作品进搜索索引，驳回的移出
func (s *storyServiceImpl) ApproveStory(ctx context.Context, storyID uint64, approveDTO *dto.ApproveStoryDTO) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}

	if err = s.storyRepo.UpdateApproval(ctx, storyID, approveDTO.ApprovalStatus); err != nil {
		return err
	}
	story.ApprovalStatus = approveDTO.ApprovalStatus
	s.evictStoryCache(ctx, story)

	if approveDTO.ApprovalStatus == consts.ApprovalStatusApproved {
		s.reindexStory(ctx, story)
	} else if err = s.storyESRepo.DeleteStory(ctx, storyID); err != nil {
		log.WarnContext(ctx, "delete story from es error", "story_id", storyID, "err", err)
	}
	return nil
}

func (s *storyServiceImpl) ListByAuthor(ctx context.Context, authorID uint64, page, limit int) (*dto.StoryPageDTO, error) {
	stories, total, err := s.storyRepo.ListByAuthor(ctx, authorID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return toStoryPageDTO(stories, total, page, limit), nil
}

func (s *storyServiceImpl) ListByCategory(ctx context.Context, categorySlug string, page, limit int) (*dto.StoryPageDTO, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	stories, total, err := s.storyRepo.ListByCategory(ctx, category.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return toStoryPageDTO(stories, total, page, limit), nil
}

func (s *storyServiceImpl) ListPending(ctx context.Context, page, limit int) (*dto.StoryPageDTO, error) {
	stories, total, err := s.storyRepo.ListPending(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return toStoryPageDTO(stories, total, page, limit), nil
}

func (s *storyServiceImpl) SearchStories(ctx context.Context, keyword string, page, limit int) (*dto.StoryPageDTO, error) {
	keyword = util.NormalizeSimplified(keyword)
	docs, total, err := s.storyESRepo.SearchStories(ctx, keyword, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	stories, err := s.storyRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Story, len(stories))
	for _, st := range stories {
		byID[st.ID] = st
	}

	// 保持 ES 的相关度排序
	ordered := make([]*model.Story, 0, len(docs))
	for _, doc := range docs {
		if st, ok := byID[doc.ID]; ok {
			ordered = append(ordered, st)
		}
	}
	return toStoryPageDTO(ordered, total, page, limit), nil
}

func (s *storyServiceImpl) RecordView(ctx context.Context, storyID uint64, viewerKey string) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if story.Status != consts.StoryStatusPublished {
		return ErrStoryNotPublished
	}

	idStr := strconv.FormatUint(storyID, 10)
	dayKey := util.DayKey(time.Now())
	if err = redis.IncrKey(ctx, consts.StoryViewKey+dayKey+":"+idStr); err != nil {
		return err
	}
	if viewerKey != "" {
		_ = redis.PFAddKey(ctx, consts.StoryUniqueViewKey+dayKey+":"+idStr, viewerKey)
	}
	_ = redis.SAddKey(ctx, consts.StoryDirtyKey+dayKey, idStr)

	return s.storyRepo.IncViews(ctx, storyID, 1)
}

func (s *storyServiceImpl) RecordShare(ctx context.Context, storyID uint64) error {
	idStr := strconv.FormatUint(storyID, 10)
	dayKey := util.DayKey(time.Now())
	if err := redis.IncrKey(ctx, consts.StoryShareKey+dayKey+":"+idStr); err != nil {
		return err
	}
	return redis.SAddKey(ctx, consts.StoryDirtyKey+dayKey, idStr)
}

func (s *storyServiceImpl) evictStoryCache(ctx context.Context, story *model.Story) {
	_ = redis.DeleteKey(ctx,
		consts.StoryDetailKey+strconv.FormatUint(story.ID, 10),
		consts.StoryChaptersKey+strconv.FormatUint(story.ID, 10),
	)
}

// reindexStory 只有已发布且审核通过的作品才进索引，失败不阻塞主流程
func (s *storyServiceImpl) reindexStory(ctx context.Context, story *model.Story) {
	if story.Status != consts.StoryStatusPublished || story.ApprovalStatus != consts.ApprovalStatusApproved {
		return
	}

	doc := &es.StoryES{
		ID:           story.ID,
		Name:         story.Name,
		Slug:         story.Slug,
		AuthorID:     story.AuthorID,
		Description:  story.Description,
		ChapterCount: story.ChapterCount,
		ViewsCount:   story.ViewsCount,
		CreatedAt:    story.CreatedAt,
		UpdatedAt:    story.UpdatedAt,
	}
	for _, c := range story.Categories {
		doc.Categories = append(doc.Categories, c.Name)
	}
	if author, err := s.userRepo.GetByID(ctx, story.AuthorID); err == nil && author != nil {
		doc.AuthorNickname = author.Nickname
	}

	if err := s.storyESRepo.IndexStory(ctx, doc, story.UpdatedAt.UnixMilli()); err != nil {
		log.WarnContext(ctx, "index story error", "story_id", story.ID, "err", err)
	}
}

func toStoryDTO(story *model.Story) *dto.StoryDTO {
	storyDTO := &dto.StoryDTO{}
	_ = copier.Copy(storyDTO, story)
	if story.RatingCount > 0 {
		storyDTO.AvgRating = float64(story.RatingSum) / float64(story.RatingCount)
	}
	storyDTO.RatingsCount = int(story.RatingCount)
	return storyDTO
}

func toStoryPageDTO(stories []*model.Story, total int64, page, limit int) *dto.StoryPageDTO {
	items := make([]*dto.StoryDTO, 0, len(stories))
	for _, story := range stories {
		items = append(items, toStoryDTO(story))
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &dto.StoryPageDTO{
		Stories:    items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
