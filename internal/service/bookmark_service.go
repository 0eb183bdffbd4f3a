package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"time"
)

type BookmarkService interface {
	AddBookmark(ctx context.Context, userID uint64, storyID uint64) error
	RemoveBookmark(ctx context.Context, userID uint64, storyID uint64) error
	ListBookmarks(ctx context.Context, userID uint64, page, limit int) (*dto.StoryPageDTO, error)
	IsBookmarked(ctx context.Context, userID uint64, storyID uint64) (bool, error)
}

type bookmarkServiceImpl struct {
	bookmarkRepo repository.BookmarkRepo
	storyRepo    repository.StoryRepo
	statsRepo    mongo.StoryStatsRepo
}

func NewBookmarkService(
	bookmarkRepo repository.BookmarkRepo,
	storyRepo repository.StoryRepo,
	statsRepo mongo.StoryStatsRepo,
) BookmarkService {
	return &bookmarkServiceImpl{
		bookmarkRepo: bookmarkRepo,
		storyRepo:    storyRepo,
		statsRepo:    statsRepo,
	}
}

func (s *bookmarkServiceImpl) AddBookmark(ctx context.Context, userID uint64, storyID uint64) error {
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

	exists, err := s.bookmarkRepo.Exists(ctx, userID, storyID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err = s.bookmarkRepo.Create(ctx, &model.Bookmark{UserID: userID, StoryID: storyID}); err != nil {
		// 并发下唯一索引兜底，重复收藏当幂等成功处理
		if isDuplicateError(err) {
			return nil
		}
		return err
	}
	if err = s.storyRepo.IncBookmarks(ctx, storyID, 1); err != nil {
		return err
	}
	if err = s.statsRepo.IncStats(ctx, storyID, time.Now(), mongo.StatsDelta{BookmarksCount: 1}); err != nil {
		log.ErrorContext(ctx, "inc bookmark stats error", "story_id", storyID, "err", err)
	}
	return nil
}

func (s *bookmarkServiceImpl) RemoveBookmark(ctx context.Context, userID uint64, storyID uint64) error {
	removed, err := s.bookmarkRepo.Delete(ctx, userID, storyID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}
	// 取消收藏只回退作品表计数，当日统计留存不回冲
	return s.storyRepo.IncBookmarks(ctx, storyID, -1)
}

func (s *bookmarkServiceImpl) ListBookmarks(ctx context.Context, userID uint64, page, limit int) (*dto.StoryPageDTO, error) {
	bookmarks, total, err := s.bookmarkRepo.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	storyIDs := make([]uint64, 0, len(bookmarks))
	for _, b := range bookmarks {
		storyIDs = append(storyIDs, b.StoryID)
	}
	stories, err := s.storyRepo.GetByIDs(ctx, storyIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Story, len(stories))
	for _, st := range stories {
		byID[st.ID] = st
	}

	// 按收藏时间倒序还原
	ordered := make([]*model.Story, 0, len(bookmarks))
	for _, b := range bookmarks {
		if st, ok := byID[b.StoryID]; ok {
			ordered = append(ordered, st)
		}
	}
	return toStoryPageDTO(ordered, total, page, limit), nil
}

func (s *bookmarkServiceImpl) IsBookmarked(ctx context.Context, userID uint64, storyID uint64) (bool, error) {
	return s.bookmarkRepo.Exists(ctx, userID, storyID)
}
