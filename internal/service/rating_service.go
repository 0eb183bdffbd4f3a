package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

type RatingService interface {
	// RateStory 提交或修改评分。修改时当日统计先减旧值再加新值，
	// 评分条数只在首次提交时 +1。
	RateStory(ctx context.Context, userID uint64, storyID uint64, dto *dto.RateStoryDTO) (*dto.RatingDTO, error)
	GetUserRating(ctx context.Context, userID uint64, storyID uint64) (*dto.RatingDTO, error)
}

type ratingServiceImpl struct {
	ratingRepo       repository.RatingRepo
	storyRepo        repository.StoryRepo
	statsRepo        mongo.StoryStatsRepo
	notificationRepo mongo.NotificationRepo
}

func NewRatingService(
	ratingRepo repository.RatingRepo,
	storyRepo repository.StoryRepo,
	statsRepo mongo.StoryStatsRepo,
	notificationRepo mongo.NotificationRepo,
) RatingService {
	return &ratingServiceImpl{
		ratingRepo:       ratingRepo,
		storyRepo:        storyRepo,
		statsRepo:        statsRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *ratingServiceImpl) RateStory(ctx context.Context, userID uint64, storyID uint64, rateDTO *dto.RateStoryDTO) (*dto.RatingDTO, error) {
	if rateDTO.Value < consts.RatingMin || rateDTO.Value > consts.RatingMax {
		return nil, ErrRatingOutOfRange
	}

	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	if story.Status != consts.StoryStatusPublished {
		return nil, ErrStoryNotPublished
	}

	previous, err := s.ratingRepo.GetByUserAndStory(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	rating := &model.Rating{
		UserID:  userID,
		StoryID: storyID,
		Value:   rateDTO.Value,
	}
	if err = s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	sumDelta := int64(rateDTO.Value)
	countDelta := int64(1)
	isEdit := previous != nil
	if isEdit {
		sumDelta -= int64(previous.Value)
		countDelta = 0
	}

	if err = s.storyRepo.ApplyRatingDelta(ctx, storyID, sumDelta, countDelta); err != nil {
		return nil, err
	}
	if err = s.statsRepo.IncStats(ctx, storyID, time.Now(), mongo.StatsDelta{
		RatingsCount: countDelta,
		RatingsSum:   sumDelta,
	}); err != nil {
		// 统计行落库失败不影响评分本身，榜单侧有冗余列兜底
		log.ErrorContext(ctx, "inc rating stats error", "story_id", storyID, "err", err)
	}

	if !isEdit && story.AuthorID != userID {
		go s.notifyAuthor(story, userID, rateDTO.Value)
	}

	sum, count, err := s.ratingRepo.StoryTotals(ctx, storyID)
	if err != nil {
		return nil, err
	}
	result := &dto.RatingDTO{
		StoryID: storyID,
		Value:   rateDTO.Value,
		Count:   int(count),
	}
	if count > 0 {
		result.AvgRating = float64(sum) / float64(count)
	}
	return result, nil
}

func (s *ratingServiceImpl) GetUserRating(ctx context.Context, userID uint64, storyID uint64) (*dto.RatingDTO, error) {
	rating, err := s.ratingRepo.GetByUserAndStory(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, nil
	}
	return &dto.RatingDTO{StoryID: storyID, Value: rating.Value}, nil
}

func (s *ratingServiceImpl) notifyAuthor(story *model.Story, raterID uint64, value int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &mongo.NotificationModel{
		ReceiverID: story.AuthorID,
		SenderID:   raterID,
		Type:       consts.NotifyTypeRating,
		TargetID:   story.ID,
		Content:    fmt.Sprintf("你的作品《%s》收到了一个 %d 星评分", story.Name, value),
	}
	if err := s.notificationRepo.Create(ctx, msg); err != nil {
		log.Error("create rating notification error", "story_id", story.ID, "err", err)
	}
}
