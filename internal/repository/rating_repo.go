package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepo interface {
	// GetByUserAndStory 查用户对作品的既有评分，没有时返回 nil
	GetByUserAndStory(ctx context.Context, userID, storyID uint64) (*model.Rating, error)
	// Upsert (user_id, story_id) 冲突时覆盖评分值
	Upsert(ctx context.Context, rating *model.Rating) error
	StoryTotals(ctx context.Context, storyID uint64) (sum int64, count int64, err error)
}

type ratingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &ratingRepoImpl{db: db}
}

func (r *ratingRepoImpl) GetByUserAndStory(ctx context.Context, userID, storyID uint64) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepoImpl) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "story_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepoImpl) StoryTotals(ctx context.Context, storyID uint64) (int64, int64, error) {
	var totals struct {
		Sum   int64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(SUM(value),0) AS sum, COUNT(*) AS count").
		Where("story_id = ?", storyID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.Sum, totals.Count, nil
}
