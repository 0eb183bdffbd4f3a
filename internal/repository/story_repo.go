package repository

import (
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// hotFlagColumns 榜单周期到热门标记列的映射
var hotFlagColumns = map[mongo.Horizon]string{
	mongo.HorizonDaily:   "is_hot_day",
	mongo.HorizonWeekly:  "is_hot_week",
	mongo.HorizonMonthly: "is_hot_month",
	mongo.HorizonAllTime: "is_hot_all_time",
}

type StoryRepo interface {
	Create(ctx context.Context, story *model.Story) error
	Update(ctx context.Context, story *model.Story) error
	GetByID(ctx context.Context, id uint64) (*model.Story, error)
	GetBySlug(ctx context.Context, slug string) (*model.Story, error)
	GetByIDs(ctx context.Context, ids []uint64) ([]*model.Story, error)
	ListByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*model.Story, int64, error)
	ListByCategory(ctx context.Context, categoryID uint64, limit, offset int) ([]*model.Story, int64, error)
	ListPending(ctx context.Context, limit, offset int) ([]*model.Story, int64, error)
	UpdateApproval(ctx context.Context, id uint64, approvalStatus string) error
	UpdateStatus(ctx context.Context, id uint64, status string) error

	// GetEligibleForRanking 榜单候选集：已发布且审核通过的全部作品
	GetEligibleForRanking(ctx context.Context) ([]*model.Story, error)
	// UpdateHotFlag 回写某周期的热门标记
	UpdateHotFlag(ctx context.Context, storyID uint64, horizon mongo.Horizon, hot bool) error
	// LegacyRatingTotals 作品表冗余评分列的全站合计，统计聚合失败时的兜底
	LegacyRatingTotals(ctx context.Context) (sum int64, count int64, err error)

	// IncChapterCount 章节发布后 +1 并刷新 updated_at（时间衰减的输入）
	IncChapterCount(ctx context.Context, storyID uint64, publishedAt time.Time) error
	IncViews(ctx context.Context, storyID uint64, delta int64) error
	IncBookmarks(ctx context.Context, storyID uint64, delta int) error
	ApplyRatingDelta(ctx context.Context, storyID uint64, sumDelta int64, countDelta int64) error
}

type storyRepoImpl struct {
	db *gorm.DB
}

func NewStoryRepo(db *gorm.DB) StoryRepo {
	return &storyRepoImpl{db: db}
}

func (r *storyRepoImpl) Create(ctx context.Context, story *model.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepoImpl) Update(ctx context.Context, story *model.Story) error {
	return r.db.WithContext(ctx).Save(story).Error
}

func (r *storyRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Story, error) {
	var story model.Story
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

func (r *storyRepoImpl) GetBySlug(ctx context.Context, slug string) (*model.Story, error) {
	var story model.Story
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Author").
		Where("slug = ?", slug).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

func (r *storyRepoImpl) GetByIDs(ctx context.Context, ids []uint64) ([]*model.Story, error) {
	stories := make([]*model.Story, 0, len(ids))
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id IN ?", ids).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *storyRepoImpl) ListByAuthor(ctx context.Context, authorID uint64, limit, offset int) ([]*model.Story, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("author_id = ?", authorID), limit, offset)
}

func (r *storyRepoImpl) ListByCategory(ctx context.Context, categoryID uint64, limit, offset int) ([]*model.Story, int64, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN story_categories ON story_categories.story_id = stories.id").
		Where("story_categories.category_id = ?", categoryID).
		Where("stories.status = ? AND stories.approval_status = ?",
			consts.StoryStatusPublished, consts.ApprovalStatusApproved)
	return r.list(ctx, q, limit, offset)
}

func (r *storyRepoImpl) ListPending(ctx context.Context, limit, offset int) ([]*model.Story, int64, error) {
	q := r.db.WithContext(ctx).Where("approval_status = ?", consts.ApprovalStatusPending)
	return r.list(ctx, q, limit, offset)
}

func (r *storyRepoImpl) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]*model.Story, int64, error) {
	var total int64
	if err := q.Model(&model.Story{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	stories := make([]*model.Story, 0, limit)
	err := q.Preload("Categories").
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

func (r *storyRepoImpl) UpdateApproval(ctx context.Context, id uint64, approvalStatus string) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", id).
		Update("approval_status", approvalStatus).Error
}

func (r *storyRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *storyRepoImpl) GetEligibleForRanking(ctx context.Context) ([]*model.Story, error) {
	stories := make([]*model.Story, 0)
	err := r.db.WithContext(ctx).
		Where("status = ? AND approval_status = ?",
			consts.StoryStatusPublished, consts.ApprovalStatusApproved).
		Find(&stories).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "load ranking candidates")
	}
	return stories, nil
}

func (r *storyRepoImpl) UpdateHotFlag(ctx context.Context, storyID uint64, horizon mongo.Horizon, hot bool) error {
	column, ok := hotFlagColumns[horizon]
	if !ok {
		return pkgerrors.Errorf("unknown horizon %q", horizon)
	}
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		Update(column, hot).Error
}

func (r *storyRepoImpl) LegacyRatingTotals(ctx context.Context) (int64, int64, error) {
	var totals struct {
		Sum   int64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Select("COALESCE(SUM(rating_sum),0) AS sum, COALESCE(SUM(rating_count),0) AS count").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.Sum, totals.Count, nil
}

func (r *storyRepoImpl) IncChapterCount(ctx context.Context, storyID uint64, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		Updates(map[string]interface{}{
			"chapter_count": gorm.Expr("chapter_count + 1"),
			"updated_at":    publishedAt,
		}).Error
}

func (r *storyRepoImpl) IncViews(ctx context.Context, storyID uint64, delta int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", delta)).Error
}

func (r *storyRepoImpl) IncBookmarks(ctx context.Context, storyID uint64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		UpdateColumn("bookmarks_count", gorm.Expr("bookmarks_count + ?", delta)).Error
}

func (r *storyRepoImpl) ApplyRatingDelta(ctx context.Context, storyID uint64, sumDelta int64, countDelta int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		UpdateColumns(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", sumDelta),
			"rating_count": gorm.Expr("rating_count + ?", countDelta),
		}).Error
}
