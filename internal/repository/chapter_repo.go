package repository

import (
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/consts"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ChapterRepo interface {
	Create(ctx context.Context, chapter *model.Chapter) error
	Update(ctx context.Context, chapter *model.Chapter) error
	GetByID(ctx context.Context, id uint64) (*model.Chapter, error)
	GetByStoryAndNumber(ctx context.Context, storyID uint64, number int) (*model.Chapter, error)
	ListByStory(ctx context.Context, storyID uint64, publishedOnly bool, limit, offset int) ([]*model.Chapter, int64, error)
}

type chapterRepoImpl struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) ChapterRepo {
	return &chapterRepoImpl{db: db}
}

func (r *chapterRepoImpl) Create(ctx context.Context, chapter *model.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

func (r *chapterRepoImpl) Update(ctx context.Context, chapter *model.Chapter) error {
	return r.db.WithContext(ctx).Save(chapter).Error
}

func (r *chapterRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *chapterRepoImpl) GetByStoryAndNumber(ctx context.Context, storyID uint64, number int) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.db.WithContext(ctx).
		Where("story_id = ? AND number = ?", storyID, number).
		First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chapter, nil
}

// ListByStory 章节目录，按序号升序
func (r *chapterRepoImpl) ListByStory(ctx context.Context, storyID uint64, publishedOnly bool, limit, offset int) ([]*model.Chapter, int64, error) {
	q := r.db.WithContext(ctx).Where("story_id = ?", storyID)
	if publishedOnly {
		q = q.Where("status = ?", consts.ChapterStatusPublished)
	}

	var total int64
	if err := q.Model(&model.Chapter{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	chapters := make([]*model.Chapter, 0, limit)
	err := q.Order("number ASC").
		Limit(limit).
		Offset(offset).
		Find(&chapters).Error
	if err != nil {
		return nil, 0, err
	}
	return chapters, total, nil
}
