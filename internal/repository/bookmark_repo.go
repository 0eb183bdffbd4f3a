package repository

import (
	"Inkstone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type BookmarkRepo interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	Delete(ctx context.Context, userID, storyID uint64) (bool, error)
	Exists(ctx context.Context, userID, storyID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.Bookmark, int64, error)
	// ListUserIDsByStory 收藏了该作品的用户，新章节通知的收件人
	ListUserIDsByStory(ctx context.Context, storyID uint64) ([]uint64, error)
}

type bookmarkRepoImpl struct {
	db *gorm.DB
}

func NewBookmarkRepo(db *gorm.DB) BookmarkRepo {
	return &bookmarkRepoImpl{db: db}
}

func (r *bookmarkRepoImpl) Create(ctx context.Context, bookmark *model.Bookmark) error {
	return r.db.WithContext(ctx).Create(bookmark).Error
}

func (r *bookmarkRepoImpl) Delete(ctx context.Context, userID, storyID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&model.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepoImpl) Exists(ctx context.Context, userID, storyID uint64) (bool, error) {
	var bookmark model.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		First(&bookmark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *bookmarkRepoImpl) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]*model.Bookmark, int64, error) {
	var (
		bookmarks []*model.Bookmark
		total     int64
	)
	query := r.db.WithContext(ctx).Model(&model.Bookmark{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookmarks).Error
	if err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

func (r *bookmarkRepoImpl) ListUserIDsByStory(ctx context.Context, storyID uint64) ([]uint64, error) {
	var userIDs []uint64
	err := r.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("story_id = ?", storyID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
