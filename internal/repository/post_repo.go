package repository

import (
	"Shutter/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	SavePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	GetLatestPosts(ctx context.Context, limit, offset int) ([]*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	ListMediaRefs(ctx context.Context, refs []string) ([]string, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// SavePost 帖子、媒体、标签在同一事务内写入
func (s PostRepoImpl) SavePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("MediaRefs", "Tags").Create(post).Error; err != nil {
			return err
		}
		if len(post.MediaRefs) > 0 {
			if err := tx.Create(&post.MediaRefs).Error; err != nil {
				return err
			}
		}
		if len(post.Tags) > 0 {
			if err := tx.Create(&post.Tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetPost 不存在或已删除时返回 nil
func (s PostRepoImpl) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := s.preload(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetLatestPosts 按发布时间倒序
func (s PostRepoImpl) GetLatestPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.preload(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) DeletePost(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMediaRefs 返回 refs 中已被帖子引用的部分
func (s PostRepoImpl) ListMediaRefs(ctx context.Context, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var used []string
	err := s.db.WithContext(ctx).Model(&model.PostMedia{}).
		Where("remote_ref IN ?", refs).
		Distinct().
		Pluck("remote_ref", &used).Error
	return used, err
}

func (s PostRepoImpl) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("MediaRefs", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}
