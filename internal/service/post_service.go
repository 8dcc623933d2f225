package service

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/model"
	"Shutter/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// MaxOffsetLimit 深分页限制
const MaxOffsetLimit = 10000

type PostService interface {
	LatestPost(ctx context.Context, page, pageSize int) (*dto.PostWaterfallDTO, error)
	GetPostById(ctx context.Context, postID string) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, postID string) error
}

type postServiceImpl struct {
	postDBRepo repository.PostRepo
	resolveURL func(ref string) string
}

// NewPostService resolveURL 把存储引用转换为可访问地址，为空时原样返回
func NewPostService(postDBRepo repository.PostRepo, resolveURL func(ref string) string) PostService {
	if resolveURL == nil {
		resolveURL = func(ref string) string { return ref }
	}
	return &postServiceImpl{
		postDBRepo: postDBRepo,
		resolveURL: resolveURL,
	}
}

// LatestPost 最新流
func (s *postServiceImpl) LatestPost(ctx context.Context, page, pageSize int) (*dto.PostWaterfallDTO, error) {
	if page < 1 || pageSize < 1 {
		return nil, ErrParamInvalid
	}
	if (page-1)*pageSize >= MaxOffsetLimit {
		return &dto.PostWaterfallDTO{
			List:    []*dto.PostDTO{},
			HasMore: false,
		}, nil
	}

	return getWaterfallPosts(pageSize,
		func() ([]*model.Post, error) {
			return s.postDBRepo.GetLatestPosts(ctx, pageSize+1, (page-1)*pageSize)
		},
		s.batchToPostDTO,
	)
}

// GetPostById 获取单个帖子
func (s *postServiceImpl) GetPostById(ctx context.Context, postID string) (*dto.PostDTO, error) {
	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.toPostDTO(post)
}

// DeletePost 软删除
func (s *postServiceImpl) DeletePost(ctx context.Context, postID string) error {
	err := s.postDBRepo.DeletePost(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "post deleted", "post_id", postID)
	return nil
}

func (s *postServiceImpl) toPostDTO(post *model.Post) (*dto.PostDTO, error) {
	out := &dto.PostDTO{}
	if err := copier.Copy(out, post); err != nil {
		return nil, err
	}
	out.Tags = post.TagNames()
	out.CreatedAt = post.CreatedAt.Format(time.RFC3339)

	if audio := post.Audio(); audio != nil {
		out.Audio = &dto.AudioDTO{}
		if err := copier.Copy(out.Audio, audio); err != nil {
			return nil, err
		}
	}

	out.Medias = make([]*dto.PostMediaDTO, len(post.MediaRefs))
	for i, m := range post.MediaRefs {
		item := &dto.PostMediaDTO{}
		if err := copier.Copy(item, &m); err != nil {
			return nil, err
		}
		item.Kind = string(m.Kind)
		item.URL = s.resolveURL(m.RemoteRef)
		out.Medias[i] = item
	}
	return out, nil
}

func (s *postServiceImpl) batchToPostDTO(posts []*model.Post) ([]*dto.PostDTO, error) {
	out := make([]*dto.PostDTO, len(posts))
	for i, post := range posts {
		item, err := s.toPostDTO(post)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// getWaterfallPosts 多取一条判断是否还有下一页
func getWaterfallPosts[T any](
	pageSize int,
	fetchFunc func() ([]T, error),
	convertFunc func([]T) ([]*dto.PostDTO, error),
) (*dto.PostWaterfallDTO, error) {
	rawData, err := fetchFunc()
	if err != nil {
		return nil, err
	}

	hasMore := false
	if len(rawData) > pageSize {
		hasMore = true
		rawData = rawData[:pageSize]
	}

	dtoItems, err := convertFunc(rawData)
	if err != nil {
		return nil, err
	}

	return &dto.PostWaterfallDTO{
		List:    dtoItems,
		HasMore: hasMore,
	}, nil
}
