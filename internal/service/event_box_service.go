package service

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/pkg/mongo"
	"context"
	"time"
)

type EventBoxService interface {
	GetEventList(ctx context.Context, sessionID string, page, pageSize int) ([]*dto.EventBoxDTO, error)
	GetUnreadCount(ctx context.Context, sessionID string) (*dto.EventBoxUnreadDTO, error)
	MarkAllRead(ctx context.Context, sessionID string) error
}

type eventBoxServiceImpl struct {
	eventBoxRepo mongo.EventBoxRepo
}

// NewEventBoxService repo 为空表示未启用通知箱，查询返回空结果
func NewEventBoxService(repo mongo.EventBoxRepo) EventBoxService {
	return &eventBoxServiceImpl{eventBoxRepo: repo}
}

func (s *eventBoxServiceImpl) GetEventList(ctx context.Context, sessionID string, page, pageSize int) ([]*dto.EventBoxDTO, error) {
	if page < 1 || pageSize < 1 {
		return nil, ErrParamInvalid
	}
	if s.eventBoxRepo == nil {
		return []*dto.EventBoxDTO{}, nil
	}

	list, err := s.eventBoxRepo.GetEventList(ctx, sessionID, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}

	out := make([]*dto.EventBoxDTO, len(list))
	for i, m := range list {
		out[i] = &dto.EventBoxDTO{
			ID:          m.ID.Hex(),
			Type:        m.Type,
			PostID:      m.PostID,
			FailedCount: m.FailedCount,
			TotalCount:  m.TotalCount,
			Content:     m.Content,
			IsRead:      m.IsRead,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, nil
}

func (s *eventBoxServiceImpl) GetUnreadCount(ctx context.Context, sessionID string) (*dto.EventBoxUnreadDTO, error) {
	if s.eventBoxRepo == nil {
		return &dto.EventBoxUnreadDTO{}, nil
	}
	count, err := s.eventBoxRepo.GetUnreadCount(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.EventBoxUnreadDTO{UnreadCount: count}, nil
}

func (s *eventBoxServiceImpl) MarkAllRead(ctx context.Context, sessionID string) error {
	if s.eventBoxRepo == nil {
		return nil
	}
	return s.eventBoxRepo.MarkAllAsRead(ctx, sessionID)
}
