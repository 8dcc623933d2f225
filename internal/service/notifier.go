package service

import (
	"Shutter/internal/model"
	"context"
	log "log/slog"
)

// Notifier 通知端口，发出即忘，不关心结果
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// MultiNotifier 依次转发给多个 Notifier
type MultiNotifier []Notifier

func (s MultiNotifier) Notify(ctx context.Context, event model.Event) {
	for _, n := range s {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}

// LogNotifier 只写日志
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event model.Event) {
	log.InfoContext(ctx, "share event",
		"type", event.Type,
		"session_id", event.SessionID,
		"post_id", event.PostID,
		"failed", event.FailedCount,
		"total", event.TotalCount,
		"message", event.Message,
	)
}
