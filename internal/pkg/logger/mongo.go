package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const (
	mongoSlowThreshold = 200 * time.Millisecond
	mongoCmdMaxLen     = 1000
)

// NewMongoMonitor 通知箱读写频繁，成功的命令只在 debug 级别记录
func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			log.DebugContext(ctx, "MongoDB Started",
				log.String("command", evt.CommandName),
				log.String("collection", mongoCollection(evt)),
				log.Int64("request_id", evt.RequestID),
				log.String("cmd_detail", truncate(evt.Command.String(), mongoCmdMaxLen)),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			level := log.LevelDebug
			msg := "MongoDB Success"
			if evt.Duration > mongoSlowThreshold {
				level, msg = log.LevelWarn, "MongoDB Slow"
			}
			log.Log(ctx, level, msg,
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
			)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}

// mongoCollection 命令文档中与命令同名的字段即集合名
func mongoCollection(evt *event.CommandStartedEvent) string {
	if name, ok := evt.Command.Lookup(evt.CommandName).StringValueOK(); ok {
		return name
	}
	return evt.DatabaseName
}
