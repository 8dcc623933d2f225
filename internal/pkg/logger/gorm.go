package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

const (
	sqlSlowThreshold = 200 * time.Millisecond
	// 帖子媒体批量写入时 SQL 可能很长
	sqlMaxLen = 2000
)

// GormLogger 把 gorm 日志转成 slog，带上数据库方言前缀
type GormLogger struct {
	level   logger.LogLevel
	dialect string
}

func NewGormLogger(dialect string) *GormLogger {
	return &GormLogger{level: logger.Warn, dialect: dialect}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{level: level, dialect: l.dialect}
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Info, log.LevelInfo, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Warn, log.LevelWarn, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Error, log.LevelError, msg, data)
}

func (l *GormLogger) emit(ctx context.Context, need logger.LogLevel, level log.Level, msg string, data []interface{}) {
	if l.level >= need {
		log.Log(ctx, level, msg, "dialect", l.dialect, "data", data)
	}
}

// Trace 出错记 error，慢查询记 warn，其余只在 Info 模式下记录
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	msg := l.dialect + " " + sqlOperation(sql)
	fields := []any{
		log.String("sql", truncate(sql, sqlMaxLen)),
		log.Duration("latency", elapsed),
		log.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound):
		log.ErrorContext(ctx, msg+" Error", append(fields, log.Any("err", err))...)
	case elapsed > sqlSlowThreshold:
		log.WarnContext(ctx, msg+" Slow", fields...)
	case l.level >= logger.Info:
		log.InfoContext(ctx, msg, fields...)
	}
}

func sqlOperation(sql string) string {
	op, _, found := strings.Cut(strings.TrimSpace(sql), " ")
	if !found || op == "" {
		return "QUERY"
	}
	return strings.ToUpper(op)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}
