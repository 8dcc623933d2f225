package job

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"
)

// TempMediaStore 临时对象登记表
type TempMediaStore interface {
	List(ctx context.Context) (map[string]dto.MediaTempMetadata, error)
	Release(ctx context.Context, keys []string) error
	Delete(ctx context.Context, key string) error
}

// RefChecker 查询哪些对象已被帖子引用
type RefChecker interface {
	ListMediaRefs(ctx context.Context, refs []string) ([]string, error)
}

type StagingCleaner interface {
	CleanupStaging(ctx context.Context, olderThan time.Duration) (int, error)
}

// SessionStore 草稿会话，未发布会话持有的对象不能清理
type SessionStore interface {
	PruneSessions(ctx context.Context, olderThan time.Duration) int
	PendingRefs(ctx context.Context) []string
}

type MediaCleanupOptions struct {
	TempObjectTTL time.Duration
	StagingTTL    time.Duration
	SessionTTL    time.Duration
}

type MediaCleanupJob struct {
	temp     TempMediaStore
	refs     RefChecker
	staging  StagingCleaner
	sessions SessionStore
	opts     MediaCleanupOptions
	now      func() time.Time
}

// NewMediaCleanupJob temp 为空时跳过临时对象清理
func NewMediaCleanupJob(temp TempMediaStore, refs RefChecker, staging StagingCleaner, sessions SessionStore, opts MediaCleanupOptions) *MediaCleanupJob {
	return &MediaCleanupJob{
		temp:     temp,
		refs:     refs,
		staging:  staging,
		sessions: sessions,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *MediaCleanupJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "")
	log.InfoContext(ctx, "start media cleanup job")

	// 先清理过期会话，被清理会话上传的对象随后按孤儿对象处理
	pruned := 0
	if s.sessions != nil && s.opts.SessionTTL > 0 {
		pruned = s.sessions.PruneSessions(ctx, s.opts.SessionTTL)
	}

	cleaned := s.cleanTempMedia(ctx)

	staged := 0
	if s.staging != nil && s.opts.StagingTTL > 0 {
		n, err := s.staging.CleanupStaging(ctx, s.opts.StagingTTL)
		if err != nil {
			log.ErrorContext(ctx, "failed to cleanup staging dir", "err", err)
		}
		staged = n
	}

	log.InfoContext(ctx, "media cleanup job finished",
		"temp_cleaned", cleaned,
		"staging_cleaned", staged,
		"sessions_pruned", pruned,
	)
}

// cleanTempMedia 过期且未被引用的对象删除；已被帖子引用的只移出登记表；
// 未发布草稿持有的对象原样保留
func (s *MediaCleanupJob) cleanTempMedia(ctx context.Context) int {
	if s.temp == nil {
		return 0
	}

	allMedia, err := s.temp.List(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to get media temp hash", "err", err)
		return 0
	}

	now := s.now().Unix()
	expiration := int64(s.opts.TempObjectTTL / time.Second)

	expired := make([]string, 0)
	for fileKey, meta := range allMedia {
		if now-meta.CreatedAt > expiration {
			expired = append(expired, fileKey)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	used := make(map[string]struct{})
	if s.refs != nil {
		refs, err := s.refs.ListMediaRefs(ctx, expired)
		if err != nil {
			// 无法确认引用关系时不删除任何对象
			log.ErrorContext(ctx, "failed to check media refs", "err", err)
			return 0
		}
		for _, ref := range refs {
			used[ref] = struct{}{}
		}
	}

	pending := make(map[string]struct{})
	if s.sessions != nil {
		for _, ref := range s.sessions.PendingRefs(ctx) {
			pending[ref] = struct{}{}
		}
	}

	count := 0
	release := make([]string, 0)
	for _, fileKey := range expired {
		if _, ok := pending[fileKey]; ok {
			// 草稿仍可能发布，保留对象和登记
			continue
		}
		if _, ok := used[fileKey]; ok {
			release = append(release, fileKey)
			continue
		}
		if err = s.temp.Delete(ctx, fileKey); err != nil {
			log.ErrorContext(ctx, "failed to delete expired file", "fileKey", fileKey, "err", err)
			continue
		}
		release = append(release, fileKey)
		count++
		log.InfoContext(ctx, "cleanup expired media resource", "fileKey", fileKey, "mime", allMedia[fileKey].MimeType)
	}

	if err = s.temp.Release(ctx, release); err != nil {
		log.ErrorContext(ctx, "failed to remove media token from redis", "err", err)
	}
	return count
}
