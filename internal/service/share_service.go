package service

import (
	"Shutter/internal/model"
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PostSaver 持久化已组装的帖子
type PostSaver interface {
	SavePost(ctx context.Context, post *model.Post) error
}

// ShareService 驱动 草稿 -> 上传 -> (发布 | 部分失败 -> 重试) 的状态机
type ShareService interface {
	CreateDraft(ctx context.Context, items []model.MediaItem, meta model.PostMetadata) (*SessionSnapshot, error)
	GetSession(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	UpdateMetadata(ctx context.Context, sessionID string, meta model.PostMetadata) (*SessionSnapshot, error)
	ReorderMedia(ctx context.Context, sessionID string, from, to int) (*SessionSnapshot, error)
	RemoveMedia(ctx context.Context, sessionID string, mediaID string) (*SessionSnapshot, error)
	Share(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Retry(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Abandon(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Subscribe(ctx context.Context, sessionID string) (<-chan SessionSnapshot, func(), error)
	PruneSessions(ctx context.Context, olderThan time.Duration) int
	PendingRefs(ctx context.Context) []string
}

// ShareDeps 分享服务依赖的外部协作者
type ShareDeps struct {
	Uploader         Uploader
	Saver            PostSaver
	Notifier         Notifier
	Assembler        *PostAssembler
	MaxCaptionLength int
	Now              func() time.Time
}

type shareServiceImpl struct {
	uploader    Uploader
	coordinator *UploadBatchCoordinator
	retry       *RetryController
	assembler   *PostAssembler
	saver       PostSaver
	notifier    Notifier
	maxCaption  int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*shareSession
}

func NewShareService(deps ShareDeps) ShareService {
	coordinator := NewUploadBatchCoordinator(NewMediaUploadTask(deps.Uploader))
	assembler := deps.Assembler
	if assembler == nil {
		assembler = NewPostAssembler(nil, nil)
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &shareServiceImpl{
		uploader:    deps.Uploader,
		coordinator: coordinator,
		retry:       NewRetryController(coordinator),
		assembler:   assembler,
		saver:       deps.Saver,
		notifier:    notifier,
		maxCaption:  deps.MaxCaptionLength,
		now:         now,
		sessions:    make(map[string]*shareSession),
	}
}

// CreateDraft 新建草稿，允许暂时没有媒体
func (s *shareServiceImpl) CreateDraft(ctx context.Context, items []model.MediaItem, meta model.PostMetadata) (*SessionSnapshot, error) {
	if err := s.validateMetadata(meta); err != nil {
		return nil, err
	}
	sess := newShareSession(uuid.NewString(), items, meta, s.now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.InfoContext(ctx, "share draft created", "session_id", sess.id, "items", len(items))
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap := sess.snapshotLocked()
	return &snap, nil
}

func (s *shareServiceImpl) GetSession(_ context.Context, sessionID string) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	snap := sess.snapshotLocked()
	return &snap, nil
}

// UpdateMetadata 文字信息在发布前都可以修改
func (s *shareServiceImpl) UpdateMetadata(_ context.Context, sessionID string, meta model.PostMetadata) (*SessionSnapshot, error) {
	if err := s.validateMetadata(meta); err != nil {
		return nil, err
	}
	return s.mutate(sessionID, func(sess *shareSession) error {
		if sess.state.IsTerminal() {
			return ErrSessionClosed
		}
		if sess.state == SessionUploading || sess.state == SessionAllSucceeded {
			return ErrSessionBusy
		}
		sess.metadata = meta
		return nil
	})
}

// ReorderMedia 只在没有进行中或待重试的批次时允许
func (s *shareServiceImpl) ReorderMedia(_ context.Context, sessionID string, from, to int) (*SessionSnapshot, error) {
	return s.mutate(sessionID, func(sess *shareSession) error {
		if err := sequenceEditable(sess.state); err != nil {
			return err
		}
		items, err := ReorderItems(sess.items, from, to)
		if err != nil {
			return err
		}
		sess.items = items
		return nil
	})
}

func (s *shareServiceImpl) RemoveMedia(_ context.Context, sessionID string, mediaID string) (*SessionSnapshot, error) {
	return s.mutate(sessionID, func(sess *shareSession) error {
		if err := sequenceEditable(sess.state); err != nil {
			return err
		}
		items, err := RemoveItem(sess.items, mediaID)
		if err != nil {
			return err
		}
		sess.items = items
		return nil
	})
}

// Share 上传全部媒体；全部成功则组装并保存帖子，否则进入待重试状态
func (s *shareServiceImpl) Share(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	switch {
	case sess.state.IsTerminal():
		sess.mu.Unlock()
		return nil, ErrSessionClosed
	case sess.state == SessionUploading:
		sess.mu.Unlock()
		return nil, ErrSessionBusy
	case sess.state == SessionPartiallyFailed:
		sess.mu.Unlock()
		return nil, ErrRetryPending
	case sess.state == SessionAllSucceeded:
		// 上传已完成，只差落库
		sess.mu.Unlock()
		return s.finalize(ctx, sess)
	}

	if len(sess.items) == 0 {
		sess.mu.Unlock()
		s.notifier.Notify(ctx, model.Event{
			Type:      model.EventNoMediaSelected,
			SessionID: sessionID,
			Message:   "请至少选择一张图片或一个视频",
			CreatedAt: s.now(),
		})
		return nil, ErrNoMediaSelected
	}
	sess.mu.Unlock()

	if err = s.checkTransport(ctx, sessionID); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.state != SessionIdle {
		sess.mu.Unlock()
		return nil, ErrSessionBusy
	}
	items := cloneItems(sess.items)
	sess.state = SessionUploading
	sess.retrying = false
	sess.result = emptyBatchResult()
	sess.progress = NewBatchState(len(items)).Snapshot()
	sess.lastError = ""
	sess.touchLocked(s.now())
	sess.publishLocked()
	sess.mu.Unlock()

	log.InfoContext(ctx, "starting upload batch", "session_id", sessionID, "items", len(items))
	result := s.coordinator.RunAll(context.WithoutCancel(ctx), items, s.progressSink(sess))

	return s.settle(ctx, sess, result, len(items))
}

// Retry 用户确认后只重传失败项，结果按下标合并回原序列
func (s *shareServiceImpl) Retry(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	switch {
	case sess.state.IsTerminal():
		sess.mu.Unlock()
		return nil, ErrSessionClosed
	case sess.state == SessionUploading:
		sess.mu.Unlock()
		return nil, ErrSessionBusy
	case sess.state != SessionPartiallyFailed:
		sess.mu.Unlock()
		return nil, ErrNoPendingRetry
	}
	sess.mu.Unlock()

	if err = s.checkTransport(ctx, sessionID); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.state != SessionPartiallyFailed {
		sess.mu.Unlock()
		return nil, ErrSessionBusy
	}
	failed := append([]model.FailedUpload{}, sess.result.Failed...)
	total := len(sess.items)
	prior := sess.result
	sess.state = SessionUploading
	sess.retrying = true
	sess.progress = NewBatchState(len(failed)).Snapshot()
	sess.lastError = ""
	sess.touchLocked(s.now())
	sess.publishLocked()
	sess.mu.Unlock()

	log.InfoContext(ctx, "retrying failed uploads", "session_id", sessionID, "failed", len(failed))
	latest := s.retry.Retry(context.WithoutCancel(ctx), failed, total, s.progressSink(sess))

	return s.settle(ctx, sess, Merge(prior, latest), len(failed))
}

// Abandon 用户放弃重试或放弃草稿
func (s *shareServiceImpl) Abandon(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	snap, err := s.mutate(sessionID, func(sess *shareSession) error {
		if sess.state.IsTerminal() {
			return ErrSessionClosed
		}
		if sess.state == SessionUploading || sess.saving {
			return ErrSessionBusy
		}
		sess.state = SessionAbandoned
		return nil
	})
	if err == nil {
		log.InfoContext(ctx, "share draft abandoned", "session_id", sessionID)
	}
	return snap, err
}

func (s *shareServiceImpl) Subscribe(_ context.Context, sessionID string) (<-chan SessionSnapshot, func(), error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.subscribe()
	return ch, cancel, nil
}

// PruneSessions 清理超过 olderThan 未更新的会话，上传或保存中的会话保留
func (s *shareServiceImpl) PruneSessions(ctx context.Context, olderThan time.Duration) int {
	cutoff := s.now().Add(-olderThan)

	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		busy := sess.state == SessionUploading || sess.saving
		expired := !busy && sess.updatedAt.Before(cutoff)
		if expired {
			sess.closeSubscribersLocked()
		}
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			count++
		}
	}
	if count > 0 {
		log.InfoContext(ctx, "pruned share sessions", "count", count)
	}
	return count
}

// PendingRefs 未发布会话中已上传成功的远端引用，清理任务不能删除这些对象
func (s *shareServiceImpl) PendingRefs(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]string, 0)
	for _, sess := range s.sessions {
		sess.mu.Lock()
		if !sess.state.IsTerminal() {
			for _, ok := range sess.result.Succeeded {
				refs = append(refs, RemoteRef(ok.RemoteResult, ok.Index))
			}
		}
		sess.mu.Unlock()
	}
	return refs
}

// settle 批次落定后的状态转移；total 为本批次数量，用于提示文案
func (s *shareServiceImpl) settle(ctx context.Context, sess *shareSession, merged model.BatchResult, batchSize int) (*SessionSnapshot, error) {
	sess.mu.Lock()
	sess.result = merged
	sess.touchLocked(s.now())

	if len(merged.Failed) > 0 {
		sess.state = SessionPartiallyFailed
		sess.publishLocked()
		snap := sess.snapshotLocked()
		sess.mu.Unlock()

		s.notifier.Notify(ctx, model.Event{
			Type:        model.EventBatchPartiallyFailed,
			SessionID:   sess.id,
			FailedCount: len(merged.Failed),
			TotalCount:  batchSize,
			Message:     fmt.Sprintf("%d/%d 个媒体上传失败，是否重试？", len(merged.Failed), batchSize),
			CreatedAt:   s.now(),
		})
		return &snap, nil
	}

	sess.state = SessionAllSucceeded
	sess.publishLocked()
	sess.mu.Unlock()

	return s.finalize(ctx, sess)
}

// finalize 组装帖子并保存，保存只在成功后发一次成功通知
func (s *shareServiceImpl) finalize(ctx context.Context, sess *shareSession) (*SessionSnapshot, error) {
	sess.mu.Lock()
	if sess.saving {
		sess.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if sess.state != SessionAllSucceeded {
		sess.mu.Unlock()
		return nil, ErrSessionClosed
	}
	sess.saving = true
	if sess.post == nil {
		sess.post = s.assembler.Assemble(sess.items, sess.result.Succeeded, sess.metadata)
	}
	post := sess.post
	total := len(sess.items)
	sess.mu.Unlock()

	if s.saver != nil {
		if err := s.saver.SavePost(ctx, post); err != nil {
			log.ErrorContext(ctx, "failed to save post", "session_id", sess.id, "post_id", post.ID, "err", err)
			sess.mu.Lock()
			sess.saving = false
			sess.lastError = err.Error()
			sess.touchLocked(s.now())
			sess.publishLocked()
			sess.mu.Unlock()

			s.notifier.Notify(ctx, model.Event{
				Type:       model.EventBatchError,
				SessionID:  sess.id,
				TotalCount: total,
				Message:    "帖子保存失败",
				CreatedAt:  s.now(),
			})
			return nil, ErrPostSaveFailed
		}
	}

	s.releaseUploads(ctx, post)

	sess.mu.Lock()
	sess.saving = false
	sess.state = SessionPostCreated
	sess.lastError = ""
	sess.touchLocked(s.now())
	sess.publishLocked()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()

	log.InfoContext(ctx, "post created", "session_id", sess.id, "post_id", post.ID, "media", len(post.MediaRefs))
	s.notifier.Notify(ctx, model.Event{
		Type:       model.EventBatchSucceeded,
		SessionID:  sess.id,
		PostID:     post.ID,
		TotalCount: total,
		Message:    "帖子发布成功",
		CreatedAt:  s.now(),
	})
	return &snap, nil
}

// checkTransport 上传通道整体不可达时只发一条批次级错误
func (s *shareServiceImpl) checkTransport(ctx context.Context, sessionID string) error {
	checker, ok := s.uploader.(Checker)
	if !ok {
		return nil
	}
	if err := checker.Check(ctx); err != nil {
		log.ErrorContext(ctx, "upload transport unavailable", "session_id", sessionID, "err", err)
		s.notifier.Notify(ctx, model.Event{
			Type:      model.EventBatchError,
			SessionID: sessionID,
			Message:   "上传服务不可用，请稍后重试",
			CreatedAt: s.now(),
		})
		return ErrTransportUnavailable
	}
	return nil
}

func (s *shareServiceImpl) releaseUploads(ctx context.Context, post *model.Post) {
	releaser, ok := s.uploader.(UploadReleaser)
	if !ok {
		return
	}
	refs := make([]string, len(post.MediaRefs))
	for i, m := range post.MediaRefs {
		refs[i] = m.RemoteRef
	}
	go func(refs []string) {
		if err := releaser.Release(context.WithoutCancel(ctx), refs); err != nil {
			log.WarnContext(ctx, "failed to release temp uploads", "post_id", post.ID, "err", err)
		}
	}(refs)
}

func (s *shareServiceImpl) progressSink(sess *shareSession) ProgressFunc {
	return func(state model.UploadBatchState) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.progress = state
		sess.touchLocked(s.now())
		sess.publishLocked()
	}
}

func (s *shareServiceImpl) mutate(sessionID string, fn func(sess *shareSession) error) (*SessionSnapshot, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err = fn(sess); err != nil {
		return nil, err
	}
	sess.touchLocked(s.now())
	sess.publishLocked()
	snap := sess.snapshotLocked()
	return &snap, nil
}

func (s *shareServiceImpl) session(sessionID string) (*shareSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *shareServiceImpl) validateMetadata(meta model.PostMetadata) error {
	if s.maxCaption > 0 && len([]rune(meta.Caption)) > s.maxCaption {
		return ErrCaptionTooLong
	}
	return nil
}

func sequenceEditable(state SessionState) error {
	switch {
	case state.IsTerminal():
		return ErrSessionClosed
	case state != SessionIdle:
		return ErrSequenceFrozen
	}
	return nil
}
