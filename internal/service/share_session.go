package service

import (
	"Shutter/internal/model"
	"sync"
	"time"
)

// SessionState 分享流程状态
type SessionState string

const (
	SessionIdle            SessionState = "idle"
	SessionUploading       SessionState = "uploading"
	SessionAllSucceeded    SessionState = "all_succeeded"
	SessionPartiallyFailed SessionState = "partially_failed"
	SessionPostCreated     SessionState = "post_created"
	SessionAbandoned       SessionState = "abandoned"
)

// IsTerminal PostCreated 与 Abandoned 之后不再接受操作
func (s SessionState) IsTerminal() bool {
	return s == SessionPostCreated || s == SessionAbandoned
}

// SessionSnapshot 对外暴露的会话副本
type SessionSnapshot struct {
	ID        string
	State     SessionState
	Items     []model.MediaItem
	Metadata  model.PostMetadata
	Result    model.BatchResult
	Progress  model.UploadBatchState
	Retrying  bool
	Post      *model.Post
	LastError string
	UpdatedAt time.Time
}

// shareSession 一次发帖流程，从草稿开始到发布或放弃结束
type shareSession struct {
	mu          sync.Mutex
	id          string
	state       SessionState
	items       []model.MediaItem
	metadata    model.PostMetadata
	result      model.BatchResult
	progress    model.UploadBatchState
	retrying    bool
	post        *model.Post
	saving      bool
	lastError   string
	updatedAt   time.Time
	subscribers map[int]chan SessionSnapshot
	nextSubID   int
}

func newShareSession(id string, items []model.MediaItem, meta model.PostMetadata, now time.Time) *shareSession {
	return &shareSession{
		id:          id,
		state:       SessionIdle,
		items:       cloneItems(items),
		metadata:    meta,
		result:      emptyBatchResult(),
		updatedAt:   now,
		subscribers: make(map[int]chan SessionSnapshot),
	}
}

// snapshotLocked 调用方需持有 mu
func (s *shareSession) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{
		ID:        s.id,
		State:     s.state,
		Items:     cloneItems(s.items),
		Metadata:  s.metadata,
		Result:    s.result,
		Progress:  s.progress,
		Retrying:  s.retrying,
		Post:      s.post,
		LastError: s.lastError,
		UpdatedAt: s.updatedAt,
	}
	snap.Result.Succeeded = append([]model.SucceededUpload{}, s.result.Succeeded...)
	snap.Result.Failed = append([]model.FailedUpload{}, s.result.Failed...)
	return snap
}

func (s *shareSession) touchLocked(now time.Time) {
	s.updatedAt = now
}

// publishLocked 非阻塞推送，订阅方处理不过来时丢弃中间状态；
// 终态快照挤掉一个旧快照后一定送达
func (s *shareSession) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		deliver(ch, snap)
	}
}

func deliver(ch chan SessionSnapshot, snap SessionSnapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	if !snap.State.IsTerminal() {
		return
	}
	// 只有持锁的发布方写入，腾出一格后发送不会阻塞
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (s *shareSession) subscribe() (<-chan SessionSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan SessionSnapshot, 32)
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- s.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(ch)
			}
		})
	}
}

func cloneItems(items []model.MediaItem) []model.MediaItem {
	out := make([]model.MediaItem, len(items))
	copy(out, items)
	return out
}

// closeSubscribersLocked 会话被清理时关闭所有订阅
func (s *shareSession) closeSubscribersLocked() {
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
