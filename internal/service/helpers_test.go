package service

import (
	"Shutter/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeUploader 按下标与尝试次数决定成败
type fakeUploader struct {
	mu       sync.Mutex
	attempts map[int]int
	fail     func(index, attempt int) error
	panicAt  map[int]bool
}

func newFakeUploader(fail func(index, attempt int) error) *fakeUploader {
	return &fakeUploader{attempts: make(map[int]int), fail: fail, panicAt: map[int]bool{}}
}

func (f *fakeUploader) Upload(_ context.Context, blob io.Reader, meta model.UploadMeta) (map[string]any, error) {
	if _, err := io.Copy(io.Discard, blob); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.attempts[meta.Index]++
	attempt := f.attempts[meta.Index]
	shouldPanic := f.panicAt[meta.Index]
	f.mu.Unlock()

	if shouldPanic {
		panic("boom")
	}
	if f.fail != nil {
		if err := f.fail(meta.Index, attempt); err != nil {
			return nil, err
		}
	}
	return map[string]any{"ref": fmt.Sprintf("remote_%d", meta.Index)}, nil
}

func (f *fakeUploader) attemptsFor(index int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[index]
}

// checkingUploader 额外实现 Checker 与 UploadReleaser
type checkingUploader struct {
	*fakeUploader
	checkErr error

	mu       sync.Mutex
	released []string
}

func (c *checkingUploader) Check(context.Context) error {
	return c.checkErr
}

func (c *checkingUploader) Release(_ context.Context, refs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = append(c.released, refs...)
	return nil
}

func (c *checkingUploader) releasedRefs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.released...)
}

type fakeSaver struct {
	mu    sync.Mutex
	posts []*model.Post
	errs  []error
}

func (f *fakeSaver) SavePost(_ context.Context, post *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	f.posts = append(f.posts, post)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) all() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event{}, r.events...)
}

func (r *recordingNotifier) ofType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range r.all() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

var errUploadRejected = errors.New("upload rejected")

// failIndexOnce 指定下标第一次失败
func failIndexOnce(indexes ...int) func(int, int) error {
	set := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		set[i] = true
	}
	return func(index, attempt int) error {
		if set[index] && attempt == 1 {
			return errUploadRejected
		}
		return nil
	}
}

func alwaysFail(int, int) error { return errUploadRejected }

// writeMediaItems 在临时目录写入 n 个媒体文件
func writeMediaItems(t *testing.T, n int) []model.MediaItem {
	t.Helper()
	dir := t.TempDir()
	items := make([]model.MediaItem, n)
	for i := range items {
		path := filepath.Join(dir, fmt.Sprintf("item_%d.jpg", i))
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("media-%d", i)), 0o644))
		items[i] = model.MediaItem{
			ID:       fmt.Sprintf("id-%d", i),
			LocalURI: "file://" + path,
			Kind:     model.MediaKindImage,
		}
	}
	return items
}
