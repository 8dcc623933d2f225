package service

import (
	"Shutter/internal/model"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Uploader 上传通道，把一个媒体的字节流送到远端并返回远端结果
type Uploader interface {
	Upload(ctx context.Context, blob io.Reader, meta model.UploadMeta) (map[string]any, error)
}

// Checker 上传通道可选实现，用于在批次开始前确认远端可达
type Checker interface {
	Check(ctx context.Context) error
}

// UploadReleaser 上传通道可选实现，帖子落库后释放临时上传记录
type UploadReleaser interface {
	Release(ctx context.Context, refs []string) error
}

// MediaUploadTask 上传单个媒体，任何失败都收敛到 UploadOutcome 中
type MediaUploadTask struct {
	uploader Uploader
}

func NewMediaUploadTask(uploader Uploader) *MediaUploadTask {
	return &MediaUploadTask{uploader: uploader}
}

// Upload 上传 item，index 必须在 [0,total) 内；不会修改 item
func (s *MediaUploadTask) Upload(ctx context.Context, item model.MediaItem, index, total int) (outcome model.UploadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "upload task panicked", "index", index, "panic", r)
			outcome = failedOutcome(index, fmt.Errorf("upload panicked: %v", r))
		}
	}()

	if index < 0 || index >= total {
		return failedOutcome(index, fmt.Errorf("index %d out of range [0,%d)", index, total))
	}

	path := LocalPath(item.LocalURI)
	file, err := os.Open(path)
	if err != nil {
		log.WarnContext(ctx, "media not readable", "index", index, "path", path, "err", err)
		return failedOutcome(index, fmt.Errorf("media not readable: %w", err))
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return failedOutcome(index, fmt.Errorf("media not readable: %w", err))
	}

	contentType, ext := detectContentType(path, item.Kind)
	meta := model.UploadMeta{
		Index:       index,
		Kind:        item.Kind,
		FileName:    fmt.Sprintf("media_%d%s", index, ext),
		ContentType: contentType,
		Size:        stat.Size(),
	}

	result, err := s.uploader.Upload(ctx, file, meta)
	if err != nil {
		log.WarnContext(ctx, "media upload failed", "index", index, "err", err)
		return failedOutcome(index, err)
	}
	if result == nil {
		result = map[string]any{}
	}

	log.InfoContext(ctx, "media upload success", "index", index, "kind", item.Kind)
	return model.UploadOutcome{
		ItemIndex:    index,
		Success:      true,
		RemoteResult: result,
	}
}

func failedOutcome(index int, err error) model.UploadOutcome {
	return model.UploadOutcome{
		ItemIndex:    index,
		Success:      false,
		ErrorMessage: err.Error(),
	}
}

// LocalPath 去掉 file:// 前缀
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func detectContentType(path string, kind model.MediaKind) (string, string) {
	if mt, err := mimetype.DetectFile(path); err == nil && strings.HasPrefix(mt.String(), string(kind)) {
		return mt.String(), mt.Extension()
	}
	if kind == model.MediaKindVideo {
		return "video/mp4", ".mp4"
	}
	return "image/jpeg", ".jpg"
}
