package service

import (
	"Shutter/internal/model"
	"Shutter/internal/pkg/consts"
	"Shutter/internal/pkg/util"
	"context"
	"errors"
	"io"
	"io/fs"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaProber 读取视频信息
type MediaProber interface {
	Duration(ctx context.Context, path string) (float64, error)
	Dimensions(ctx context.Context, path string) (int, int, error)
}

// ImportFile 待导入的文件
type ImportFile struct {
	FileName string
	Reader   io.Reader
}

// MediaOptions 导入限制
type MediaOptions struct {
	StagingDir      string
	MaxCount        int
	MaxVideoSeconds int
	TargetWidth     int
	TargetQuality   int
}

type MediaService interface {
	Import(ctx context.Context, files []ImportFile) ([]model.MediaItem, error)
	CleanupStaging(ctx context.Context, olderThan time.Duration) (int, error)
	Discard(ctx context.Context, items []model.MediaItem)
}

type mediaServiceImpl struct {
	opts   MediaOptions
	prober MediaProber
	now    func() time.Time
}

func NewMediaService(opts MediaOptions, prober MediaProber) MediaService {
	return &mediaServiceImpl{
		opts:   opts,
		prober: prober,
		now:    time.Now,
	}
}

// Import 保存到暂存目录并补全宽高、时长；任一文件失败则整体回滚
func (s *mediaServiceImpl) Import(ctx context.Context, files []ImportFile) ([]model.MediaItem, error) {
	if s.opts.MaxCount > 0 && len(files) > s.opts.MaxCount {
		return nil, ErrTooManyMedia
	}

	items := make([]model.MediaItem, 0, len(files))
	for _, f := range files {
		item, err := s.importOne(ctx, f)
		if err != nil {
			s.Discard(ctx, items)
			return nil, err
		}
		items = append(items, *item)
	}

	log.InfoContext(ctx, "media imported", "count", len(items))
	return items, nil
}

func (s *mediaServiceImpl) importOne(ctx context.Context, f ImportFile) (*model.MediaItem, error) {
	dir := filepath.Join(s.opts.StagingDir, s.now().Format("2006/01/02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(f.FileName))
	path := filepath.Join(dir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(out, f.Reader)
	_ = out.Close()
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	kind, ok := detectKind(path, ext)
	if !ok {
		_ = os.Remove(path)
		return nil, ErrFileNotSupported
	}

	item := &model.MediaItem{
		ID:            uuid.NewString(),
		LocalURI:      "file://" + path,
		OriginalURI:   f.FileName,
		Kind:          kind,
		FileSizeBytes: &size,
	}

	switch kind {
	case model.MediaKindImage:
		err = s.prepareImage(ctx, path, item)
	case model.MediaKindVideo:
		err = s.prepareVideo(ctx, path, item)
	}
	if err != nil {
		_ = os.Remove(LocalPath(item.LocalURI))
		return nil, err
	}
	return item, nil
}

// prepareImage 超过目标宽度的图片等比缩放并转存为 JPEG
func (s *mediaServiceImpl) prepareImage(ctx context.Context, path string, item *model.MediaItem) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		log.WarnContext(ctx, "failed to decode image", "path", path, "err", err)
		return ErrFileNotSupported
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if s.opts.TargetWidth > 0 && width > s.opts.TargetWidth {
		resized := imaging.Resize(img, s.opts.TargetWidth, 0, imaging.Lanczos)
		target := strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
		quality := s.opts.TargetQuality
		if quality <= 0 {
			quality = 80
		}
		if err = imaging.Save(resized, target, imaging.JPEGQuality(quality)); err != nil {
			return err
		}
		if target != path {
			_ = os.Remove(path)
		}
		if stat, statErr := os.Stat(target); statErr == nil {
			item.FileSizeBytes = util.Ptr(stat.Size())
		}
		item.LocalURI = "file://" + target
		width, height = resized.Bounds().Dx(), resized.Bounds().Dy()
	}

	item.Width = util.Ptr(width)
	item.Height = util.Ptr(height)
	return nil
}

func (s *mediaServiceImpl) prepareVideo(ctx context.Context, path string, item *model.MediaItem) error {
	if s.prober == nil {
		return nil
	}

	duration, err := s.prober.Duration(ctx, path)
	if err != nil {
		log.WarnContext(ctx, "failed to get duration via ffprobe", "path", path, "err", err)
	} else {
		if s.opts.MaxVideoSeconds > 0 && duration > float64(s.opts.MaxVideoSeconds) {
			return ErrVideoTooLong
		}
		item.DurationSeconds = &duration
	}

	w, h, err := s.prober.Dimensions(ctx, path)
	if err != nil {
		log.WarnContext(ctx, "failed to get dimensions via ffprobe", "path", path, "err", err)
		return nil
	}
	item.Width = util.Ptr(w)
	item.Height = util.Ptr(h)
	return nil
}

// Discard 删除已导入但不再使用的暂存文件
func (s *mediaServiceImpl) Discard(ctx context.Context, items []model.MediaItem) {
	for _, item := range items {
		path := LocalPath(item.LocalURI)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.WarnContext(ctx, "failed to remove staged media", "path", path, "err", err)
		}
	}
}

// CleanupStaging 删除暂存目录中修改时间早于 olderThan 的文件
func (s *mediaServiceImpl) CleanupStaging(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	count := 0

	err := filepath.WalkDir(s.opts.StagingDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err = os.Remove(path); err != nil {
				log.WarnContext(ctx, "failed to remove staging file", "path", path, "err", err)
				return nil
			}
			count++
		}
		return nil
	})
	return count, err
}

// ReorderItems 把 from 位置的媒体移动到 to，返回新切片
func ReorderItems(items []model.MediaItem, from, to int) ([]model.MediaItem, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrParamInvalid
	}
	out := cloneItems(items)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.MediaItem{moved}, out[to:]...)...)
	return out, nil
}

// RemoveItem 按 ID 删除媒体
func RemoveItem(items []model.MediaItem, mediaID string) ([]model.MediaItem, error) {
	for i, item := range items {
		if item.ID == mediaID {
			out := make([]model.MediaItem, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), nil
		}
	}
	return nil, ErrMediaNotFound
}

func detectKind(path, ext string) (model.MediaKind, bool) {
	if mt, err := mimetype.DetectFile(path); err == nil {
		switch {
		case strings.HasPrefix(mt.String(), consts.MimePrefixImage):
			return model.MediaKindImage, true
		case strings.HasPrefix(mt.String(), consts.MimePrefixVideo):
			return model.MediaKindVideo, true
		}
	}
	kind, ok := consts.KindByExtension[ext]
	return model.MediaKind(kind), ok
}
