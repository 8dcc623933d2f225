package minio

import (
	"Shutter/internal/api/dto"
	"Shutter/internal/model"
	"Shutter/internal/pkg/redis"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader 把媒体写入主存储桶，并在 redis 中登记为临时对象，帖子落库后再释放
type Uploader struct{}

func NewUploader() *Uploader {
	return &Uploader{}
}

func (u *Uploader) Upload(ctx context.Context, blob io.Reader, meta model.UploadMeta) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(meta.FileName))
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	info, err := UploadFile(ctx, objectName, blob, meta.Size, meta.ContentType)
	if err != nil {
		return nil, err
	}

	err = redis.RecordTempMedia(ctx, info.Key, dto.MediaTempMetadata{
		MimeType:  meta.ContentType,
		Kind:      string(meta.Kind),
		Size:      info.Size,
		Bucket:    info.Bucket,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		// 记录失败只影响后续清理，不影响本次上传
		log.WarnContext(ctx, "failed to record temp media", "key", info.Key, "err", err)
	}

	return map[string]any{
		"ref":    info.Key,
		"url":    GetPublicURL(info.Key),
		"bucket": info.Bucket,
		"etag":   info.ETag,
		"size":   info.Size,
	}, nil
}

// Check 上传前确认存储桶可达
func (u *Uploader) Check(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}
	ok, err := Client.BucketExists(ctx, MainBucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s not found", MainBucket)
	}
	return nil
}

// Release 对象已挂到帖子上，不再需要清理
func (u *Uploader) Release(ctx context.Context, refs []string) error {
	return redis.ReleaseTempMedia(ctx, refs...)
}

// TempStore 清理任务使用的临时对象登记表
type TempStore struct{}

func NewTempStore() *TempStore {
	return &TempStore{}
}

func (t *TempStore) List(ctx context.Context) (map[string]dto.MediaTempMetadata, error) {
	return redis.ListTempMedia(ctx)
}

func (t *TempStore) Release(ctx context.Context, keys []string) error {
	return redis.ReleaseTempMedia(ctx, keys...)
}

func (t *TempStore) Delete(ctx context.Context, key string) error {
	return DeleteFile(ctx, key)
}
