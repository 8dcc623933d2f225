package minio

import (
	"Shutter/internal/api/config"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	if Client == nil {
		return minio.UploadInfo{}, fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, MainBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload file: %w", err)
	}
	return uploadInfo, nil
}

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, MainBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetPublicURL 获取文件的公共访问URL，已是完整地址的直接返回
func GetPublicURL(objectName string) string {
	if objectName == "" || strings.Contains(objectName, "://") {
		return objectName
	}
	endpoint := config.Cfg.MinIO.ExternalEndpoint
	if endpoint == "" {
		endpoint = config.Cfg.MinIO.InternalEndpoint
	}
	return fmt.Sprintf("https://%s/%s/%s", endpoint, MainBucket, objectName)
}
