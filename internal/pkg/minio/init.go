package minio

import (
	"Shutter/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const initTimeout = 10 * time.Second

// publicReadPolicy 匿名只读，帖子中的媒体地址直接对外可见
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// MainBucket 媒体存储桶
	MainBucket string
)

// Init 连接媒体存储并确保存储桶存在
func Init() error {
	cfg := config.Cfg.MinIO

	client, err := newClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err = ensureBucket(ctx, client, cfg.MainBucket, cfg.PublicRead); err != nil {
		return err
	}

	Client = client
	MainBucket = cfg.MainBucket
	log.Info("minio connected", "endpoint", client.EndpointURL().Host, "bucket", MainBucket)
	return nil
}

// newClient 优先走内网地址，只配置了外网地址时强制 SSL
func newClient(cfg config.MinIOConfig) (*minio.Client, error) {
	endpoint, secure := cfg.InternalEndpoint, cfg.InternalUseSSL
	if endpoint == "" {
		endpoint, secure = cfg.ExternalEndpoint, true
	}
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string, publicRead bool) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		log.Info("minio bucket created", "bucket", bucket)
	}
	if publicRead {
		if err = client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
			return fmt.Errorf("failed to set bucket policy %s: %w", bucket, err)
		}
	}
	return nil
}
