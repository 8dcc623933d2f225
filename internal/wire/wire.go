package wire

import (
	"Shutter/internal/api"
	"Shutter/internal/api/config"
	"Shutter/internal/api/handler"
	"Shutter/internal/job"
	"Shutter/internal/pkg/consts"
	"Shutter/internal/pkg/cron"
	"Shutter/internal/pkg/kafka"
	"Shutter/internal/pkg/minio"
	"Shutter/internal/pkg/mongo"
	"Shutter/internal/pkg/transport"
	"Shutter/internal/pkg/util"
	"Shutter/internal/repository"
	"Shutter/internal/service"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	CronMgr       *cron.Manager
	KafkaManager  *kafka.ConsumerManager
	EventNotifier *kafka.EventNotifier
}

// Close 释放生产者等长连接
func (a *ApplicationContainer) Close() error {
	if a.EventNotifier != nil {
		return a.EventNotifier.Close()
	}
	return nil
}

// BuildApplication mongoDB 为空时不启用通知箱；未配置 kafka 时事件直接写入通知箱
func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	app := &ApplicationContainer{DB: db}

	uploader, err := NewUploader(cfg.Upload)
	if err != nil {
		return nil, err
	}

	postRepo := repository.NewPostRepository(db)

	var eventBoxRepo mongo.EventBoxRepo
	if mongoDB != nil {
		eventBoxRepo = mongo.NewEventBoxRepo(mongoDB)
	}

	notifiers := service.MultiNotifier{service.LogNotifier{}}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewEventProducer(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		app.EventNotifier = kafka.NewEventNotifier(producer, cfg.Kafka.EventTopic)
		notifiers = append(notifiers, app.EventNotifier)

		if eventBoxRepo != nil {
			app.KafkaManager, err = kafka.NewConsumerManager(cfg, eventBoxRepo)
			if err != nil {
				return nil, err
			}
		}
	} else if eventBoxRepo != nil {
		notifiers = append(notifiers, mongo.NewInboxNotifier(eventBoxRepo))
	}

	mediaService := service.NewMediaService(service.MediaOptions{
		StagingDir:      cfg.Media.StagingDir,
		MaxCount:        cfg.Media.MaxCount,
		MaxVideoSeconds: cfg.Media.MaxVideoSeconds,
		TargetWidth:     cfg.Media.TargetWidth,
		TargetQuality:   cfg.Media.TargetQuality,
	}, util.NewFFprobe(cfg.LibPath.FFprobe))

	shareService := service.NewShareService(service.ShareDeps{
		Uploader:         uploader,
		Saver:            postRepo,
		Notifier:         notifiers,
		MaxCaptionLength: cfg.Media.MaxCaptionLength,
	})

	var resolveURL func(string) string
	var tempStore job.TempMediaStore
	if cfg.Upload.Transport == consts.TransportMinIO {
		resolveURL = minio.GetPublicURL
		tempStore = minio.NewTempStore()
	}
	postService := service.NewPostService(postRepo, resolveURL)
	eventBoxService := service.NewEventBoxService(eventBoxRepo)

	handlers := &api.HandlersGroup{
		DraftHandler:    handler.NewDraftHandler(mediaService, shareService),
		ProgressHandler: handler.NewProgressHandler(shareService),
		EventBoxHandler: handler.NewEventBoxHandler(eventBoxService),
		PostHandler:     handler.NewPostHandler(postService),
	}
	app.Router = api.SetupRouter(handlers)

	cleanupJob := job.NewMediaCleanupJob(tempStore, postRepo, mediaService, shareService, job.MediaCleanupOptions{
		TempObjectTTL: time.Duration(cfg.Cleanup.TempObjectHours) * time.Hour,
		StagingTTL:    time.Duration(cfg.Cleanup.StagingRetention) * 24 * time.Hour,
		SessionTTL:    time.Duration(cfg.Cleanup.SessionIdleHours) * time.Hour,
	})
	app.CronMgr = cron.NewCronManager(cfg.Cleanup.Spec, cleanupJob)

	return app, nil
}

// NewUploader 按配置选择上传通道
func NewUploader(cfg config.UploadConfig) (service.Uploader, error) {
	switch cfg.Transport {
	case consts.TransportMinIO:
		return minio.NewUploader(), nil
	case consts.TransportHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("upload.endpoint is required for http transport")
		}
		return transport.NewHTTP(cfg.Endpoint, time.Duration(cfg.TimeoutSecond)*time.Second), nil
	case consts.TransportSimulated, "":
		return transport.NewSimulated(
			time.Duration(cfg.MinDelayMs)*time.Millisecond,
			time.Duration(cfg.MaxDelayMs)*time.Millisecond,
			cfg.FailureRate,
		), nil
	default:
		return nil, fmt.Errorf("unsupported upload transport: %s", cfg.Transport)
	}
}
