package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.SetEnvPrefix("SHUTTER")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "shutter.db")
	viper.SetDefault("lib_path.ffprobe", "ffprobe")
	viper.SetDefault("media.staging_dir", "./data/media")
	viper.SetDefault("media.max_count", 10)
	viper.SetDefault("media.max_video_seconds", 15)
	viper.SetDefault("media.target_width", 1080)
	viper.SetDefault("media.target_quality", 80)
	viper.SetDefault("media.max_caption_length", 2200)
	viper.SetDefault("upload.transport", "simulated")
	viper.SetDefault("upload.timeout_second", 60)
	viper.SetDefault("upload.min_delay_ms", 200)
	viper.SetDefault("upload.max_delay_ms", 1500)
	viper.SetDefault("cleanup.spec", "0 0 3 * * *")
	viper.SetDefault("cleanup.temp_object_hours", 24)
	viper.SetDefault("cleanup.staging_retention_days", 30)
	viper.SetDefault("cleanup.session_idle_hours", 24)
	viper.SetDefault("kafka.event_topic", "shutter.share.events")
	viper.SetDefault("kafka.consumer.group_id", "shutter-event-box")
	viper.SetDefault("kafka.consumer.session_timeout", 30)
	viper.SetDefault("kafka.consumer.heartbeat_interval", 3)
	viper.SetDefault("kafka.consumer.rebalance_timeout", 60)
	viper.SetDefault("kafka.consumer.max_processing_time", 10)
}
