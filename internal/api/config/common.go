package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	LibPath  LibPathConfig  `mapstructure:"lib_path"`
	Media    MediaConfig    `mapstructure:"media"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql | sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	PublicRead       bool   `mapstructure:"public_read"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Brokers    []string       `mapstructure:"brokers"`
	Sasl       SaslConfig     `mapstructure:"sasl"`
	EventTopic string         `mapstructure:"event_topic"`
	Consumer   ConsumerConfig `mapstructure:"consumer"`
}

type ConsumerConfig struct {
	GroupID           string `mapstructure:"group_id"`
	SessionTimeout    int    `mapstructure:"session_timeout"`
	HeartbeatInterval int    `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int    `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int    `mapstructure:"max_processing_time"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// LibPathConfig 库路径
type LibPathConfig struct {
	FFprobe string `mapstructure:"ffprobe"`
}

// MediaConfig 媒体导入限制
type MediaConfig struct {
	StagingDir       string `mapstructure:"staging_dir"`
	MaxCount         int    `mapstructure:"max_count"`
	MaxVideoSeconds  int    `mapstructure:"max_video_seconds"`
	TargetWidth      int    `mapstructure:"target_width"`
	TargetQuality    int    `mapstructure:"target_quality"`
	MaxCaptionLength int    `mapstructure:"max_caption_length"`
}

// UploadConfig 上传通道
type UploadConfig struct {
	Transport     string  `mapstructure:"transport"` // minio | http | simulated
	Endpoint      string  `mapstructure:"endpoint"`
	TimeoutSecond int     `mapstructure:"timeout_second"`
	MinDelayMs    int     `mapstructure:"min_delay_ms"`
	MaxDelayMs    int     `mapstructure:"max_delay_ms"`
	FailureRate   float64 `mapstructure:"failure_rate"`
}

// CleanupConfig 清理任务
type CleanupConfig struct {
	Spec             string `mapstructure:"spec"`
	TempObjectHours  int    `mapstructure:"temp_object_hours"`
	StagingRetention int    `mapstructure:"staging_retention_days"`
	SessionIdleHours int    `mapstructure:"session_idle_hours"`
}
