package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures the full runtime configuration for the videoforge processor.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	Ledger   LedgerConfig
	Pipeline PipelineConfig
	Tracing  TracingConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"videoforge-processor"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Version     string `env:"APP_VERSION" envDefault:"0.1.0"`
	LogLevel    string `env:"APP_LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
}

type KafkaConfig struct {
	Brokers           []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	NotificationTopic string        `env:"KAFKA_NOTIFICATION_TOPIC" envDefault:"videoforge.uploads"`
	ProcessedTopic    string        `env:"KAFKA_PROCESSED_TOPIC" envDefault:"videoforge.processed"`
	GroupID           string        `env:"KAFKA_GROUP_ID" envDefault:"videoforge-processor"`
	Retries           int           `env:"KAFKA_RETRIES" envDefault:"3"`
	CompressionCodec  string        `env:"KAFKA_COMPRESSION_CODEC" envDefault:"snappy"`
	BatchSize         int           `env:"KAFKA_BATCH_SIZE" envDefault:"100"`
	BatchTimeout      time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"1s"`
	MinBytes          int           `env:"KAFKA_MIN_BYTES" envDefault:"1"`
	MaxBytes          int           `env:"KAFKA_MAX_BYTES" envDefault:"10485760"`
}

type StorageConfig struct {
	Provider        string `env:"STORAGE_PROVIDER" envDefault:"minio"`
	Endpoint        string `env:"STORAGE_ENDPOINT" envDefault:"localhost:9000"`
	Region          string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	RawBucket       string `env:"STORAGE_RAW_BUCKET" envDefault:"videoforge-raw"`
	ProcessedBucket string `env:"STORAGE_PROCESSED_BUCKET" envDefault:"videoforge-processed"`
	AccessKey       string `env:"STORAGE_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey       string `env:"STORAGE_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL          bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
	CredentialsFile string `env:"STORAGE_CREDENTIALS_FILE"`
	PublicBaseURL   string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"http://localhost:9000/videoforge-processed"`
}

type LedgerConfig struct {
	RedisAddr     string `env:"LEDGER_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"LEDGER_REDIS_PASSWORD"`
	RedisDB       int    `env:"LEDGER_REDIS_DB" envDefault:"0"`
	KeyPrefix     string `env:"LEDGER_KEY_PREFIX" envDefault:"videos"`
}

type PipelineConfig struct {
	RawDir           string        `env:"PIPELINE_RAW_DIR" envDefault:"./raw-videos"`
	ProcessedDir     string        `env:"PIPELINE_PROCESSED_DIR" envDefault:"./processed-videos"`
	TargetHeight     int           `env:"PIPELINE_TARGET_HEIGHT" envDefault:"360"`
	FFmpegPath       string        `env:"PIPELINE_FFMPEG_PATH" envDefault:"ffmpeg"`
	DownloadAttempts int           `env:"PIPELINE_DOWNLOAD_ATTEMPTS" envDefault:"3"`
	PublishAttempts  int           `env:"PIPELINE_PUBLISH_ATTEMPTS" envDefault:"3"`
	RetryBackoff     time.Duration `env:"PIPELINE_RETRY_BACKOFF" envDefault:"500ms"`
	ConvertTimeout   time.Duration `env:"PIPELINE_CONVERT_TIMEOUT" envDefault:"30m"`
}

type TracingConfig struct {
	Endpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	Insecure     bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	SampleRatio  float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1.0"`
	ResourceAttr string  `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:"service.namespace=videoforge"`
}

type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR" envDefault:":9102"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
