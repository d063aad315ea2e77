package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Name != "videoforge-processor" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Pipeline.TargetHeight != 360 {
		t.Errorf("Pipeline.TargetHeight = %d, want 360", cfg.Pipeline.TargetHeight)
	}
	if cfg.Pipeline.DownloadAttempts != 3 {
		t.Errorf("Pipeline.DownloadAttempts = %d, want 3", cfg.Pipeline.DownloadAttempts)
	}
	if cfg.Pipeline.RetryBackoff != 500*time.Millisecond {
		t.Errorf("Pipeline.RetryBackoff = %v", cfg.Pipeline.RetryBackoff)
	}
	if cfg.Storage.RawBucket != "videoforge-raw" {
		t.Errorf("Storage.RawBucket = %q", cfg.Storage.RawBucket)
	}
	if cfg.Storage.ProcessedBucket != "videoforge-processed" {
		t.Errorf("Storage.ProcessedBucket = %q", cfg.Storage.ProcessedBucket)
	}
	if cfg.Ledger.KeyPrefix != "videos" {
		t.Errorf("Ledger.KeyPrefix = %q", cfg.Ledger.KeyPrefix)
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "gcs")
	t.Setenv("PIPELINE_TARGET_HEIGHT", "720")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("PIPELINE_RETRY_BACKOFF", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.Provider != "gcs" {
		t.Errorf("Storage.Provider = %q, want gcs", cfg.Storage.Provider)
	}
	if cfg.Pipeline.TargetHeight != 720 {
		t.Errorf("Pipeline.TargetHeight = %d, want 720", cfg.Pipeline.TargetHeight)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka.Brokers = %v, want two brokers", cfg.Kafka.Brokers)
	}
	if cfg.Pipeline.RetryBackoff != 2*time.Second {
		t.Errorf("Pipeline.RetryBackoff = %v, want 2s", cfg.Pipeline.RetryBackoff)
	}
}
