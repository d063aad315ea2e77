// Package ledger persists per-video processing status as a partial document
// keyed by video ID. Writes are field-wise merges, never destructive
// overwrites, so collaborators owning other fields (title, description) are
// not disturbed by pipeline status updates.
package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Lifecycle status values recorded by the pipeline.
const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
)

// Entry is the stored per-video record. The zero value of a field means the
// field is absent; Merge only writes fields that are set.
type Entry struct {
	Status      string
	Title       string
	Description string
	Filename    string
	UID         string
}

// IsNew reports whether the entry has no status recorded yet. It is the
// pipeline's idempotency gate: any status at all means a job already picked
// this video up.
func (e Entry) IsNew() bool {
	return e.Status == ""
}

// Fields returns only the set fields, keyed the way they are stored.
func (e Entry) Fields() map[string]string {
	fields := map[string]string{}
	if e.Status != "" {
		fields["status"] = e.Status
	}
	if e.Title != "" {
		fields["title"] = e.Title
	}
	if e.Description != "" {
		fields["description"] = e.Description
	}
	if e.Filename != "" {
		fields["filename"] = e.Filename
	}
	if e.UID != "" {
		fields["uid"] = e.UID
	}
	return fields
}

func entryFromFields(fields map[string]string) Entry {
	return Entry{
		Status:      fields["status"],
		Title:       fields["title"],
		Description: fields["description"],
		Filename:    fields["filename"],
		UID:         fields["uid"],
	}
}

// Store is the ledger contract the pipeline depends on.
type Store interface {
	// Get returns the stored record, or a zero Entry if none exists.
	Get(ctx context.Context, videoID string) (Entry, error)
	// Merge upserts the set fields of entry without disturbing other fields,
	// creating the record if absent.
	Merge(ctx context.Context, videoID string, entry Entry) error
	// IsNew reports whether no status has been recorded for the video.
	IsNew(ctx context.Context, videoID string) (bool, error)
	Close() error
}

// RedisStore keeps one hash per video; HSET gives the field-wise merge the
// contract requires.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func (s *RedisStore) key(videoID string) string {
	return s.keyPrefix + ":" + videoID
}

func (s *RedisStore) Get(ctx context.Context, videoID string) (Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key(videoID)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("get ledger entry %s: %w", videoID, err)
	}
	return entryFromFields(fields), nil
}

func (s *RedisStore) Merge(ctx context.Context, videoID string, entry Entry) error {
	fields := entry.Fields()
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HSet(ctx, s.key(videoID), fields).Err(); err != nil {
		return fmt.Errorf("merge ledger entry %s: %w", videoID, err)
	}
	return nil
}

func (s *RedisStore) IsNew(ctx context.Context, videoID string) (bool, error) {
	entry, err := s.Get(ctx, videoID)
	if err != nil {
		return false, err
	}
	return entry.IsNew(), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
