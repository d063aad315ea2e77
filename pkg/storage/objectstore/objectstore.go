package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Config contains the information required to talk to an object store.
type Config struct {
	Provider        string
	Endpoint        string
	Region          string
	RawBucket       string
	ProcessedBucket string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	CredentialsFile string
	PublicBaseURL   string
}

// Sentinel errors reported by gateway implementations. Anything not wrapping
// one of these is treated as a transient storage/network failure.
var (
	ErrNotFound   = errors.New("object not found")
	ErrPermission = errors.New("permission denied")
)

// PublishIncompleteError reports an object that was uploaded but could not be
// made publicly readable. The object is left in place; callers should retry
// MakePublic rather than re-uploading.
type PublishIncompleteError struct {
	Name string
	Err  error
}

func (e *PublishIncompleteError) Error() string {
	return fmt.Sprintf("object %q uploaded but not published: %v", e.Name, e.Err)
}

func (e *PublishIncompleteError) Unwrap() error {
	return e.Err
}

// Client represents the capabilities the processing pipeline expects from an
// object store: a raw bucket to pull sources from and a processed bucket that
// published renditions are served out of.
type Client interface {
	// DownloadRaw fetches object name from the raw bucket into destPath.
	DownloadRaw(ctx context.Context, name, destPath string) error
	// UploadProcessed stores srcPath under name in the processed bucket and
	// makes it publicly readable. Returns *PublishIncompleteError when the
	// upload succeeded but the visibility change did not.
	UploadProcessed(ctx context.Context, name, srcPath string) error
	// MakePublic performs only the visibility change for an already-uploaded
	// processed object.
	MakePublic(ctx context.Context, name string) error
	// ProcessedURL returns the public URL a published object is served at.
	ProcessedURL(name string) string
	Close() error
}

// New creates an object store client based on the given configuration.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case "minio", "s3":
		return newMinioClient(cfg)
	case "gcs":
		return newGCSClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported object store provider: %s", cfg.Provider)
	}
}

func publicURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/" + name
}
