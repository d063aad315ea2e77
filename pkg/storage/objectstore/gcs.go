package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type gcsClient struct {
	client          *storage.Client
	rawBucket       string
	processedBucket string
	publicBaseURL   string
}

func newGCSClient(ctx context.Context, cfg Config) (Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	cl, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init gcs client: %w", err)
	}

	return &gcsClient{
		client:          cl,
		rawBucket:       cfg.RawBucket,
		processedBucket: cfg.ProcessedBucket,
		publicBaseURL:   cfg.PublicBaseURL,
	}, nil
}

func (g *gcsClient) DownloadRaw(ctx context.Context, name, destPath string) error {
	reader, err := g.client.Bucket(g.rawBucket).Object(name).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open object %s/%s: %w", g.rawBucket, name, classifyGCSError(err))
	}
	defer reader.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return fmt.Errorf("download %s/%s: %w", g.rawBucket, name, classifyGCSError(err))
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destPath, err)
	}
	return nil
}

func (g *gcsClient) UploadProcessed(ctx context.Context, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()

	writer := g.client.Bucket(g.processedBucket).Object(name).NewWriter(ctx)
	writer.ContentType = "video/mp4"

	if _, err := io.Copy(writer, src); err != nil {
		writer.Close() //nolint:errcheck
		return fmt.Errorf("upload %s/%s: %w", g.processedBucket, name, classifyGCSError(err))
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("upload %s/%s: %w", g.processedBucket, name, classifyGCSError(err))
	}

	if err := g.MakePublic(ctx, name); err != nil {
		return &PublishIncompleteError{Name: name, Err: err}
	}
	return nil
}

// MakePublic grants allUsers read access on the uploaded object.
func (g *gcsClient) MakePublic(ctx context.Context, name string) error {
	acl := g.client.Bucket(g.processedBucket).Object(name).ACL()
	if err := acl.Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return fmt.Errorf("set public acl on %s/%s: %w", g.processedBucket, name, classifyGCSError(err))
	}
	return nil
}

func (g *gcsClient) ProcessedURL(name string) string {
	return publicURL(g.publicBaseURL, name)
}

func (g *gcsClient) Close() error {
	return g.client.Close()
}

func classifyGCSError(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusUnauthorized) {
		return fmt.Errorf("%w: %v", ErrPermission, err)
	}
	return err
}
