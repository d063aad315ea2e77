package objectstore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioClient struct {
	client          *minio.Client
	rawBucket       string
	processedBucket string
	publicBaseURL   string
}

func newMinioClient(cfg Config) (Client, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	return &minioClient{
		client:          cl,
		rawBucket:       cfg.RawBucket,
		processedBucket: cfg.ProcessedBucket,
		publicBaseURL:   cfg.PublicBaseURL,
	}, nil
}

func (m *minioClient) DownloadRaw(ctx context.Context, name, destPath string) error {
	err := m.client.FGetObject(ctx, m.rawBucket, name, destPath, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get object %s/%s: %w", m.rawBucket, name, classifyMinioError(err))
	}
	return nil
}

func (m *minioClient) UploadProcessed(ctx context.Context, name, srcPath string) error {
	_, err := m.client.FPutObject(ctx, m.processedBucket, name, srcPath, minio.PutObjectOptions{
		ContentType: "video/mp4",
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", m.processedBucket, name, classifyMinioError(err))
	}

	if err := m.MakePublic(ctx, name); err != nil {
		return &PublishIncompleteError{Name: name, Err: err}
	}
	return nil
}

// MakePublic applies a read-only download policy to the processed bucket.
// The policy is static, so reapplying it for every published object is
// an idempotent visibility step.
func (m *minioClient) MakePublic(ctx context.Context, name string) error {
	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%s/*"]
    }
  ]
}`, m.processedBucket)

	if err := m.client.SetBucketPolicy(ctx, m.processedBucket, policy); err != nil {
		return fmt.Errorf("set bucket policy on %s: %w", m.processedBucket, classifyMinioError(err))
	}
	return nil
}

func (m *minioClient) ProcessedURL(name string) string {
	return publicURL(m.publicBaseURL, name)
}

func (m *minioClient) Close() error {
	return nil
}

func classifyMinioError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrPermission, err)
	default:
		return err
	}
}
