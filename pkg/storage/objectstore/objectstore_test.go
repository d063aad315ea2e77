package objectstore

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		name string
		want string
	}{
		{"http://cdn.example.com", "processed-abc.mp4", "http://cdn.example.com/processed-abc.mp4"},
		{"http://cdn.example.com/", "processed-abc.mp4", "http://cdn.example.com/processed-abc.mp4"},
	}
	for _, tt := range tests {
		if got := publicURL(tt.base, tt.name); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestClassifyMinioError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "missing object",
			err:  minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404},
			want: ErrNotFound,
		},
		{
			name: "missing bucket",
			err:  minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404},
			want: ErrNotFound,
		},
		{
			name: "access denied",
			err:  minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403},
			want: ErrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyMinioError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyMinioError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	t.Run("network errors stay retryable", func(t *testing.T) {
		err := errors.New("connection reset")
		got := classifyMinioError(err)
		if errors.Is(got, ErrNotFound) || errors.Is(got, ErrPermission) {
			t.Errorf("transient error misclassified: %v", got)
		}
	})
}

func TestPublishIncompleteErrorUnwraps(t *testing.T) {
	cause := errors.New("acl update failed")
	err := &PublishIncompleteError{Name: "processed-abc.mp4", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("PublishIncompleteError does not unwrap to its cause")
	}

	var incomplete *PublishIncompleteError
	if !errors.As(error(err), &incomplete) {
		t.Error("errors.As failed to match *PublishIncompleteError")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(t.Context(), Config{Provider: "tape-archive"})
	if err == nil {
		t.Fatal("New accepted an unknown provider")
	}
}
