package processor

import (
	"errors"
	"fmt"
)

// Kind identifies the failure class of an aborted job. The orchestrator is
// the only place that assigns kinds; components below it report their own
// sentinel errors.
type Kind string

const (
	// KindInvalidRequest marks a trigger whose object name is absent, empty,
	// or unsafe. Never retried.
	KindInvalidRequest Kind = "invalid_request"
	// KindSourceMissing marks a trigger referencing a raw object that does
	// not exist. Never retried.
	KindSourceMissing Kind = "source_missing"
	// KindPermissionDenied marks a storage operation rejected by the
	// provider's access controls. Never retried.
	KindPermissionDenied Kind = "permission_denied"
	// KindTransientIO marks a network or storage hiccup that exhausted its
	// bounded retries.
	KindTransientIO Kind = "transient_io"
	// KindTranscodeFailed marks a decode or encode failure.
	KindTranscodeFailed Kind = "transcode_failed"
	// KindPublishFailed marks an upload or visibility change that failed
	// after retries.
	KindPublishFailed Kind = "publish_failed"
	// KindIO marks a local filesystem failure.
	KindIO Kind = "io_error"
)

// JobError is the terminal error of an aborted pipeline run, carrying the
// failure kind and the video it concerned.
type JobError struct {
	Kind    Kind
	VideoID string
	Err     error
}

func (e *JobError) Error() string {
	if e.VideoID == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: video %s: %v", e.Kind, e.VideoID, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain, or "" when the error
// did not come from the pipeline.
func KindOf(err error) Kind {
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr.Kind
	}
	return ""
}
