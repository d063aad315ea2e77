package processor

import (
	"fmt"
	"path/filepath"
	"strings"
)

const processedPrefix = "processed-"

// JobRequest is a validated trigger. All names are derived deterministically
// from the raw object name, so two jobs for different videos can never
// collide in the staging directories.
type JobRequest struct {
	// VideoID is the object name without its extension, e.g.
	// "uid123-1700000000" for "uid123-1700000000.mp4".
	VideoID string
	// UID is the uploader identifier embedded in the video ID.
	UID string
	// RawName is the object name in the raw bucket and raw staging dir.
	RawName string
	// ProcessedName is the derived name in the processed bucket and staging
	// dir.
	ProcessedName string
}

// ParseRequest validates a raw object name and derives the job's identifiers.
// Names carrying path separators or parent references are rejected before any
// filesystem path is built from them.
func ParseRequest(objectName string) (JobRequest, error) {
	name := strings.TrimSpace(objectName)
	if name == "" {
		return JobRequest{}, fmt.Errorf("object name is empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return JobRequest{}, fmt.Errorf("object name %q is not a plain file name", name)
	}
	if name != filepath.Base(name) {
		return JobRequest{}, fmt.Errorf("object name %q resolves outside the staging directory", name)
	}

	ext := filepath.Ext(name)
	videoID := strings.TrimSuffix(name, ext)
	if ext == "" || videoID == "" {
		return JobRequest{}, fmt.Errorf("object name %q has no <id>.<extension> form", name)
	}

	uid := videoID
	if i := strings.Index(videoID, "-"); i > 0 {
		uid = videoID[:i]
	}

	return JobRequest{
		VideoID:       videoID,
		UID:           uid,
		RawName:       name,
		ProcessedName: processedPrefix + name,
	}, nil
}
