package processor

import "time"

// UploadNotification is the storage-upload event that triggers a job.
type UploadNotification struct {
	Name   string `json:"name"`
	Bucket string `json:"bucket,omitempty"`
}

// VideoProcessedEvent is emitted after a rendition is published and recorded.
type VideoProcessedEvent struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	Filename    string    `json:"filename"`
	URL         string    `json:"url"`
	ProcessedAt time.Time `json:"processed_at"`
}
