// Package processor implements the video transcoding job pipeline: fetch the
// raw source, convert it locally, publish the rendition, record status, and
// clean up, correctly under partial failure and duplicate triggers.
package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/videoforge/internal/ledger"
	"github.com/your-org/videoforge/internal/metrics"
	"github.com/your-org/videoforge/internal/staging"
	"github.com/your-org/videoforge/pkg/storage/objectstore"
)

// Converter turns a staged raw file into a staged processed file. It reports
// exactly one outcome per call and leaves no usable partial output on failure.
type Converter interface {
	Convert(ctx context.Context, rawPath, processedPath string) error
}

// EventPublisher emits pipeline events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key, value []byte, headers map[string]string) error
}

// Service orchestrates one transcoding job end to end. It holds no per-job
// state, so a single Service handles any number of concurrent jobs.
type Service struct {
	store            objectstore.Client
	ledger           ledger.Store
	converter        Converter
	staging          *staging.Store
	producer         EventPublisher
	logger           *zap.Logger
	tracer           trace.Tracer
	downloadAttempts int
	publishAttempts  int
	retryBackoff     time.Duration
}

type Params struct {
	Store     objectstore.Client
	Ledger    ledger.Store
	Converter Converter
	Staging   *staging.Store
	// Producer may be nil; processed events are then not emitted.
	Producer         EventPublisher
	Logger           *zap.Logger
	DownloadAttempts int
	PublishAttempts  int
	RetryBackoff     time.Duration
}

// NewService constructs the pipeline orchestrator.
func NewService(p Params) *Service {
	if p.DownloadAttempts <= 0 {
		p.DownloadAttempts = 3
	}
	if p.PublishAttempts <= 0 {
		p.PublishAttempts = 3
	}
	if p.RetryBackoff <= 0 {
		p.RetryBackoff = 500 * time.Millisecond
	}

	return &Service{
		store:            p.Store,
		ledger:           p.Ledger,
		converter:        p.Converter,
		staging:          p.Staging,
		producer:         p.Producer,
		logger:           p.Logger,
		tracer:           otel.Tracer("videoforge/processor"),
		downloadAttempts: p.DownloadAttempts,
		publishAttempts:  p.PublishAttempts,
		retryBackoff:     p.RetryBackoff,
	}
}

// JobResult reports the terminal outcome of a pipeline run.
type JobResult struct {
	JobID           string        `json:"job_id"`
	VideoID         string        `json:"video_id"`
	ProcessedObject string        `json:"processed_object,omitempty"`
	URL             string        `json:"url,omitempty"`
	Skipped         bool          `json:"skipped"`
	Duration        time.Duration `json:"-"`
}

// ProcessVideo runs the full job for one raw object name. Stages run strictly
// in sequence; on any abort the staged files are cleaned up best-effort and a
// *JobError carrying the failure kind is returned. A video whose ledger
// already shows a status is skipped without touching storage.
func (s *Service) ProcessVideo(ctx context.Context, objectName string) (*JobResult, error) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "pipeline.process",
		trace.WithAttributes(attribute.String("object.name", objectName)))
	defer span.End()
	metrics.JobStarted()

	req, err := ParseRequest(objectName)
	if err != nil {
		metrics.JobFailed(string(KindInvalidRequest))
		return nil, &JobError{Kind: KindInvalidRequest, Err: err}
	}

	jobID := uuid.NewString()
	log := s.logger.With(
		zap.String("job_id", jobID),
		zap.String("video_id", req.VideoID),
		zap.String("object", req.RawName),
	)
	span.SetAttributes(attribute.String("video.id", req.VideoID))

	isNew, err := s.ledger.IsNew(ctx, req.VideoID)
	if err != nil {
		return s.abort(log, req, KindTransientIO, fmt.Errorf("idempotency check: %w", err))
	}
	if !isNew {
		log.Info("video already has a status, skipping")
		span.AddEvent("skipped")
		metrics.JobSkipped()
		return &JobResult{JobID: jobID, VideoID: req.VideoID, Skipped: true}, nil
	}

	span.AddEvent("downloading")
	rawPath := s.staging.RawPath(req.RawName)
	if err := s.downloadWithRetry(ctx, req.RawName, rawPath); err != nil {
		return s.abort(log, req, downloadKind(err), fmt.Errorf("download raw: %w", err))
	}
	log.Info("raw video downloaded", zap.String("path", rawPath))

	// Record intent before converting so a crash mid-job is observable.
	processing := ledger.Entry{Status: ledger.StatusProcessing, UID: req.UID}
	if err := s.ledger.Merge(ctx, req.VideoID, processing); err != nil {
		return s.abort(log, req, KindTransientIO, fmt.Errorf("mark processing: %w", err))
	}

	span.AddEvent("converting")
	processedPath := s.staging.ProcessedPath(req.ProcessedName)
	if err := s.converter.Convert(ctx, rawPath, processedPath); err != nil {
		if ctx.Err() != nil {
			return s.abort(log, req, KindIO, ctx.Err())
		}
		return s.abort(log, req, KindTranscodeFailed, fmt.Errorf("convert: %w", err))
	}
	log.Info("video converted", zap.String("path", processedPath))

	span.AddEvent("uploading")
	if err := s.uploadAndPublish(ctx, req.ProcessedName, processedPath); err != nil {
		return s.abort(log, req, KindPublishFailed, fmt.Errorf("publish processed: %w", err))
	}

	// Ordering invariant: the ledger may only show processed once the object
	// is confirmed public.
	span.AddEvent("recording")
	processed := ledger.Entry{Status: ledger.StatusProcessed, Filename: req.ProcessedName}
	if err := s.ledger.Merge(ctx, req.VideoID, processed); err != nil {
		return s.abort(log, req, KindTransientIO, fmt.Errorf("mark processed: %w", err))
	}

	s.emitProcessed(ctx, log, jobID, req)

	span.AddEvent("cleaning")
	s.cleanup(log, req)

	duration := time.Since(start)
	metrics.JobCompleted(duration)
	log.Info("job done", zap.Duration("duration", duration))

	return &JobResult{
		JobID:           jobID,
		VideoID:         req.VideoID,
		ProcessedObject: req.ProcessedName,
		URL:             s.store.ProcessedURL(req.ProcessedName),
		Duration:        duration,
	}, nil
}

// downloadWithRetry retries transient download failures with bounded constant
// backoff. Missing objects and access rejections are permanent.
func (s *Service) downloadWithRetry(ctx context.Context, name, destPath string) error {
	operation := func() (struct{}, error) {
		err := s.store.DownloadRaw(ctx, name, destPath)
		if err != nil {
			if errors.Is(err, objectstore.ErrNotFound) || errors.Is(err, objectstore.ErrPermission) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryBackoff)),
		backoff.WithMaxTries(uint(s.downloadAttempts)),
	)
	return err
}

// uploadAndPublish uploads the rendition once. If only the visibility change
// failed, the publish step alone is retried against the already-uploaded
// object.
func (s *Service) uploadAndPublish(ctx context.Context, name, srcPath string) error {
	err := s.store.UploadProcessed(ctx, name, srcPath)
	if err == nil {
		return nil
	}

	var incomplete *objectstore.PublishIncompleteError
	if !errors.As(err, &incomplete) {
		return err
	}

	operation := func() (struct{}, error) {
		return struct{}{}, s.store.MakePublic(ctx, name)
	}
	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(s.retryBackoff)),
		backoff.WithMaxTries(uint(s.publishAttempts)),
	)
	return err
}

func (s *Service) emitProcessed(ctx context.Context, log *zap.Logger, jobID string, req JobRequest) {
	if s.producer == nil {
		return
	}

	event := VideoProcessedEvent{
		ID:          jobID,
		VideoID:     req.VideoID,
		Filename:    req.ProcessedName,
		URL:         s.store.ProcessedURL(req.ProcessedName),
		ProcessedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal processed event", zap.Error(err))
		return
	}

	headers := map[string]string{"event_type": "video.processed"}
	if err := s.producer.Publish(ctx, []byte(req.VideoID), payload, headers); err != nil {
		// The job itself succeeded; a lost event is reconciled downstream.
		log.Error("publish processed event", zap.Error(err))
	}
}

// abort cleans up whatever staged files exist and surfaces the failure. A
// processing marker that was already written stays in place; the stalled
// status is how operators see the failed job.
func (s *Service) abort(log *zap.Logger, req JobRequest, kind Kind, err error) (*JobResult, error) {
	log.Error("job aborted", zap.String("kind", string(kind)), zap.Error(err))
	s.cleanup(log, req)
	metrics.JobFailed(string(kind))
	return nil, &JobError{Kind: kind, VideoID: req.VideoID, Err: err}
}

func (s *Service) cleanup(log *zap.Logger, req JobRequest) {
	if err := s.staging.DeleteRaw(req.RawName); err != nil {
		log.Warn("raw staging cleanup failed", zap.Error(err))
	}
	if err := s.staging.DeleteProcessed(req.ProcessedName); err != nil {
		log.Warn("processed staging cleanup failed", zap.Error(err))
	}
}

func downloadKind(err error) Kind {
	switch {
	case errors.Is(err, objectstore.ErrNotFound):
		return KindSourceMissing
	case errors.Is(err, objectstore.ErrPermission):
		return KindPermissionDenied
	default:
		return KindTransientIO
	}
}
