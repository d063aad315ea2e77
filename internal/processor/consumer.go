package processor

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageSource yields upload-notification messages, blocking until one
// arrives or the context ends.
type MessageSource interface {
	Read(ctx context.Context) (kafkago.Message, error)
}

// Listener consumes upload notifications and dispatches one pipeline job per
// message. Jobs run on their own goroutines, so a slow transcode does not
// block other videos.
type Listener struct {
	source  MessageSource
	service *Service
	logger  *zap.Logger
}

// NewListener constructs a Listener over the given message source.
func NewListener(source MessageSource, service *Service, logger *zap.Logger) *Listener {
	return &Listener{
		source:  source,
		service: service,
		logger:  logger,
	}
}

// Run consumes until ctx is cancelled. Malformed messages are logged and
// dropped; job failures are logged with their kind and not redelivered, since
// the idempotency gate would reject a blind retry of a partially-run job
// anyway.
func (l *Listener) Run(ctx context.Context) error {
	for {
		msg, err := l.source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			l.logger.Error("read notification", zap.Error(err))
			continue
		}

		var note UploadNotification
		if err := json.Unmarshal(msg.Value, &note); err != nil {
			l.logger.Warn("malformed notification dropped",
				zap.ByteString("payload", msg.Value),
				zap.Error(err),
			)
			continue
		}

		go l.handle(ctx, note)
	}
}

func (l *Listener) handle(ctx context.Context, note UploadNotification) {
	result, err := l.service.ProcessVideo(ctx, note.Name)
	if err != nil {
		l.logger.Error("notification job failed",
			zap.String("object", note.Name),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
		return
	}
	if result.Skipped {
		return
	}
	l.logger.Info("notification job done",
		zap.String("video_id", result.VideoID),
		zap.String("url", result.URL),
	)
}
