package processor

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/your-org/videoforge/internal/ledger"
)

type fakeSource struct {
	messages chan kafkago.Message
}

func (f *fakeSource) Read(ctx context.Context) (kafkago.Message, error) {
	select {
	case <-ctx.Done():
		return kafkago.Message{}, ctx.Err()
	case msg := <-f.messages:
		return msg, nil
	}
}

func TestListenerProcessesNotifications(t *testing.T) {
	f := newPipelineFixture(t)
	source := &fakeSource{messages: make(chan kafkago.Message, 2)}
	listener := NewListener(source, f.service, zap.NewNop())

	// A malformed payload must be dropped without stopping the loop.
	source.messages <- kafkago.Message{Value: []byte("not json")}
	source.messages <- kafkago.Message{Value: []byte(`{"name":"abc.mp4"}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- listener.Run(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for {
		entry, _ := f.ledger.Get(context.Background(), "abc")
		if entry.Status == ledger.StatusProcessed {
			break
		}
		select {
		case <-deadline:
			t.Fatal("notification job did not complete")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v after cancellation", err)
		}
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on cancellation")
	}
}
