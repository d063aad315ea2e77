package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// Consumer wraps a kafka-go Reader joined to a consumer group.
type Consumer struct {
	reader *kafkago.Reader
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

// NewConsumer constructs a Consumer from the given configuration.
func NewConsumer(cfg ConsumerConfig) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		}),
	}
}

// Read blocks until the next message arrives or ctx is cancelled. Offsets are
// committed automatically by the consumer group on successful reads.
func (c *Consumer) Read(ctx context.Context) (kafkago.Message, error) {
	return c.reader.ReadMessage(ctx)
}

// Close releases the reader's connections.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
