package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Kafka publishes through one shared writer and consumes through one
// group reader per Consume call.
type Kafka struct {
	brokers []string
	groupID string
	writer  *kafka.Writer

	mu      sync.Mutex
	readers []*kafka.Reader
	closed  bool
}

func NewKafka(brokers []string, groupID string) *Kafka {
	if groupID == "" {
		groupID = "jury-notifier"
	}
	return &Kafka{
		brokers: brokers,
		groupID: groupID,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, topic, key string, body []byte) error {
	err := k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Consume commits every message after the handler ran, whether or not
// it succeeded.
func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler) error {
	reader, err := k.newReader(topic)
	if err != nil {
		return err
	}

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrClosed
			}
			logger.GetLogger().Warn("Kafka fetch failed",
				zap.String("topic", topic),
				zap.Error(err),
			)
			if !sleepCtx(ctx, time.Second) {
				return ctx.Err()
			}
			continue
		}

		_ = handler(ctx, Message{Topic: m.Topic, Key: string(m.Key), Body: m.Value, Timestamp: m.Time})
		if err := reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			logger.GetLogger().Warn("Kafka commit failed",
				zap.String("topic", topic),
				zap.Int64("offset", m.Offset),
				zap.Error(err),
			)
		}
	}
}

func (k *Kafka) newReader(topic string) (*kafka.Reader, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil, ErrClosed
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  k.groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	k.readers = append(k.readers, reader)
	return reader, nil
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.closed = true

	errs := []error{k.writer.Close()}
	for _, r := range k.readers {
		errs = append(errs, r.Close())
	}
	k.readers = nil
	return errors.Join(errs...)
}
