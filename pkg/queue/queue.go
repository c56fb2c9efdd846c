// Package queue moves notification messages between the API and the
// background worker over a pluggable broker.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/pkg/circuit"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"go.uber.org/zap"
)

const (
	DriverNone     = "none"
	DriverMemory   = "memory"
	DriverRabbitMQ = "rabbitmq"
	DriverKafka    = "kafka"
)

var (
	ErrClosed    = errors.New("queue is closed")
	ErrQueueFull = errors.New("queue is full")
)

// Message is one delivery.
type Message struct {
	Topic     string
	Key       string
	Body      []byte
	Timestamp time.Time
}

// Handler processes a delivery. A returned error drops the message.
type Handler func(ctx context.Context, msg Message) error

type Publisher interface {
	Publish(ctx context.Context, topic, key string, body []byte) error
	Close() error
}

// Consumer blocks in Consume until ctx is cancelled or the broker is
// closed.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Broker is a driver that can both publish and consume.
type Broker interface {
	Publisher
	Consumer
}

// New builds the broker named by cfg.Driver. The returned publisher is
// guarded by a breaker from breakers when one is given.
func New(cfg config.NotifyConfig, breakers *circuit.Registry) (Publisher, Consumer, error) {
	var broker Broker
	switch cfg.Driver {
	case DriverNone, "":
		broker = NewNoop()
	case DriverMemory:
		broker = NewMemory(256)
	case DriverRabbitMQ:
		broker = NewRabbitMQ(cfg.RabbitMQURL)
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, nil, errors.New("kafka driver needs KAFKA_BROKERS")
		}
		broker = NewKafka(cfg.KafkaBrokers, cfg.KafkaGroupID)
	default:
		return nil, nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}

	logger.GetLogger().Info("Notification queue ready",
		zap.String("driver", cfg.Driver),
		zap.String("topic", cfg.Topic),
	)

	var publisher Publisher = broker
	if breakers != nil {
		publisher = NewBreakerPublisher(broker, breakers.GetOrCreate("queue."+driverName(cfg.Driver)))
	}
	return publisher, broker, nil
}

func driverName(d string) string {
	if d == "" {
		return DriverNone
	}
	return d
}
