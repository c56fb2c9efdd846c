package queue

import (
	"context"

	"github.com/Payphone-Digital/jury/pkg/circuit"
)

// BreakerPublisher fails fast while the broker keeps failing.
type BreakerPublisher struct {
	next    Publisher
	breaker *circuit.Breaker
}

func NewBreakerPublisher(next Publisher, breaker *circuit.Breaker) *BreakerPublisher {
	return &BreakerPublisher{next: next, breaker: breaker}
}

func (p *BreakerPublisher) Publish(ctx context.Context, topic, key string, body []byte) error {
	return p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		return p.next.Publish(ctx, topic, key, body)
	})
}

func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}
