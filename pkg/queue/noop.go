package queue

import "context"

// Noop drops every message. It backs NOTIFY_DRIVER=none.
type Noop struct {
	done chan struct{}
}

func NewNoop() *Noop {
	return &Noop{done: make(chan struct{})}
}

func (n *Noop) Publish(ctx context.Context, topic, key string, body []byte) error {
	return nil
}

func (n *Noop) Consume(ctx context.Context, topic string, handler Handler) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-n.done:
		return ErrClosed
	}
}

func (n *Noop) Close() error {
	select {
	case <-n.done:
	default:
		close(n.done)
	}
	return nil
}
