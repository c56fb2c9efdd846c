package queue

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process broker backed by buffered channels, one per
// topic. Messages are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	topics map[string]chan Message
	size   int
	closed bool
	done   chan struct{}
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 1
	}
	return &Memory{
		topics: make(map[string]chan Message),
		size:   size,
		done:   make(chan struct{}),
	}
}

func (m *Memory) channel(topic string) (chan Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	ch, ok := m.topics[topic]
	if !ok {
		ch = make(chan Message, m.size)
		m.topics[topic] = ch
	}
	return ch, nil
}

// Publish never blocks; a full topic yields ErrQueueFull.
func (m *Memory) Publish(ctx context.Context, topic, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := m.channel(topic)
	if err != nil {
		return err
	}

	msg := Message{Topic: topic, Key: key, Body: append([]byte(nil), body...), Timestamp: time.Now().UTC()}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume hands messages to handler one at a time.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler) error {
	ch, err := m.channel(topic)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		case msg := <-ch:
			_ = handler(ctx, msg)
		}
	}
}

// Len reports how many messages wait on topic.
func (m *Memory) Len(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.topics[topic])
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}
