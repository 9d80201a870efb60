package mocks

import "sync"

// MockQueue is an in-memory MessageQueue for tests. Published messages are
// delivered synchronously to subscribers and retained for inspection.
type MockQueue struct {
	mu        sync.Mutex
	published map[string][][]byte
	handlers  map[string][]func(data []byte) error
}

func NewMockQueue() *MockQueue {
	return &MockQueue{
		published: make(map[string][][]byte),
		handlers:  make(map[string][]func(data []byte) error),
	}
}

func (m *MockQueue) Publish(subject string, data []byte) error {
	m.mu.Lock()
	m.published[subject] = append(m.published[subject], data)
	handlers := append([]func(data []byte) error{}, m.handlers[subject]...)
	m.mu.Unlock()

	for _, h := range handlers {
		_ = h(data)
	}
	return nil
}

func (m *MockQueue) Subscribe(subject string, handler func(data []byte) error) error {
	m.mu.Lock()
	m.handlers[subject] = append(m.handlers[subject], handler)
	m.mu.Unlock()
	return nil
}

func (m *MockQueue) Close() error { return nil }

// Published returns messages published on a subject, in order.
func (m *MockQueue) Published(subject string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published[subject]
}
