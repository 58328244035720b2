package test

import (
	"context"
	"errors"
	"sync"

	"github.com/kubev2v/taskpool/pkg/scheduler"
)

// ErrMockFailure is returned by executors built with NewFailingExecutor.
var ErrMockFailure = errors.New("mock failure")

// MockExecutor implements scheduler.Executor for testing. It records every
// message it receives and delegates to Handler.
type MockExecutor struct {
	Handler func(ctx context.Context, msg scheduler.Message) (any, error)

	mu       sync.Mutex
	messages []scheduler.Message
}

// Execute records msg and runs the configured handler.
func (m *MockExecutor) Execute(ctx context.Context, msg scheduler.Message) (any, error) {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	if m.Handler == nil {
		return msg.Payload, nil
	}
	return m.Handler(ctx, msg)
}

// Messages returns a copy of the received messages in arrival order.
func (m *MockExecutor) Messages() []scheduler.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]scheduler.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Calls returns how many messages were received.
func (m *MockExecutor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// Factory returns an executor factory sharing this mock across workers.
func (m *MockExecutor) Factory() scheduler.ExecutorFactory {
	return func(string) scheduler.Executor { return m }
}

// NewMockExecutor creates a MockExecutor echoing the payload.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// NewFailingExecutor creates a MockExecutor that always fails.
func NewFailingExecutor() *MockExecutor {
	return &MockExecutor{
		Handler: func(context.Context, scheduler.Message) (any, error) {
			return nil, ErrMockFailure
		},
	}
}

// NewBlockingExecutor creates a MockExecutor whose tasks run until release
// is closed or their context is canceled.
func NewBlockingExecutor(release <-chan struct{}) *MockExecutor {
	return &MockExecutor{
		Handler: func(ctx context.Context, msg scheduler.Message) (any, error) {
			select {
			case <-release:
				return msg.Payload, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
}

// NewSilentExecutor creates a MockExecutor that only returns once its
// context is canceled, so the scheduler never sees an answer in time.
func NewSilentExecutor() *MockExecutor {
	return &MockExecutor{
		Handler: func(ctx context.Context, _ scheduler.Message) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
}

// NewPanickingExecutor creates a MockExecutor that panics on every message.
func NewPanickingExecutor() *MockExecutor {
	return &MockExecutor{
		Handler: func(context.Context, scheduler.Message) (any, error) {
			panic("mock panic")
		},
	}
}

var _ scheduler.Executor = (*MockExecutor)(nil)
