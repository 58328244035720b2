package scheduler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	srvErrors "github.com/kubev2v/taskpool/pkg/errors"
)

// Executor runs one attempt of a task inside a worker.
// Execute is called once per delivered message and must honour ctx.
type Executor interface {
	Execute(ctx context.Context, msg Message) (any, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, msg Message) (any, error)

func (f ExecutorFunc) Execute(ctx context.Context, msg Message) (any, error) {
	return f(ctx, msg)
}

type HandlerFunc func(ctx context.Context, payload any) (any, error)

const (
	TaskTypeNoop      = "noop"
	TaskTypeEcho      = "echo"
	TaskTypeSleep     = "sleep"
	TaskTypeFibonacci = "fibonacci"
	TaskTypeSum       = "sum"
	TaskTypeSort      = "sort"
	TaskTypeHash      = "hash"
)

// Registry is the default executor. It routes a message to the handler
// registered for its type.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewRegistry returns a registry holding the built-in task types.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]HandlerFunc)}
	r.Register(TaskTypeNoop, func(context.Context, any) (any, error) { return nil, nil })
	r.Register(TaskTypeEcho, func(_ context.Context, p any) (any, error) { return p, nil })
	r.Register(TaskTypeSleep, sleepHandler)
	r.Register(TaskTypeFibonacci, fibonacciHandler)
	r.Register(TaskTypeSum, sumHandler)
	r.Register(TaskTypeSort, sortHandler)
	r.Register(TaskTypeHash, hashHandler)
	return r
}

// Register adds or replaces the handler for taskType.
func (r *Registry) Register(taskType string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[taskType] = fn
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) Execute(ctx context.Context, msg Message) (any, error) {
	r.mu.RLock()
	fn, ok := r.handlers[msg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, srvErrors.NewUnknownTaskTypeError(msg.Type)
	}
	return fn(ctx, msg.Payload)
}

func sleepHandler(ctx context.Context, payload any) (any, error) {
	ms, err := toInt(payload)
	if err != nil {
		return nil, err
	}
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
		return ms, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func fibonacciHandler(ctx context.Context, payload any) (any, error) {
	n, err := toInt(payload)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 92 {
		return nil, fmt.Errorf("fibonacci: n must be in [0,92], got %d", n)
	}
	var a, b int64 = 0, 1
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, b = b, a+b
	}
	return a, nil
}

func sumHandler(_ context.Context, payload any) (any, error) {
	nums, err := toFloats(payload)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, n := range nums {
		total += n
	}
	return total, nil
}

func sortHandler(_ context.Context, payload any) (any, error) {
	switch v := payload.(type) {
	case []string:
		out := slices.Clone(v)
		slices.Sort(out)
		return out, nil
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(string); ok {
				out := make([]string, 0, len(v))
				for _, item := range v {
					s, ok := item.(string)
					if !ok {
						return nil, fmt.Errorf("sort: mixed element types")
					}
					out = append(out, s)
				}
				slices.Sort(out)
				return out, nil
			}
		}
	}
	nums, err := toFloats(payload)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(nums)
	slices.Sort(out)
	return out, nil
}

func hashHandler(_ context.Context, payload any) (any, error) {
	var data []byte
	switch v := payload.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("hash: unsupported payload %T", payload)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

func toFloats(v any) ([]float64, error) {
	switch s := v.(type) {
	case []float64:
		return s, nil
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, nil
	case []any:
		out := make([]float64, len(s))
		for i, item := range s {
			switch n := item.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			case int64:
				out[i] = float64(n)
			case json.Number:
				f, err := n.Float64()
				if err != nil {
					return nil, err
				}
				out[i] = f
			default:
				return nil, fmt.Errorf("expected numbers, got %T at %d", item, i)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of numbers, got %T", v)
	}
}
