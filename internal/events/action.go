// Package events declares typed notification points that services subscribe
// to. An Action fans a payload out to its listeners synchronously.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrNestedInvoke = errors.New("action invoked while another action is executing")

type Listener[T any] func(ctx context.Context, payload T) error

type Action[T any] struct {
	name string

	mu        sync.RWMutex
	listeners []Listener[T]
}

type executingKey struct{}

func NewAction[T any](name string) *Action[T] {
	return &Action[T]{name: name}
}

func (a *Action[T]) Name() string {
	return a.name
}

func (a *Action[T]) AddListener(listener Listener[T]) {
	if listener == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, listener)
}

// Invoke delivers payload to every listener in registration order. Listener
// errors do not stop delivery; they are joined into the returned error.
// Listeners must not invoke another action with the context they receive.
func (a *Action[T]) Invoke(ctx context.Context, payload T) error {
	if running, ok := ctx.Value(executingKey{}).(string); ok {
		return fmt.Errorf("%w: %s during %s", ErrNestedInvoke, a.name, running)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.RLock()
	listeners := make([]Listener[T], len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.RUnlock()

	slog.Debug("action invoked", "action", a.name, "listeners", len(listeners))

	scoped := context.WithValue(ctx, executingKey{}, a.name)
	var errs []error
	for _, listener := range listeners {
		if err := listener(scoped, payload); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", a.name, errors.Join(errs...))
	}

	return nil
}
