package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestActionInvokeDeliversToListenersInOrder(t *testing.T) {
	t.Parallel()

	action := NewAction[string]("test.action")
	var got []string
	action.AddListener(func(_ context.Context, payload string) error {
		got = append(got, "first:"+payload)
		return nil
	})
	action.AddListener(func(_ context.Context, payload string) error {
		got = append(got, "second:"+payload)
		return nil
	})

	require.NoError(t, action.Invoke(context.Background(), "x"))
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestActionInvokeWithoutListeners(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewAction[int]("noop").Invoke(context.Background(), 1))
}

func TestActionInvokeJoinsListenerErrorsAndKeepsDelivering(t *testing.T) {
	t.Parallel()

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	delivered := 0

	action := NewAction[string]("test.errors")
	action.AddListener(func(context.Context, string) error { delivered++; return errA })
	action.AddListener(func(context.Context, string) error { delivered++; return errB })

	err := action.Invoke(context.Background(), "payload")
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "test.errors")
	assert.Equal(t, 2, delivered)
}

func TestActionRejectsNestedInvoke(t *testing.T) {
	t.Parallel()

	actions := NewPathSnippetActions()
	actions.OnAddPath.AddListener(func(ctx context.Context, path string) error {
		return actions.OnAddSnippet.Invoke(ctx, "<div>")
	})

	err := actions.OnAddPath.Invoke(context.Background(), "#main")
	require.ErrorIs(t, err, ErrNestedInvoke)
	assert.Contains(t, err.Error(), ActionAddSnippet)
}

func TestActionInvokeHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	action := NewAction[string]("test.cancel")
	action.AddListener(func(context.Context, string) error { called = true; return nil })

	assert.ErrorIs(t, action.Invoke(ctx, "x"), context.Canceled)
	assert.False(t, called)
}

func TestActionConcurrentInvokeAndSubscribe(t *testing.T) {
	t.Parallel()

	action := NewAction[int]("test.concurrent")
	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			action.AddListener(func(_ context.Context, n int) error {
				mu.Lock()
				total += n
				mu.Unlock()
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = action.Invoke(context.Background(), 1)
		}()
	}
	wg.Wait()

	mu.Lock()
	before := total
	mu.Unlock()

	require.NoError(t, action.Invoke(context.Background(), 1))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, before+8, total)
}

func TestPathSnippetActionNames(t *testing.T) {
	t.Parallel()

	actions := NewPathSnippetActions()
	assert.Equal(t, ActionAddPath, actions.OnAddPath.Name())
	assert.Equal(t, ActionAddSnippet, actions.OnAddSnippet.Name())
}
