package event

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInMemoryBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	events, unsubscribe := bus.Subscribe()

	bus.Publish(New(TypeUserDeleted, "admin", map[string]string{"username": "bob"}))

	select {
	case e := <-events:
		require.Equal(t, TypeUserDeleted, e.Type)
		require.Equal(t, "admin", e.ActorID)
		require.NotEmpty(t, e.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	unsubscribe()
	_, open := <-events
	require.False(t, open)

	// publishing with no subscribers must not block
	bus.Publish(New(TypeUserCreated, "admin", nil))
}

func TestLogEvents(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		LogEvents(ctx, bus, logger)
		close(done)
	}()

	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	bus.Publish(New(TypeAccessRefused, "bob", "delete admin"))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("type=access.refused"))
	}, time.Second, 5*time.Millisecond)
	require.Contains(t, out.String(), "level=WARN")

	cancel()
	<-done
}
