package hub

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Name string
	N    int
}

var silentLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testEvent(n int) event {
	return event{Name: "fetched", N: n}
}

func TestHub_ChannelClosedAfterUnsubscribe(t *testing.T) {
	hub := New[event](256, silentLogger)

	sub, cancel := hub.Subscribe()
	require.NotNil(t, sub)
	require.NotNil(t, cancel)

	hub.Unsubscribe(sub.ID)

	assert.Panics(t, func() {
		sub.Ch <- testEvent(1)
	}, "should panic when sending to closed channel")

	select {
	case <-sub.Done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Done channel should be closed")
	}
}

func TestHub_CancelFunctionWorks(t *testing.T) {
	hub := New[event](256, silentLogger)

	sub, cancel := hub.Subscribe()
	cancel()
	cancel()

	select {
	case <-sub.Done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Done channel should be closed after cancel()")
	}
	n, _ := hub.Stats()
	assert.Equal(t, 0, n)
}

func TestHub_EverySubscriberReceives(t *testing.T) {
	hub := New[event](8, silentLogger)

	const numSubs = 5
	subs := make([]*Subscriber[event], numSubs)
	for i := range numSubs {
		subs[i], _ = hub.Subscribe()
	}
	n, _ := hub.Stats()
	assert.Equal(t, numSubs, n)

	ev := testEvent(3)
	hub.Broadcast(ev)

	for i := range numSubs {
		select {
		case got := <-subs[i].Ch:
			assert.Equal(t, ev, got)
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d did not receive event", i)
		}
	}
}

func TestHub_DropsWhenOutboxFull(t *testing.T) {
	hub := New[event](1, silentLogger)
	sub, cancel := hub.Subscribe()
	defer cancel()

	hub.Broadcast(testEvent(1))
	hub.Broadcast(testEvent(2))
	hub.Broadcast(testEvent(3))

	_, dropped := hub.Stats()
	assert.Equal(t, uint64(2), dropped)
	assert.Equal(t, testEvent(1), <-sub.Ch)
}

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := New[event](256, nil)
	assert.NotPanics(t, func() { hub.Broadcast(testEvent(1)) })
}

func TestHub_BroadcastAfterUnsubscribe_NoPanic(t *testing.T) {
	hub := New[event](256, silentLogger)
	_, cancel := hub.Subscribe()
	cancel()

	assert.NotPanics(t, func() { hub.Broadcast(testEvent(1)) })
}

func TestHub_CloseClosesEveryone(t *testing.T) {
	hub := New[event](4, silentLogger)
	a, cancelA := hub.Subscribe()
	b, _ := hub.Subscribe()

	hub.Close()

	for _, sub := range []*Subscriber[event]{a, b} {
		select {
		case <-sub.Done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("Done channel should be closed")
		}
	}
	assert.NotPanics(t, cancelA)
	assert.NotPanics(t, func() { hub.Broadcast(testEvent(1)) })

	late, _ := hub.Subscribe()
	_, open := <-late.Ch
	assert.False(t, open)
}

func TestHub_RaceConditionDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping resource-intensive test in short mode")
	}

	hub := New[event](256, silentLogger)

	var wg sync.WaitGroup
	numGoroutines := 100

	for i := range numGoroutines {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			sub, cancel := hub.Subscribe()
			hub.Broadcast(testEvent(idx))
			cancel()
			<-sub.Done
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(testEvent(idx))
		}(i)
	}

	wg.Wait()
	n, _ := hub.Stats()
	assert.Equal(t, 0, n, "hub should have no subscribers left")
}

func BenchmarkHub_Broadcast(b *testing.B) {
	hub := New[event](256, silentLogger)
	for range 100 {
		sub, cancel := hub.Subscribe()
		defer cancel()
		go func() {
			for range sub.Ch {
			}
		}()
	}

	ev := testEvent(1)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			hub.Broadcast(ev)
		}
	})
}

func BenchmarkHub_SubscribeUnsubscribe(b *testing.B) {
	hub := New[event](256, silentLogger)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, cancel := hub.Subscribe()
			cancel()
		}
	})
}

func TestHub_CloseIsIdempotent(t *testing.T) {
	hub := New[event](1, nil)
	hub.Close()
	assert.NotPanics(t, hub.Close)
}
