package sse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Hayal27/sininning-pro-sub000/infrastructure/logger"
)

func startBroker(t *testing.T, opts ...BrokerOption) Broker {
	t.Helper()

	b := NewBroker(logger.NewNop(), opts...)
	require.NoError(t, b.Start(context.Background()))
	return b
}

func receive(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case ev, ok := <-events:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestBroker_PublishSubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t)
	defer func() { _ = b.Stop() }()

	events, cleanup, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, b.Publish(context.Background(), NewContactEvent("c-1", "Jane", "jane@paints.test", "Quote", "quote")))

	ev := receive(t, events)
	assert.Equal(t, EventTypeContactNew, ev.Type)
	assert.Equal(t, "c-1", ev.ID)

	data, ok := ev.Data.(ContactNewData)
	require.True(t, ok)
	assert.Equal(t, "quote", data.InquiryType)
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t)
	defer func() { _ = b.Stop() }()

	const subscriberCount = 5
	channels := make([]<-chan Event, 0, subscriberCount)
	for range subscriberCount {
		events, cleanup, err := b.Subscribe(context.Background())
		require.NoError(t, err)
		defer cleanup()
		channels = append(channels, events)
	}
	assert.Equal(t, subscriberCount, b.ClientCount())

	require.NoError(t, b.Publish(context.Background(), NewContentChangedEvent("product", "p-1", "created")))

	for _, events := range channels {
		assert.Equal(t, EventTypeContentChanged, receive(t, events).Type)
	}
}

func TestBroker_TypeFilter(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t)
	defer func() { _ = b.Stop() }()

	contacts, cleanupContacts, err := b.Subscribe(context.Background(), WithTypes(EventTypeContactNew, EventTypeContactUpdated))
	require.NoError(t, err)
	defer cleanupContacts()

	everything, cleanupAll, err := b.Subscribe(context.Background(), WithTypes())
	require.NoError(t, err)
	defer cleanupAll()

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, NewSubscriptionEvent("a@paints.test", false)))
	require.NoError(t, b.Publish(ctx, NewContactUpdatedEvent("c-1", "resolved", "in_progress", "high")))

	assert.Equal(t, EventTypeContactUpdated, receive(t, contacts).Type)
	assert.Equal(t, EventTypeSubscriptionNew, receive(t, everything).Type)
	assert.Equal(t, EventTypeContactUpdated, receive(t, everything).Type)

	select {
	case ev := <-contacts:
		t.Fatalf("unexpected event %s", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_MaxClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t, WithMaxClients(2))
	defer func() { _ = b.Stop() }()

	for range 2 {
		_, cleanup, err := b.Subscribe(context.Background())
		require.NoError(t, err)
		defer cleanup()
	}

	events, cleanup, err := b.Subscribe(context.Background())
	require.ErrorIs(t, err, ErrTooManyClients)
	assert.Nil(t, events)
	cleanup()
	assert.Equal(t, 2, b.ClientCount())
}

func TestBroker_SlowClientDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t, WithClientBufferSize(2))
	defer func() { _ = b.Stop() }()

	events, cleanup, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	defer cleanup()

	for i := range 10 {
		_ = b.Publish(context.Background(), NewScheduledRunEvent("publish-scheduled-news", int64(i)))
	}

	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	drained := 0
	for range events {
		drained++
	}
	assert.LessOrEqual(t, drained, 2)
}

func TestBroker_ContextCancelRemovesClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t)
	defer func() { _ = b.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	events, cleanup, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cleanup()

	cancel()

	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-events
	assert.False(t, ok)
}

func TestBroker_StopClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t)

	channels := make([]<-chan Event, 0, 3)
	for range 3 {
		events, _, err := b.Subscribe(context.Background())
		require.NoError(t, err)
		channels = append(channels, events)
	}

	require.NoError(t, b.Stop())

	for _, events := range channels {
		for range events {
		}
	}
	assert.Zero(t, b.ClientCount())
}

func TestBroker_ConcurrentPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := startBroker(t, WithEventBufferSize(1000))
	defer func() { _ = b.Stop() }()

	events, cleanup, err := b.Subscribe(context.Background(), WithBufferSize(1000))
	require.NoError(t, err)
	defer cleanup()

	const publishers, perPublisher = 10, 50
	var wg sync.WaitGroup
	for range publishers {
		wg.Go(func() {
			for range perPublisher {
				_ = b.Publish(context.Background(), NewContentChangedEvent("news", "n-1", "updated"))
			}
		})
	}
	wg.Wait()

	received := 0
	timeout := time.After(2 * time.Second)
loop:
	for received < publishers*perPublisher {
		select {
		case <-events:
			received++
		case <-timeout:
			break loop
		}
	}
	assert.Equal(t, publishers*perPublisher, received)
}
