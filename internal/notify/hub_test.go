package notify

import (
	"testing"
	"time"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

func created(id int) model.Notification {
	return model.Notification{Kind: model.NotificationCreated, Funko: model.Funko{ID: id}}
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	events, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(created(1))

	select {
	case n := <-events:
		if n.Funko.ID != 1 {
			t.Errorf("received funko %d, want 1", n.Funko.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the notification")
	}
}

func TestLateSubscriberMissesPriorEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	hub.Publish(created(1))

	events, cancel := hub.Subscribe()
	defer cancel()

	select {
	case n := <-events:
		t.Errorf("late subscriber received replayed event for funko %d", n.Funko.ID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	events, cancel := hub.Subscribe()
	cancel()

	hub.Publish(created(1))

	if n, ok := <-events; ok {
		t.Errorf("cancelled subscriber received funko %d", n.Funko.ID)
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overflow the subscriber buffer without anyone draining it.
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(created(i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	hub := NewHub()
	hub.Close()

	events, cancel := hub.Subscribe()
	defer cancel()

	if _, ok := <-events; ok {
		t.Error("subscription on a closed hub delivered an event")
	}
}
