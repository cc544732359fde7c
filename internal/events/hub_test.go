package events

import (
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	hub.Publish(Event{Entity: "property", Action: "create", EntityID: 7, Actor: "root"})

	for name, ch := range map[string]<-chan Event{"first": first, "second": second} {
		select {
		case event := <-ch:
			if event.Entity != "property" || event.EntityID != 7 {
				t.Errorf("%s subscriber got %+v", name, event)
			}
			if event.Time.IsZero() {
				t.Errorf("%s subscriber got zero timestamp", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s subscriber never received the event", name)
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()
	// Cancel is idempotent.
	cancel()

	if hub.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}

	hub.Publish(Event{Entity: "lease", Action: "delete", EntityID: 1})
	if _, ok := <-ch; ok {
		t.Error("cancelled subscriber channel still open with data")
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()

	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(Event{Entity: "payment", Action: "create", EntityID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
