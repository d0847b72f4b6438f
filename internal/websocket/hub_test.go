package slotws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

func receive(t *testing.T, client *Client) ([]byte, bool) {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		return payload, ok
	case <-time.After(time.Second):
		return nil, false
	}
}

func TestHubDeliversToWatchersOfCoach(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	coachA := uuid.New()
	coachB := uuid.New()
	watcherA := NewClient(hub, nil, []uuid.UUID{coachA})
	watcherB := NewClient(hub, nil, []uuid.UUID{coachB})
	hub.Register(watcherA)
	hub.Register(watcherB)

	event := models.SlotEvent{
		Type:      models.SlotEventBooked,
		SlotID:    uuid.New(),
		CoachID:   coachA,
		Timestamp: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	hub.Publish(event)

	payload, ok := receive(t, watcherA)
	if !ok {
		t.Fatalf("expected watcher of coach A to receive the event")
	}
	var decoded models.SlotEvent
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if decoded.Type != "slot_booked" || decoded.SlotID != event.SlotID || decoded.CoachID != coachA {
		t.Fatalf("unexpected event: %+v", decoded)
	}

	select {
	case payload := <-watcherB.send:
		t.Fatalf("expected no event for coach B watcher, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	client := NewClient(hub, nil, []uuid.UUID{uuid.New(), uuid.New()})
	hub.Register(client)
	hub.Unregister(client)
	hub.Unregister(client)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatalf("expected the send queue to be closed, got a payload")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected the send queue to be closed")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish(models.SlotEvent{Type: models.SlotEventBooked, SlotID: uuid.New(), CoachID: uuid.New()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected Publish to return with no hub running")
	}
}
