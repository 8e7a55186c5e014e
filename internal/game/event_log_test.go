package game

import (
	"encoding/json"
	"testing"

	"golang.org/x/time/rate"
)

// TestEventLogNotRunning verifies events are refused before Start
func TestEventLogNotRunning(t *testing.T) {
	el := NewEventLog("run")
	if el.EmitSimple(EventTypeHit, 1, "enemy", nil) {
		t.Error("Emit should fail before Start")
	}
}

// TestEventLogRateLimit verifies every emit is either accepted or counted as dropped
func TestEventLogRateLimit(t *testing.T) {
	el := NewEventLog("run")
	if err := el.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer el.Stop()

	const attempts = MaxEventsPerSec / 5
	accepted := 0
	for i := 0; i < attempts; i++ {
		// Empty source skips the per-source limiter
		if el.EmitSimple(EventTypeShotDropped, uint64(i), "", nil) {
			accepted++
		}
	}

	if el.GetTotalCount() != uint64(accepted) {
		t.Errorf("Expected total %d, got %d", accepted, el.GetTotalCount())
	}
	if uint64(accepted)+el.GetDroppedCount() != attempts {
		t.Errorf("Expected %d accepted+dropped, got %d+%d", attempts, accepted, el.GetDroppedCount())
	}
	if accepted == attempts {
		t.Error("Expected the global limiter to refuse part of a burst")
	}
}

// TestEventLogRingDropsOldest verifies a full buffer evicts the oldest events
func TestEventLogRingDropsOldest(t *testing.T) {
	el := NewEventLog("run")
	el.globalLimiter = rate.NewLimiter(rate.Inf, 0)
	el.running.Store(true) // no writer draining the ring

	for i := 0; i < EventBufferSize+10; i++ {
		el.EmitSimple(EventTypeShotDropped, uint64(i), "", nil)
	}

	if el.GetDroppedCount() != 10 {
		t.Errorf("Expected 10 evicted, got %d", el.GetDroppedCount())
	}
	batch := el.collectBatch(nil)
	if len(batch) == 0 {
		t.Fatal("Expected buffered events")
	}
	if batch[0].TickNum != 10 || batch[0].Sequence != 10 {
		t.Errorf("Expected oldest remaining event to be tick 10, got %+v", batch[0])
	}
	if batch[0].RunID != "run" {
		t.Errorf("Expected run ID stamped, got %q", batch[0].RunID)
	}
}

// TestEventFromNotification verifies notification payloads survive encoding
func TestEventFromNotification(t *testing.T) {
	ev := EventFromNotification(Notification{
		Kind:   NotifyHit,
		Tick:   7,
		Entity: 1,
		Tag:    TagEnemy,
		Health: 199,
		Damage: 1,
		Bullet: 3,
	})

	if ev.Type != EventTypeHit || ev.TickNum != 7 || ev.Source != "enemy" {
		t.Errorf("Unexpected event %+v", ev)
	}

	var p HitPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("Payload decode failed: %v", err)
	}
	if p.Health != 199 || p.Bullet != 3 || p.EntityID != 1 {
		t.Errorf("Unexpected payload %+v", p)
	}

	over := EventFromNotification(Notification{Kind: NotifyGameOver, Outcome: OutcomeDraw})
	if over.Type != EventTypeGameOver || over.Source != "" {
		t.Errorf("Unexpected game over event %+v", over)
	}
}
