package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bullet-hell/internal/api"
	"bullet-hell/internal/config"
	"bullet-hell/internal/game"

	"github.com/coder/websocket"
)

func envelope(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	msg, err := json.Marshal(api.Message{Event: event, Data: payload})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return msg
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestDispatch(t *testing.T) {
	hit := game.Notification{Kind: game.NotifyHit, Tick: 4, Entity: 1, Tag: game.TagEnemy, Health: 199, Damage: 1, Bullet: 2}

	tests := []struct {
		name      string
		data      []byte
		wantErr   bool
		wantState uint64
		wantNotes uint64
	}{
		{"state", envelope(t, api.EventState, &game.GameSnapshot{TickNumber: 7}), false, 1, 0},
		{"notifications", envelope(t, api.EventNotifications, []game.Notification{hit, hit}), false, 0, 2},
		{"unknown event", envelope(t, "sim:other", nil), true, 0, 0},
		{"bad envelope", []byte("{"), true, 0, 0},
		{"bad payload", []byte(`{"event":"sim:state","data":"x"}`), true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(Config{URL: "ws://unused"})
			c.OnNotifications(func([]game.Notification) {})

			err := c.dispatch(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
			states, notes := c.Stats()
			if states != tt.wantState || notes != tt.wantNotes {
				t.Errorf("Expected stats (%d,%d), got (%d,%d)", tt.wantState, tt.wantNotes, states, notes)
			}
		})
	}
}

// TestSessionDecodesFeed runs a session against a stub feed that sends one
// snapshot and one notification batch, then closes
func TestSessionDecodesFeed(t *testing.T) {
	stateMsg := envelope(t, api.EventState,
		&game.GameSnapshot{TickNumber: 31, Phase: game.PhaseGameOver, Outcome: game.OutcomePlayerWon})
	notesMsg := envelope(t, api.EventNotifications, []game.Notification{
		{Kind: game.NotifyDeath, Tick: 31, Entity: 1, Tag: game.TagEnemy, Bullet: 0},
		{Kind: game.NotifyGameOver, Tick: 31, Bullet: -1, Outcome: game.OutcomePlayerWon},
	})

	var mu sync.Mutex
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		conn.Write(ctx, websocket.MessageText, stateMsg)
		conn.Write(ctx, websocket.MessageText, notesMsg)
		conn.Close(websocket.StatusNormalClosure, "done")
	}))
	defer ts.Close()

	var snaps []*game.GameSnapshot
	var notes []game.Notification

	c := NewClient(Config{URL: wsURL(ts), Token: "secret"})
	c.OnState(func(s *game.GameSnapshot) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})
	c.OnNotifications(func(n []game.Notification) {
		mu.Lock()
		notes = append(notes, n...)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Session(ctx); err == nil {
		t.Fatal("Expected an error once the feed closed")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer secret" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if len(snaps) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].TickNumber != 31 || snaps[0].Outcome != game.OutcomePlayerWon {
		t.Errorf("Expected tick 31 player_won, got tick %d %s", snaps[0].TickNumber, snaps[0].Outcome)
	}
	if len(notes) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notes))
	}
	if notes[0].Kind != game.NotifyDeath || notes[1].Outcome != game.OutcomePlayerWon {
		t.Errorf("Unexpected notifications: %+v", notes)
	}
}

// TestSessionAgainstHub follows the real feed and drives input through it
func TestSessionAgainstHub(t *testing.T) {
	engine := game.NewEngine(game.EngineConfig{Rules: config.DefaultRules()})
	hub := api.NewWebSocketHub(engine, api.NewOriginChecker(nil), api.NewTokenAuth("secret"))

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go hub.RunBroadcastLoop(ctx, 10*time.Millisecond)
	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer func() {
		cancel()
		ts.Close()
	}()

	states := make(chan *game.GameSnapshot, 16)
	c := NewClient(Config{URL: wsURL(ts), Token: "secret"})
	c.OnState(func(s *game.GameSnapshot) {
		select {
		case states <- s:
		default:
		}
	})
	go c.Session(ctx)

	select {
	case snap := <-states:
		if _, ok := snap.Entity(game.KindPlayer); !ok {
			t.Error("Expected the player in the first snapshot")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a snapshot")
	}

	if err := c.SendKeys(ctx, []string{"up", "left"}); err != nil {
		t.Fatalf("SendKeys failed: %v", err)
	}
	want := game.KeySetFromNames([]string{"up", "left"})
	waitFor(t, "input to reach the engine", func() bool {
		return engine.Input() == want
	})

	engine.Step(time.Second/60, engine.Input())
	waitFor(t, "tick 1 snapshot", func() bool {
		select {
		case snap := <-states:
			return snap.TickNumber == 1
		default:
			return false
		}
	})
}

func TestSendKeysNotConnected(t *testing.T) {
	c := NewClient(Config{URL: "ws://unused"})
	if err := c.SendKeys(context.Background(), []string{"up"}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}

// TestRunStopsOnCancel verifies the reconnect loop exits cleanly
func TestRunStopsOnCancel(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(ts)
	ts.Close()

	c := NewClient(Config{URL: url, ReconnectDelay: 10 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil after cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
