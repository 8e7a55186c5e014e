package main

import (
	"strings"
	"testing"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/game"

	"github.com/gdamore/tcell/v2"
)

func newTestTUI(t *testing.T) *TUI {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(80, 25)
	t.Cleanup(screen.Fini)
	return newTUI(screen, config.DefaultRules())
}

func TestBindKey(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want game.Key
		ok   bool
	}{
		{tcell.KeyUp, 0, game.KeyUp, true},
		{tcell.KeyDown, 0, game.KeyDown, true},
		{tcell.KeyLeft, 0, game.KeyLeft, true},
		{tcell.KeyRight, 0, game.KeyRight, true},
		{tcell.KeyRune, 'w', game.KeyUp, true},
		{tcell.KeyRune, 'S', game.KeyDown, true},
		{tcell.KeyRune, 'a', game.KeyLeft, true},
		{tcell.KeyRune, 'd', game.KeyRight, true},
		{tcell.KeyRune, 'x', 0, false},
		{tcell.KeyEnter, 0, 0, false},
	}

	for _, tt := range tests {
		got, ok := bindKey(tt.key, tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("bindKey(%v, %q): expected (%v,%v), got (%v,%v)", tt.key, tt.r, tt.want, tt.ok, got, ok)
		}
	}
}

func TestHeldKeysExpire(t *testing.T) {
	tui := newTestTUI(t)
	t0 := time.Now()

	tui.press(game.KeyUp, t0)
	tui.press(game.KeyLeft, t0.Add(100*time.Millisecond))

	if got := tui.keys(t0.Add(100 * time.Millisecond)); !got.Has(game.KeyUp) || !got.Has(game.KeyLeft) {
		t.Errorf("Expected up+left held, got %v", got.Names())
	}
	got := tui.keys(t0.Add(200 * time.Millisecond))
	if got.Has(game.KeyUp) {
		t.Error("Expected up to expire")
	}
	if !got.Has(game.KeyLeft) {
		t.Error("Expected left still held")
	}
	if got := tui.keys(t0.Add(time.Second)); got != 0 {
		t.Errorf("Expected no keys, got %v", got.Names())
	}
}

func TestToCell(t *testing.T) {
	tui := newTestTUI(t)

	tests := []struct {
		x, y   float64
		cx, cy int
		ok     bool
	}{
		{0, 0, 40, 12, true},
		{0, -200, 40, 18, true},
		{0, 200, 40, 5, true},
		{-640, 360, 0, 0, true},
		{640, 0, 0, 0, false},
		{0, -400, 0, 0, false},
	}

	for _, tt := range tests {
		cx, cy, ok := tui.toCell(tt.x, tt.y, 80, 24)
		if ok != tt.ok || (ok && (cx != tt.cx || cy != tt.cy)) {
			t.Errorf("toCell(%v,%v): expected (%d,%d,%v), got (%d,%d,%v)", tt.x, tt.y, tt.cx, tt.cy, tt.ok, cx, cy, ok)
		}
	}
}

func TestDraw(t *testing.T) {
	tui := newTestTUI(t)
	snap := &game.GameSnapshot{
		TickNumber: 3,
		Entities: []game.EntitySnapshot{
			{Kind: game.KindPlayer, Y: -200, Tag: game.TagPlayer, Health: 1, MaxHealth: 1},
			{Kind: game.KindEnemy, Y: 200, Tag: game.TagEnemy, Health: 199, MaxHealth: 200},
		},
		Bullets: []game.BulletSnapshot{
			{Index: 0, Tag: game.TagEnemy, Active: true, X: 100},
			{Index: 1, Tag: game.TagEnemy, Active: false, X: -100},
		},
	}

	tui.draw(snap)

	cells := []struct {
		x, y int
		want rune
	}{
		{40, 18, '@'},
		{40, 5, 'W'},
		{46, 12, '*'},
	}
	for _, c := range cells {
		if got, _, _, _ := tui.screen.GetContent(c.x, c.y); got != c.want {
			t.Errorf("Expected %q at (%d,%d), got %q", c.want, c.x, c.y, got)
		}
	}
	if got, _, _, _ := tui.screen.GetContent(33, 12); got == '*' {
		t.Error("Expected inactive bullet to be hidden")
	}

	var status strings.Builder
	for x := 0; x < 25; x++ {
		r, _, _, _ := tui.screen.GetContent(x, 24)
		status.WriteRune(r)
	}
	if !strings.HasPrefix(status.String(), "tick 3  player 1  enemy 1") {
		t.Errorf("Unexpected status line %q", status.String())
	}
}

func TestDrawGameOver(t *testing.T) {
	tui := newTestTUI(t)
	snap := &game.GameSnapshot{
		Phase:   game.PhaseGameOver,
		Outcome: game.OutcomeEnemyWon,
		Entities: []game.EntitySnapshot{
			{Kind: game.KindPlayer, Y: -200, Tag: game.TagPlayer, Dead: true, MaxHealth: 1},
		},
	}

	tui.draw(snap)

	if got, _, _, _ := tui.screen.GetContent(40, 18); got != 'x' {
		t.Errorf("Expected dead marker, got %q", got)
	}
}
