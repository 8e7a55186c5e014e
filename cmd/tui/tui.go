package main

import (
	"context"
	"fmt"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/game"

	"github.com/gdamore/tcell/v2"
)

// holdWindow is how long a key press counts as held. Terminals report
// presses and autorepeat but never releases.
const holdWindow = 150 * time.Millisecond

var (
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleEnemy  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleDead   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// bindKey maps a terminal key onto a movement key
func bindKey(key tcell.Key, r rune) (game.Key, bool) {
	switch key {
	case tcell.KeyUp:
		return game.KeyUp, true
	case tcell.KeyDown:
		return game.KeyDown, true
	case tcell.KeyLeft:
		return game.KeyLeft, true
	case tcell.KeyRight:
		return game.KeyRight, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			return game.KeyUp, true
		case 's', 'S':
			return game.KeyDown, true
		case 'a', 'A':
			return game.KeyLeft, true
		case 'd', 'D':
			return game.KeyRight, true
		}
	}
	return 0, false
}

// TUI plays the simulation in a terminal
type TUI struct {
	screen tcell.Screen
	engine *game.Engine

	arenaW, arenaH float64
	held           map[game.Key]time.Time
}

func newTUI(screen tcell.Screen, rules config.RulesConfig) *TUI {
	arenaW, arenaH := rules.Simulation.ArenaWidth, rules.Simulation.ArenaHeight
	if arenaW <= 0 || arenaH <= 0 {
		def := config.DefaultSimulation()
		arenaW, arenaH = def.ArenaWidth, def.ArenaHeight
	}
	return &TUI{
		screen: screen,
		engine: game.NewEngine(game.EngineConfig{Rules: rules}),
		arenaW: arenaW,
		arenaH: arenaH,
		held:   make(map[game.Key]time.Time, 4),
	}
}

// press marks k held as of now
func (t *TUI) press(k game.Key, now time.Time) {
	t.held[k] = now
}

// keys returns the keys pressed within holdWindow of now
func (t *TUI) keys(now time.Time) game.KeySet {
	var ks game.KeySet
	for k, at := range t.held {
		if now.Sub(at) <= holdWindow {
			ks = ks.With(k)
		}
	}
	return ks
}

// handle applies one terminal event. It returns false to quit.
func (t *TUI) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			t.engine.Reset()
			clear(t.held)
		default:
			if k, ok := bindKey(ev.Key(), ev.Rune()); ok {
				t.press(k, now)
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// toCell maps arena coordinates to a cell of the play area
func (t *TUI) toCell(x, y float64, cols, rows int) (int, int, bool) {
	cx := int((x + t.arenaW/2) / t.arenaW * float64(cols))
	cy := int((t.arenaH/2 - y) / t.arenaH * float64(rows))
	if cx < 0 || cx >= cols || cy < 0 || cy >= rows {
		return 0, 0, false
	}
	return cx, cy, true
}

// draw renders snap; the last row is the status line
func (t *TUI) draw(snap *game.GameSnapshot) {
	s := t.screen
	s.Clear()
	cols, rows := s.Size()
	rows--
	if cols <= 0 || rows <= 0 {
		return
	}

	for _, b := range snap.Bullets {
		if !b.Active {
			continue
		}
		if x, y, ok := t.toCell(b.X, b.Y, cols, rows); ok {
			style := stylePlayer
			if b.Tag == game.TagEnemy {
				style = styleEnemy
			}
			s.SetContent(x, y, '*', nil, style)
		}
	}

	var playerHP, enemyHP uint32
	for _, e := range snap.Entities {
		x, y, ok := t.toCell(e.X, e.Y, cols, rows)
		ch, style := '@', stylePlayer
		if e.Kind == game.KindEnemy {
			ch, style = 'W', styleEnemy
			enemyHP = e.Health
		} else {
			playerHP = e.Health
		}
		if e.Dead {
			ch, style = 'x', styleDead
		}
		if ok {
			s.SetContent(x, y, ch, nil, style)
		}
	}

	status := fmt.Sprintf("tick %d  player %d  enemy %d", snap.TickNumber, playerHP, enemyHP)
	if snap.Phase == game.PhaseGameOver {
		status += "  GAME OVER: " + snap.Outcome.String() + " (r to restart)"
	}
	for i, r := range status {
		if i >= cols {
			break
		}
		s.SetContent(i, rows, r, nil, styleStatus)
	}
	s.Show()
}

// run steps and draws at the tick rate until ctx ends or the user quits
func (t *TUI) run(ctx context.Context) {
	interval := t.engine.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// PollEvent returns nil once the screen is finalized
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !t.handle(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			t.engine.Step(interval, t.keys(now))
			t.draw(t.engine.GetSnapshot())
		}
	}
}
