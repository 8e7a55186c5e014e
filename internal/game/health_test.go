package game

import (
	"math"
	"testing"
)

// TestApplyDamage verifies saturating damage and a single death report
func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name       string
		start      uint32
		damage     []uint32
		wantHealth uint32
		wantDeaths int
	}{
		{"single point", 200, []uint32{1}, 199, 0},
		{"exact kill", 1, []uint32{1}, 0, 1},
		{"overkill saturates", 3, []uint32{10}, 0, 1},
		{"max damage", 5, []uint32{math.MaxUint32}, 0, 1},
		{"hits after death ignored", 2, []uint32{1, 1, 1, 1}, 0, 1},
		{"zero damage", 4, []uint32{0, 0}, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthRecord(TagEnemy, tt.start, 10, 1)
			deaths := 0
			var health uint32
			for _, d := range tt.damage {
				var died bool
				health, died = h.ApplyDamage(d)
				if died {
					deaths++
				}
			}
			if health != tt.wantHealth || h.Health != tt.wantHealth {
				t.Errorf("Expected health %d, got %d (record %d)", tt.wantHealth, health, h.Health)
			}
			if deaths != tt.wantDeaths {
				t.Errorf("Expected %d deaths, got %d", tt.wantDeaths, deaths)
			}
		})
	}
}

// TestHealthBornDead verifies a zero starting health is already terminal
func TestHealthBornDead(t *testing.T) {
	h := NewHealthRecord(TagPlayer, 0, 10, 1)
	if !h.Dead() {
		t.Error("Zero health record should be dead")
	}
	if _, died := h.ApplyDamage(1); died {
		t.Error("A dead record cannot die again")
	}
}

// TestHealthRestore verifies a dead record comes back at full health
func TestHealthRestore(t *testing.T) {
	h := NewHealthRecord(TagEnemy, 3, 10, 1)
	h.ApplyDamage(5)
	if !h.Dead() {
		t.Fatal("Expected record to die")
	}

	h.Restore()
	if h.Health != 3 || h.Dead() {
		t.Errorf("Expected health 3 and alive, got %d dead=%v", h.Health, h.Dead())
	}
	if _, died := h.ApplyDamage(3); !died {
		t.Error("Expected a restored record to die again")
	}
}

// TestInRangeIsStrict verifies the hitbox edge does not count as a hit
func TestInRangeIsStrict(t *testing.T) {
	h := NewHealthRecord(TagEnemy, 1, 100, 1)
	center := Vec2{0, 200}

	if !h.InRange(center, Vec2{0, 150}) {
		t.Error("Distance 50 should be in range of radius 100")
	}
	if h.InRange(center, Vec2{0, 100}) {
		t.Error("Distance equal to radius should be out of range")
	}
	if h.InRange(center, Vec2{60, 120}) {
		t.Error("Distance 100 on a diagonal should be out of range")
	}
}
