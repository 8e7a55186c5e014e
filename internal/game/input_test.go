package game

import (
	"reflect"
	"testing"
)

// TestKeySetFromNames tests parsing of host key names
func TestKeySetFromNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"up"}, []string{"up"}},
		{"mixed case and spaces", []string{" Left ", "DOWN"}, []string{"down", "left"}},
		{"unknown ignored", []string{"jump", "right"}, []string{"right"}},
		{"duplicates collapse", []string{"up", "up"}, []string{"up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeySetFromNames(tt.input).Names()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestDisplacement tests per-key movement vectors
func TestDisplacement(t *testing.T) {
	all := KeySetFromNames([]string{"up", "down", "left", "right"})
	if d := all.Displacement(5, false); d != (Vec2{}) {
		t.Errorf("Opposite keys should cancel, got %+v", d)
	}

	diag := KeySetFromNames([]string{"down", "left"})
	if d := diag.Displacement(5, false); d != (Vec2{-5, -5}) {
		t.Errorf("Expected (-5,-5), got %+v", d)
	}
	if l := diag.Displacement(5, true).Len(); l < 4.999999 || l > 5.000001 {
		t.Errorf("Expected normalized length 5, got %v", l)
	}

	// Normalization leaves single-axis input alone
	if d := KeySetFromNames([]string{"right"}).Displacement(5, true); d != (Vec2{5, 0}) {
		t.Errorf("Expected (5,0), got %+v", d)
	}
}
