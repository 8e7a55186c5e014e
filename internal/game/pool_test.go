package game

import "testing"

func testProto() BulletProto {
	return BulletProto{Direction: Vec2{0, 1}, Speed: 10, Damage: 1}
}

// TestPoolAcquireRelease verifies the lowest free slot is reused
func TestPoolAcquireRelease(t *testing.T) {
	pool := NewBulletPool(TagPlayer, 5, testProto())

	var slots []*BulletSlot
	for i := 0; i < 5; i++ {
		s, ok := pool.Acquire()
		if !ok {
			t.Fatalf("Acquire %d failed", i)
		}
		if s.Index != i {
			t.Errorf("Expected slot %d, got %d", i, s.Index)
		}
		slots = append(slots, s)
	}

	if _, ok := pool.Acquire(); ok {
		t.Error("Expected exhausted pool to refuse")
	}
	if pool.Dropped() != 1 {
		t.Errorf("Expected 1 dropped, got %d", pool.Dropped())
	}

	pool.Release(slots[3])
	pool.Release(slots[1])
	if pool.Available() != 2 {
		t.Errorf("Expected 2 available, got %d", pool.Available())
	}

	s, ok := pool.Acquire()
	if !ok || s.Index != 1 {
		t.Errorf("Expected slot 1 to be reused first, got %+v", s)
	}
}

// TestPoolRoundTrip verifies releasing everything restores full availability
func TestPoolRoundTrip(t *testing.T) {
	pool := NewBulletPool(TagEnemy, 5, testProto())

	for i := 0; i < 5; i++ {
		pool.Acquire()
	}
	for i := 0; i < 5; i++ {
		pool.Release(pool.Slot(i))
	}

	if pool.Active() != 0 || pool.Available() != 5 {
		t.Errorf("Expected 0 active and 5 available, got %d/%d", pool.Active(), pool.Available())
	}
	for _, s := range pool.Slots() {
		if s.Active {
			t.Errorf("Slot %d should be inactive", s.Index)
		}
	}
}

// TestPoolReleaseIgnoresForeignSlots verifies counts survive bad releases
func TestPoolReleaseIgnoresForeignSlots(t *testing.T) {
	a := NewBulletPool(TagPlayer, 2, testProto())
	b := NewBulletPool(TagEnemy, 2, testProto())

	s, _ := a.Acquire()
	other, _ := b.Acquire()

	a.Release(other)
	a.Release(nil)
	if a.Active() != 1 {
		t.Errorf("Expected 1 active after foreign release, got %d", a.Active())
	}

	a.Release(s)
	a.Release(s)
	if a.Active() != 0 {
		t.Errorf("Expected 0 active after double release, got %d", a.Active())
	}
	if b.Active() != 1 {
		t.Errorf("Foreign pool should be untouched, got %d active", b.Active())
	}
}

// TestPoolProto verifies every slot inherits the normalized prototype
func TestPoolProto(t *testing.T) {
	pool := NewBulletPool(TagPlayer, 3, BulletProto{Direction: Vec2{0, 4}, Speed: 6, Damage: 2})

	for _, s := range pool.Slots() {
		if s.Direction != (Vec2{0, 1}) {
			t.Errorf("Expected unit direction, got %+v", s.Direction)
		}
		if s.Speed != 6 || s.Damage != 2 || s.Tag != TagPlayer {
			t.Errorf("Unexpected slot %+v", s)
		}
	}
	if pool.Slot(3) != nil || pool.Slot(-1) != nil {
		t.Error("Out of range Slot should return nil")
	}
}

// TestPoolZeroSize verifies an empty pool drops every shot
func TestPoolZeroSize(t *testing.T) {
	pool := NewBulletPool(TagPlayer, 0, testProto())
	if _, ok := pool.Acquire(); ok {
		t.Error("Empty pool should never hand out a slot")
	}
	if pool.Cap() != 0 {
		t.Errorf("Expected cap 0, got %d", pool.Cap())
	}
}
