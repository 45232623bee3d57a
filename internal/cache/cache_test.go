package cache

import (
	"testing"
	"time"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

func freshFunko(id int) model.Funko {
	return model.Funko{ID: id, Name: "funko", UpdatedAt: time.Now()}
}

func TestGetMiss(t *testing.T) {
	c := New(3, time.Minute)

	if _, ok := c.Get(42); ok {
		t.Error("Get() reported a hit on an empty cache")
	}
}

func TestPutGet(t *testing.T) {
	c := New(3, time.Minute)

	c.Put(1, freshFunko(1))
	f, ok := c.Get(1)
	if !ok {
		t.Fatal("Get() missed after Put()")
	}
	if f.ID != 1 {
		t.Errorf("Get() ID = %d, want 1", f.ID)
	}
}

func TestPutOverwrite(t *testing.T) {
	c := New(3, time.Minute)

	c.Put(1, freshFunko(1))
	updated := freshFunko(1)
	updated.Name = "renamed"
	c.Put(1, updated)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d after overwrite, want 1", c.Len())
	}
	f, _ := c.Get(1)
	if f.Name != "renamed" {
		t.Errorf("Get() Name = %q, want %q", f.Name, "renamed")
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New(3, time.Minute)

	for id := 1; id <= 4; id++ {
		c.Put(id, freshFunko(id))
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d after inserting 4 into capacity 3, want 3", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("least recently touched entry 1 should have been evicted")
	}
	for id := 2; id <= 4; id++ {
		if _, ok := c.Get(id); !ok {
			t.Errorf("entry %d should have survived", id)
		}
	}
}

func TestGetProtectsFromEviction(t *testing.T) {
	c := New(3, time.Minute)

	for id := 1; id <= 3; id++ {
		c.Put(id, freshFunko(id))
	}

	// Touching 1 makes 2 the eviction candidate.
	if _, ok := c.Get(1); !ok {
		t.Fatal("Get(1) missed")
	}
	c.Put(4, freshFunko(4))

	if _, ok := c.Get(1); !ok {
		t.Error("entry 1 was evicted despite being recently touched")
	}
	if _, ok := c.Get(2); ok {
		t.Error("entry 2 should have been evicted")
	}
}

func TestRemove(t *testing.T) {
	c := New(3, time.Minute)

	c.Put(1, freshFunko(1))
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Error("Get() hit after Remove()")
	}

	// Removing an absent key is a no-op.
	c.Remove(99)
}

func TestClear(t *testing.T) {
	c := New(3, time.Minute)

	for id := 1; id <= 3; id++ {
		c.Put(id, freshFunko(id))
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", c.Len())
	}
}

func TestEvictStale(t *testing.T) {
	c := New(10, time.Minute)

	old := freshFunko(1)
	old.UpdatedAt = time.Now().Add(-2 * time.Minute)
	c.Put(1, old)
	c.Put(2, freshFunko(2))

	c.evictStale(time.Now())

	if _, ok := c.Get(1); ok {
		t.Error("stale entry 1 survived the sweep")
	}
	if _, ok := c.Get(2); !ok {
		t.Error("fresh entry 2 was swept despite being under max age")
	}
}

func TestSweeperRemovesStaleEntries(t *testing.T) {
	c := New(10, 10*time.Millisecond)
	c.StartSweeper(5 * time.Millisecond)
	defer c.Shutdown()

	f := freshFunko(1)
	f.UpdatedAt = time.Now().Add(-time.Second)
	c.Put(1, f)

	deadline := time.After(time.Second)
	for {
		if _, ok := c.Get(1); !ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("sweeper never removed the stale entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	c := New(3, time.Minute)
	c.Shutdown()
	c.Shutdown()
}
