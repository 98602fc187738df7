package bridge

import (
	"testing"
)

func TestTable_Basic(t *testing.T) {
	tbl := newTable()

	c := newContext()
	h := tbl.insert(c)
	if h == 0 {
		t.Fatal("expected non-zero handle")
	}

	got, ok := tbl.get(h)
	if !ok || got != c {
		t.Fatal("get failed after insert")
	}

	removed, ok := tbl.remove(h)
	if !ok || removed != c {
		t.Fatal("remove failed")
	}
	if tbl.size() != 0 {
		t.Fatalf("expected size 0, got %d", tbl.size())
	}

	if _, ok := tbl.get(h); ok {
		t.Error("get succeeded on removed handle")
	}
	if _, ok := tbl.remove(h); ok {
		t.Error("second remove succeeded")
	}
}

func TestTable_HandleZeroInvalid(t *testing.T) {
	tbl := newTable()
	if _, ok := tbl.get(0); ok {
		t.Error("handle 0 must be invalid")
	}
	if _, ok := tbl.remove(0); ok {
		t.Error("remove of handle 0 must fail")
	}
}

func TestTable_SlotReuse(t *testing.T) {
	tbl := newTable()

	h1 := tbl.insert(newContext())
	h2 := tbl.insert(newContext())
	tbl.remove(h1)

	h3 := tbl.insert(newContext())
	if h3 != h1 {
		t.Errorf("expected freed handle %d to be reused, got %d", h1, h3)
	}
	if h3 == h2 {
		t.Error("reused handle collides with live one")
	}
}

func TestTable_Drain(t *testing.T) {
	tbl := newTable()

	for i := 0; i < 5; i++ {
		tbl.insert(newContext())
	}
	tbl.remove(3)

	live := tbl.drain()
	if len(live) != 4 {
		t.Fatalf("expected 4 drained contexts, got %d", len(live))
	}
	if tbl.size() != 0 {
		t.Fatalf("expected empty table after drain, got %d", tbl.size())
	}
}
