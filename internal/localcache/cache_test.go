package localcache

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGetMissingKeyLeavesDefault(t *testing.T) {
	c := newTestCache(t)

	out := []string{}
	if c.Get("withdrawals", &out) {
		t.Fatal("expected Get to report absent for an unset key")
	}
	if len(out) != 0 {
		t.Fatalf("expected default to be untouched, got %v", out)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)

	type rec struct {
		ID  string `json:"id"`
		Qty int    `json:"qty"`
	}
	in := []rec{{ID: "w-1", Qty: 5}, {ID: "w-2", Qty: 2}}
	c.Set("withdrawals", in)

	var out []rec
	if !c.Get("withdrawals", &out) {
		t.Fatal("expected Get to find the stored value")
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestSetOverwritesWholesale(t *testing.T) {
	c := newTestCache(t)

	c.Set("medicines", []int{1, 2, 3})
	c.Set("medicines", []int{9})

	var out []int
	if !c.Get("medicines", &out) {
		t.Fatal("expected stored value")
	}
	if len(out) != 1 || out[0] != 9 {
		t.Fatalf("expected wholesale overwrite, got %v", out)
	}
}

func TestGetCorruptValueTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, keyPrefix+"orders.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	var out []int
	if c.Get("orders", &out) {
		t.Fatal("expected corrupt content to be treated as absent")
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	c1, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c1.Set("tasks", map[string]string{"a": "b"})

	c2, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var out map[string]string
	if !c2.Get("tasks", &out) || out["a"] != "b" {
		t.Fatalf("expected value to survive reopen, got %v", out)
	}
}
