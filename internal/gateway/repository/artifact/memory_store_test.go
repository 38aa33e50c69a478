package artifact

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "p1", "BRD_dana_20260812.md", []byte("# Doc")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "p1", "BRD_dana_20260812.md")
	if err != nil || string(got) != "# Doc" {
		t.Fatalf("Get = (%q, %v)", got, err)
	}

	if _, err := s.Get(ctx, "p1", "missing.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing document: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "", "a.md"); err == nil {
		t.Fatal("blank project id must be rejected")
	}
}

func TestMemoryStoreListIsScopedAndSorted(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, "p1", "b.md", nil)
	_ = s.Put(ctx, "p1", "a.md", nil)
	_ = s.Put(ctx, "p2", "other.md", nil)

	names, err := s.List(ctx, "p1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "a.md" || names[1] != "b.md" {
		t.Fatalf("List = %v", names)
	}
}

func TestMemoryStoreCopiesContent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("original")
	_ = s.Put(ctx, "p1", "a.md", buf)
	buf[0] = 'X'
	got, _ := s.Get(ctx, "p1", "a.md")
	if string(got) != "original" {
		t.Fatalf("stored content aliased caller buffer: %q", got)
	}
}
