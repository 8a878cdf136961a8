package memstore

import (
	"context"
	"testing"

	"github.com/sandevgo/recallbot/internal/core"
)

func msg(id, content string, ts int64) core.Message {
	return core.Message{ID: id, Role: core.RoleUser, Content: content, Timestamp: ts}
}

func TestWindowEvictsOldestPastCapacity(t *testing.T) {
	ctx := context.Background()
	repo := NewWindowRepo(2)

	for _, m := range []core.Message{
		msg("a", "first", 1),
		msg("b", "second", 2),
		msg("c", "third", 3),
	} {
		if err := repo.Append(ctx, "user-1", m); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	window, err := repo.Window(ctx, "user-1")
	if err != nil {
		t.Fatalf("window read failed: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(window))
	}
	if window[0].ID != "c" || window[1].ID != "b" {
		t.Errorf("expected [c b] newest-first, got [%s %s]", window[0].ID, window[1].ID)
	}
	for _, m := range window {
		if m.ID == "a" {
			t.Error("oldest entry should have been evicted")
		}
		if m.Source != core.SourceWindow {
			t.Errorf("entry %s missing window source tag", m.ID)
		}
	}
}

func TestWindowAppendIsNotIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewWindowRepo(5)

	same := msg("dup", "same content", 7)
	if err := repo.Append(ctx, "user-1", same); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := repo.Append(ctx, "user-1", same); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	window, err := repo.Window(ctx, "user-1")
	if err != nil {
		t.Fatalf("window read failed: %v", err)
	}
	if len(window) != 2 {
		t.Errorf("chat log is multiset-like, expected 2 entries, got %d", len(window))
	}
}

func TestWindowEmptyForUnknownUser(t *testing.T) {
	repo := NewWindowRepo(3)

	window, err := repo.Window(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 0 {
		t.Errorf("expected empty window, got %d entries", len(window))
	}
}

func TestWindowClearAndUserIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewWindowRepo(3)

	if err := repo.Append(ctx, "alice", msg("a1", "hi", 1)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append(ctx, "bob", msg("b1", "yo", 1)); err != nil {
		t.Fatal(err)
	}

	if err := repo.Clear(ctx, "alice"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	aliceWindow, _ := repo.Window(ctx, "alice")
	if len(aliceWindow) != 0 {
		t.Errorf("expected alice's window cleared, got %d entries", len(aliceWindow))
	}

	bobWindow, _ := repo.Window(ctx, "bob")
	if len(bobWindow) != 1 {
		t.Errorf("clear must not touch other users, bob has %d entries", len(bobWindow))
	}
}

func TestWindowReadDoesNotAliasStore(t *testing.T) {
	ctx := context.Background()
	repo := NewWindowRepo(3)

	if err := repo.Append(ctx, "alice", msg("a1", "hi", 1)); err != nil {
		t.Fatal(err)
	}

	window, _ := repo.Window(ctx, "alice")
	window[0].Content = "mutated"

	again, _ := repo.Window(ctx, "alice")
	if again[0].Content != "hi" {
		t.Error("caller mutation leaked into the store")
	}
}
