package session_test

import (
	"context"
	"testing"
	"time"

	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
	"github.com/civisense/natlas-backend/internal/session"
)

func TestMemoryStoreSaveLoadRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	turns := []chatmodel.Turn{
		{Role: chatmodel.RoleUser, Content: "first"},
		{Role: chatmodel.RoleAssistant, Content: "second"},
	}
	if err := store.Save(ctx, "sid-1", turns, time.Minute); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, err := store.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "second" {
		t.Fatalf("turn order not preserved: %+v", got)
	}
}

func TestMemoryStoreLoadMissingReturnsEmpty(t *testing.T) {
	store := session.NewMemoryStore()

	got, err := store.Load(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	turns := []chatmodel.Turn{{Role: chatmodel.RoleUser, Content: "hello"}}
	if err := store.Save(ctx, "sid-exp", turns, 20*time.Millisecond); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	got, err := store.Load(ctx, "sid-exp")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired entry to load empty, got %+v", got)
	}
}

func TestMemoryStoreSaveSlidesExpiry(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	turns := []chatmodel.Turn{{Role: chatmodel.RoleUser, Content: "hello"}}
	if err := store.Save(ctx, "sid-slide", turns, 30*time.Millisecond); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := store.Save(ctx, "sid-slide", turns, 30*time.Millisecond); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	got, err := store.Load(ctx, "sid-slide")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(got) != 1 {
		t.Fatal("expected refreshed entry to still be present")
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	if err := store.Delete(ctx, "not-there"); err != nil {
		t.Fatalf("Delete on missing id err: %v", err)
	}

	turns := []chatmodel.Turn{{Role: chatmodel.RoleUser, Content: "hello"}}
	if err := store.Save(ctx, "sid-del", turns, time.Minute); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Delete(ctx, "sid-del"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if err := store.Delete(ctx, "sid-del"); err != nil {
		t.Fatalf("second Delete err: %v", err)
	}

	got, err := store.Load(ctx, "sid-del")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected deleted entry to load empty, got %+v", got)
	}
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	turns := []chatmodel.Turn{{Role: chatmodel.RoleUser, Content: "original"}}
	if err := store.Save(ctx, "sid-copy", turns, time.Minute); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	first, _ := store.Load(ctx, "sid-copy")
	first[0].Content = "mutated"

	second, _ := store.Load(ctx, "sid-copy")
	if second[0].Content != "original" {
		t.Fatal("stored history must not observe caller mutations")
	}
}
