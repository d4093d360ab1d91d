package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/buxiq/internal/config"
	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
)

func openTemp(t *testing.T) (*Slot, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	slot, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = slot.Close() })
	return slot, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	_, path := openTemp(t)
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected state directory, got %v", err)
	}
}

func TestSlotLifecycle(t *testing.T) {
	slot, _ := openTemp(t)
	ctx := context.Background()

	if _, err := slot.Load(ctx); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on first run, got %v", err)
	}

	if err := slot.Save(ctx, "1001"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, err := slot.Load(ctx); err != nil || got != "1001" {
		t.Fatalf("expected 1001, got %q err=%v", got, err)
	}

	if err := slot.Save(ctx, "2002"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := slot.Load(ctx); got != "2002" {
		t.Fatalf("expected overwritten account, got %q", got)
	}

	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := slot.Load(ctx); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("clearing empty slot should succeed, got %v", err)
	}
}

func TestSlotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(context.Background(), "1001"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if got, err := second.Load(context.Background()); err != nil || got != "1001" {
		t.Fatalf("expected persisted account, got %q err=%v", got, err)
	}
}

func TestEmptyValueIsNotFound(t *testing.T) {
	slot, _ := openTemp(t)
	if err := slot.Save(context.Background(), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := slot.Load(context.Background()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for empty value, got %v", err)
	}
}

func TestCloseNil(t *testing.T) {
	if err := (&Slot{}).Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModuleLifecycle(t *testing.T) {
	cfg := &config.Config{StatePath: filepath.Join(t.TempDir(), "state.db")}
	slot, err := newSlot(cfg)
	if err != nil {
		t.Fatalf("newSlot: %v", err)
	}

	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, slot)
	lc.RequireStart()
	lc.RequireStop()

	if err := slot.Save(context.Background(), "1001"); err == nil {
		t.Fatal("expected error after close")
	}
}
