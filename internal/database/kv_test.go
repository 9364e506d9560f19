package database

import (
	"errors"
	"testing"

	"examtrack/internal/config"
)

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	_, ok, err := kv.Get("missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() on empty store reported a value")
	}

	if err := kv.Set("study-statistics", "payload"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, ok, err := kv.Get("study-statistics")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || value != "payload" {
		t.Errorf("Get() = %q, %v, want %q, true", value, ok, "payload")
	}

	if err := kv.Set("study-statistics", "replaced"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	value, _, _ = kv.Get("study-statistics")
	if value != "replaced" {
		t.Errorf("Get() after overwrite = %q, want %q", value, "replaced")
	}

	if err := kv.Remove("study-statistics"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	_, ok, _ = kv.Get("study-statistics")
	if ok {
		t.Error("Get() after Remove() reported a value")
	}

	// Removing an absent key is not an error
	if err := kv.Remove("study-statistics"); err != nil {
		t.Errorf("Remove() on absent key error = %v", err)
	}
}

func TestMemoryKVFailWrites(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set("study-statistics", "before"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	injected := errors.New("disk full")
	kv.FailWrites(injected)

	if err := kv.Set("study-statistics", "after"); !errors.Is(err, injected) {
		t.Errorf("Set() error = %v, want %v", err, injected)
	}
	if err := kv.Remove("study-statistics"); !errors.Is(err, injected) {
		t.Errorf("Remove() error = %v, want %v", err, injected)
	}

	// Reads keep working and the failed write left the old value alone
	value, ok, err := kv.Get("study-statistics")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || value != "before" {
		t.Errorf("Get() = %q, %v, want %q, true", value, ok, "before")
	}

	kv.FailWrites(nil)
	if err := kv.Set("study-statistics", "after"); err != nil {
		t.Errorf("Set() after clearing failure error = %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		kv, err := Open(&config.Config{DatabaseType: "memory"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer kv.Close()
		if _, isMemory := kv.(*MemoryKV); !isMemory {
			t.Errorf("Open() returned %T, want *MemoryKV", kv)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Open(&config.Config{DatabaseType: "cassandra"})
		if err == nil {
			t.Fatal("Open() with unsupported type did not fail")
		}
	})
}
