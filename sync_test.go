package strata

import (
	"fmt"
	"sync"
	"testing"
)

func TestSynchronizedDelegates(t *testing.T) {
	inner := NewBaseConfiguration()
	inner.SetProperty("key", "value")

	config := Synchronized(inner)
	if value := config.GetString("key"); value != "value" {
		t.Errorf("Expected 'value', got '%s'", value)
	}

	config.SetProperty("other", 42)
	if value := inner.GetInt("other"); value != 42 {
		t.Errorf("Writes should reach the decorated configuration, got %d", value)
	}

	if config.Unwrap() != Configuration(inner) {
		t.Error("Unwrap should return the decorated configuration")
	}
}

func TestSynchronizedIdempotent(t *testing.T) {
	config := Synchronized(NewBaseConfiguration())
	if Synchronized(config) != config {
		t.Error("Wrapping twice should return the same decorator")
	}
}

func TestSynchronizedConcurrentAccess(t *testing.T) {
	config := Synchronized(NewBaseConfiguration())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				config.SetProperty(fmt.Sprintf("writer.%d", n), j)
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				config.GetInt(fmt.Sprintf("writer.%d", n))
				config.Keys()
			}
		}(i)
	}
	wg.Wait()

	if config.Size() != 8 {
		t.Errorf("Expected 8 keys, got %d", config.Size())
	}
}

func TestSynchronizedExplicitLocking(t *testing.T) {
	config := Synchronized(NewBaseConfiguration())
	config.SetProperty("counter", 1)

	// Compound read-modify-write under the write lock; the decorated
	// configuration is used directly to avoid re-locking
	config.LockWrite()
	inner := config.Unwrap()
	inner.SetProperty("counter", inner.GetInt("counter")+1)
	config.UnlockWrite()

	if value := config.GetInt("counter"); value != 2 {
		t.Errorf("Expected 2, got %d", value)
	}

	config.LockRead()
	a := inner.GetInt("counter")
	b := inner.GetInt("counter")
	config.UnlockRead()
	if a != b {
		t.Error("Reads under the read lock should be consistent")
	}
}

func TestSynchronizedSubset(t *testing.T) {
	config := Synchronized(NewBaseConfiguration())
	config.SetProperty("app.name", "strata")

	subset := config.Subset("app")
	if value := subset.GetString("name"); value != "strata" {
		t.Errorf("Expected 'strata', got '%s'", value)
	}
}
