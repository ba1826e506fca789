package strata

import (
	"testing"
)

func newSubsetParent() *BaseConfiguration {
	parent := NewBaseConfiguration()
	parent.SetProperty("db.host", "localhost")
	parent.SetProperty("db.port", 5432)
	parent.SetProperty("db.pool.size", 10)
	parent.SetProperty("app.name", "strata")
	return parent
}

func TestSubsetRead(t *testing.T) {
	parent := newSubsetParent()
	subset := parent.Subset("db")

	if value := subset.GetString("host"); value != "localhost" {
		t.Errorf("Expected 'localhost', got '%s'", value)
	}
	if value := subset.GetInt("port"); value != 5432 {
		t.Errorf("Expected 5432, got %d", value)
	}
	if value := subset.GetInt("pool.size"); value != 10 {
		t.Errorf("Expected 10, got %d", value)
	}
	if subset.ContainsKey("app.name") {
		t.Error("Keys outside the prefix must be invisible")
	}
}

func TestSubsetKeys(t *testing.T) {
	parent := newSubsetParent()
	subset := parent.Subset("db")

	keys := subset.Keys()
	expected := map[string]bool{"host": true, "port": true, "pool.size": true}
	if len(keys) != len(expected) {
		t.Fatalf("Expected %d keys, got %d: %v", len(expected), len(keys), keys)
	}
	for _, key := range keys {
		if !expected[key] {
			t.Errorf("Unexpected key '%s'", key)
		}
	}
}

func TestSubsetWritesReachParent(t *testing.T) {
	parent := newSubsetParent()
	subset := parent.Subset("db")

	subset.SetProperty("host", "db.internal")
	if value := parent.GetString("db.host"); value != "db.internal" {
		t.Errorf("Expected 'db.internal' in the parent, got '%s'", value)
	}

	subset.AddProperty("replicas", "r1")
	if !parent.ContainsKey("db.replicas") {
		t.Error("AddProperty should create the key in the parent")
	}

	subset.ClearProperty("port")
	if parent.ContainsKey("db.port") {
		t.Error("ClearProperty should remove the key from the parent")
	}
}

func TestSubsetClear(t *testing.T) {
	parent := newSubsetParent()
	subset := parent.Subset("db")

	subset.Clear()

	if !subset.IsEmpty() {
		t.Error("Subset should be empty")
	}
	if value := parent.GetString("app.name"); value != "strata" {
		t.Error("Keys outside the prefix must survive")
	}
}

func TestSubsetOfSubset(t *testing.T) {
	parent := newSubsetParent()
	pool := parent.Subset("db").Subset("pool")

	if value := pool.GetInt("size"); value != 10 {
		t.Errorf("Expected 10, got %d", value)
	}
}

func TestSubsetInterpolatesAgainstParent(t *testing.T) {
	parent := NewBaseConfiguration()
	parent.SetProperty("domain", "example.org")
	parent.SetProperty("mail.server", "smtp.${domain}")

	subset := parent.Subset("mail")
	if value := subset.GetString("server"); value != "smtp.example.org" {
		t.Errorf("Expected 'smtp.example.org', got '%s'", value)
	}
}

func TestSubsetEmptyPrefixMirrorsParent(t *testing.T) {
	parent := newSubsetParent()
	mirror := NewSubsetConfiguration(parent, "")

	if value := mirror.GetString("app.name"); value != "strata" {
		t.Errorf("Expected 'strata', got '%s'", value)
	}
	if len(mirror.Keys()) != len(parent.Keys()) {
		t.Error("Empty prefix should expose every parent key")
	}
}

func TestImmutableView(t *testing.T) {
	parent := NewBaseConfiguration()
	parent.SetProperty("key", "value")

	view := Immutable(parent)
	if value := view.GetString("key"); value != "value" {
		t.Errorf("Expected 'value', got '%s'", value)
	}
	if view.Size() != 1 {
		t.Errorf("Expected size 1, got %d", view.Size())
	}

	// Later writes through the original remain visible
	parent.SetProperty("key", "changed")
	if value := view.GetString("key"); value != "changed" {
		t.Errorf("Expected 'changed', got '%s'", value)
	}
}
