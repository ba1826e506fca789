package strata

import (
	"testing"
)

func TestHierarchicalAddAndGet(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("server.host", "localhost")
	config.AddProperty("server.port", 8080)

	if value := config.GetString("server.host"); value != "localhost" {
		t.Errorf("Expected 'localhost', got '%s'", value)
	}
	if value := config.GetInt("server.port"); value != 8080 {
		t.Errorf("Expected 8080, got %d", value)
	}
	if !config.ContainsKey("server.host") {
		t.Error("ContainsKey should report the key")
	}
	if config.ContainsKey("server") {
		t.Error("Intermediate nodes carry no value")
	}
}

func TestHierarchicalAddCreatesSiblings(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("tables.table.name", "users")
	config.AddProperty("tables.table.name", "orders")

	// Both names live under the same table node
	if max := config.MaxIndex("tables.table"); max != 0 {
		t.Errorf("Expected a single table node, got max index %d", max)
	}

	value, ok := config.Property("tables.table.name")
	if !ok {
		t.Fatal("Property not found")
	}
	list, ok := value.([]interface{})
	if !ok {
		t.Fatalf("Expected a list, got %T", value)
	}
	if list[0] != "users" || list[1] != "orders" {
		t.Errorf("Unexpected values: %v", list)
	}
}

func TestHierarchicalMultiNodeQuery(t *testing.T) {
	// Build two separate table subtrees through AddNodes
	first := NewNode("table", nil)
	first.AddChild(NewNode("name", "users"))
	second := NewNode("table", nil)
	second.AddChild(NewNode("name", "orders"))

	fresh := NewHierarchicalConfiguration()
	fresh.AddNodes("tables", []*Node{first, second})

	value, ok := fresh.Property("tables.table.name")
	if !ok {
		t.Fatal("Property not found")
	}
	list, ok := value.([]interface{})
	if !ok {
		t.Fatalf("Expected a list, got %T", value)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 values, got %d", len(list))
	}

	if value := fresh.GetString("tables.table(1).name"); value != "orders" {
		t.Errorf("Expected 'orders', got '%s'", value)
	}
	if max := fresh.MaxIndex("tables.table"); max != 1 {
		t.Errorf("Expected max index 1, got %d", max)
	}
}

func TestHierarchicalSetProperty(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("app.name", "original")
	config.SetProperty("app.name", "changed")

	if value := config.GetString("app.name"); value != "changed" {
		t.Errorf("Expected 'changed', got '%s'", value)
	}
	if max := config.MaxIndex("app.name"); max != 0 {
		t.Errorf("SetProperty should not create siblings, max index %d", max)
	}

	// Setting an unknown key creates it
	config.SetProperty("app.fresh", true)
	if !config.GetBool("app.fresh") {
		t.Error("Expected the new key to be set")
	}
}

func TestHierarchicalSetPropertyDistributesList(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("list.item", "a")
	config.AddProperty("list.item", "b")

	config.SetProperty("list.item", []interface{}{"x", "y", "z"})

	value, _ := config.Property("list.item")
	list, ok := value.([]interface{})
	if !ok {
		t.Fatalf("Expected a list, got %T", value)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(list))
	}
	if list[0] != "x" || list[2] != "z" {
		t.Errorf("Unexpected values: %v", list)
	}
}

func TestHierarchicalClearTree(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("a.b.c", 1)
	config.AddProperty("a.b.d", 2)
	config.AddProperty("a.x", 3)

	config.ClearTree("a.b")

	if config.ContainsKey("a.b.c") || config.ContainsKey("a.b.d") {
		t.Error("Subtree should be gone")
	}
	if !config.ContainsKey("a.x") {
		t.Error("Sibling should survive")
	}
}

func TestHierarchicalClearPropertyKeepsChildren(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("node", "value")
	config.AddProperty("node.child", "child-value")

	config.ClearProperty("node")

	if config.ContainsKey("node") {
		t.Error("Value should be cleared")
	}
	if !config.ContainsKey("node.child") {
		t.Error("Children must survive ClearProperty")
	}
}

func TestHierarchicalKeys(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("tables.table.name", "users")
	config.AddProperty("tables.table.fields.field", "id")
	config.AddProperty("tables.table.fields.field", "login")

	keys := config.Keys()
	expected := map[string]bool{
		"tables.table.name":            true,
		"tables.table.fields.field(0)": true,
		"tables.table.fields.field(1)": true,
	}
	if len(keys) != len(expected) {
		t.Fatalf("Expected %d keys, got %d: %v", len(expected), len(keys), keys)
	}
	for _, key := range keys {
		if !expected[key] {
			t.Errorf("Unexpected key '%s'", key)
		}
	}
}

func TestHierarchicalSection(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("database.connection.host", "db1")
	config.AddProperty("database.connection.port", 5432)

	section := config.Section("database.connection")
	if value := section.GetString("host"); value != "db1" {
		t.Errorf("Expected 'db1', got '%s'", value)
	}
	if value := section.GetInt("port"); value != 5432 {
		t.Errorf("Expected 5432, got %d", value)
	}

	// Writes through the section are visible in the parent
	section.SetProperty("host", "db2")
	if value := config.GetString("database.connection.host"); value != "db2" {
		t.Errorf("Expected 'db2' through the parent, got '%s'", value)
	}

	// A missing key yields an empty detached section
	empty := config.Section("no.such.node")
	if !empty.IsEmpty() {
		t.Error("Expected an empty section")
	}
	empty.SetProperty("key", "value")
	if config.ContainsKey("no.such.node.key") {
		t.Error("Detached section must not write into the parent")
	}
}

func TestHierarchicalSections(t *testing.T) {
	config := NewHierarchicalConfiguration()

	first := NewNode("endpoint", nil)
	first.AddChild(NewNode("url", "https://a"))
	second := NewNode("endpoint", nil)
	second.AddChild(NewNode("url", "https://b"))
	config.AddNodes("service", []*Node{first, second})

	sections := config.Sections("service.endpoint")
	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if value := sections[0].GetString("url"); value != "https://a" {
		t.Errorf("Expected 'https://a', got '%s'", value)
	}
	if value := sections[1].GetString("url"); value != "https://b" {
		t.Errorf("Expected 'https://b', got '%s'", value)
	}
}

func TestHierarchicalListDelimiterSplitting(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("tags", "a,b,c")

	if max := config.MaxIndex("tags"); max != 2 {
		t.Errorf("Expected 3 tag nodes, got max index %d", max)
	}

	tags := config.GetStringSlice("tags")
	if len(tags) != 3 {
		t.Fatalf("Expected 3 tags, got %d", len(tags))
	}
}

func TestHierarchicalMapRoundTrip(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.setFromMap(map[string]interface{}{
		"server": map[string]interface{}{
			"host": "localhost",
			"port": 8080,
		},
		"tags": []interface{}{"a", "b"},
	})

	if value := config.GetString("server.host"); value != "localhost" {
		t.Errorf("Expected 'localhost', got '%s'", value)
	}
	if value := config.GetInt("server.port"); value != 8080 {
		t.Errorf("Expected 8080, got %d", value)
	}

	data := config.toMap()
	server, ok := data["server"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected nested map, got %T", data["server"])
	}
	if server["host"] != "localhost" {
		t.Errorf("Expected 'localhost', got '%v'", server["host"])
	}
	tags, ok := data["tags"].([]interface{})
	if !ok {
		t.Fatalf("Expected a list, got %T", data["tags"])
	}
	if len(tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(tags))
	}
}

func TestHierarchicalSubset(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("app.server.host", "localhost")
	config.AddProperty("app.server.port", 8080)

	subset := config.Subset("app.server")
	if value := subset.GetString("host"); value != "localhost" {
		t.Errorf("Expected 'localhost', got '%s'", value)
	}

	keys := subset.Keys()
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys, got %d: %v", len(keys), keys)
	}
}

func TestHierarchicalClear(t *testing.T) {
	config := NewHierarchicalConfiguration()
	config.AddProperty("a.b", 1)
	config.Clear()

	if !config.IsEmpty() {
		t.Error("Configuration should be empty")
	}
	if config.Root() == nil {
		t.Error("Root must exist after Clear")
	}
}
