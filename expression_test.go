package strata

import (
	"testing"
)

// buildTableTree creates the canonical test tree:
//
//	tables
//	  table (name=users, fields: id, name)
//	  table (name=orders, fields: id, total)
func buildTableTree() *Node {
	root := NewNode("", nil)
	tables := NewNode("tables", nil)
	root.AddChild(tables)

	users := NewNode("table", nil)
	users.AddChild(NewNode("name", "users"))
	users.AddChild(NewNode("field", "id"))
	users.AddChild(NewNode("field", "name"))
	tables.AddChild(users)

	orders := NewNode("table", nil)
	orders.AddChild(NewNode("name", "orders"))
	orders.AddChild(NewNode("field", "id"))
	orders.AddChild(NewNode("field", "total"))
	tables.AddChild(orders)

	return root
}

func TestExpressionEngineQuery(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	nodes := engine.Query(root, "tables.table")
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 table nodes, got %d", len(nodes))
	}

	nodes = engine.Query(root, "tables.table.name")
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 name nodes, got %d", len(nodes))
	}
	if nodes[0].Value() != "users" || nodes[1].Value() != "orders" {
		t.Errorf("Unexpected values: %v, %v", nodes[0].Value(), nodes[1].Value())
	}
}

func TestExpressionEngineIndexSelector(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	nodes := engine.Query(root, "tables.table(1).name")
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Value() != "orders" {
		t.Errorf("Expected 'orders', got '%v'", nodes[0].Value())
	}

	nodes = engine.Query(root, "tables.table(0).field")
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(nodes))
	}

	if nodes := engine.Query(root, "tables.table(5)"); nodes != nil {
		t.Errorf("Out of range index should match nothing, got %d nodes", len(nodes))
	}
}

func TestExpressionEngineMissingPath(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	if nodes := engine.Query(root, "tables.missing.name"); nodes != nil {
		t.Errorf("Expected no match, got %d nodes", len(nodes))
	}
}

func TestExpressionEngineEmptyKeySelectsRoot(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	nodes := engine.Query(root, "")
	if len(nodes) != 1 || nodes[0] != root {
		t.Error("Empty key should select the root node")
	}
}

func TestExpressionEngineEscapedDelimiter(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := NewNode("", nil)
	child := NewNode("my.key", "dotted")
	root.AddChild(child)

	nodes := engine.Query(root, "my..key")
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Value() != "dotted" {
		t.Errorf("Expected 'dotted', got '%v'", nodes[0].Value())
	}

	if key := engine.NodeKey(child); key != "my..key" {
		t.Errorf("Expected escaped key 'my..key', got '%s'", key)
	}
}

func TestExpressionEngineNodeKey(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	tables := engine.Query(root, "tables")[0]
	if key := engine.NodeKey(tables); key != "tables" {
		t.Errorf("Expected 'tables', got '%s'", key)
	}

	second := engine.Query(root, "tables.table(1)")[0]
	if key := engine.NodeKey(second); key != "tables.table(1)" {
		t.Errorf("Expected 'tables.table(1)', got '%s'", key)
	}

	name := engine.Query(root, "tables.table(0).name")[0]
	if key := engine.NodeKey(name); key != "tables.table(0).name" {
		t.Errorf("Expected 'tables.table(0).name', got '%s'", key)
	}

	if key := engine.NodeKey(root); key != "" {
		t.Errorf("Root key should be empty, got '%s'", key)
	}
}

func TestExpressionEnginePrepareAdd(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	// Existing path: only the last segment is new
	parent, names, err := engine.PrepareAdd(root, "tables.table.comment")
	if err != nil {
		t.Fatalf("PrepareAdd failed: %v", err)
	}
	if len(names) != 1 || names[0] != "comment" {
		t.Errorf("Expected names [comment], got %v", names)
	}
	// The last matching table node is chosen
	if parent.ChildrenNamed("name")[0].Value() != "orders" {
		t.Error("Expected the last existing 'table' node as parent")
	}

	// Fully new path
	parent, names, err = engine.PrepareAdd(root, "settings.cache.ttl")
	if err != nil {
		t.Fatalf("PrepareAdd failed: %v", err)
	}
	if parent != root {
		t.Error("Expected root as parent for a fresh path")
	}
	if len(names) != 3 {
		t.Errorf("Expected 3 new names, got %v", names)
	}

	// Index selector in the middle is honored
	parent, names, err = engine.PrepareAdd(root, "tables.table(0).comment")
	if err != nil {
		t.Fatalf("PrepareAdd failed: %v", err)
	}
	if parent.ChildrenNamed("name")[0].Value() != "users" {
		t.Error("Expected the first 'table' node as parent")
	}

	// Index selector on the final segment is invalid
	if _, _, err := engine.PrepareAdd(root, "tables.table(0)"); err == nil {
		t.Error("Expected an error for an index on the last segment")
	}

	// Out of range intermediate index is invalid
	if _, _, err := engine.PrepareAdd(root, "tables.table(9).comment"); err == nil {
		t.Error("Expected an error for an out of range index")
	}
}

func TestExpressionEngineInvalidKeys(t *testing.T) {
	engine := NewDefaultExpressionEngine()
	root := buildTableTree()

	if nodes := engine.Query(root, "tables.table(x).name"); nodes != nil {
		t.Error("Invalid index should match nothing")
	}
	if nodes := engine.Query(root, "tables.table(-1).name"); nodes != nil {
		t.Error("Negative index should match nothing")
	}
}

func TestNodeBasics(t *testing.T) {
	parent := NewNode("parent", nil)
	child := NewNode("child", "value")
	parent.AddChild(child)

	if child.Parent() != parent {
		t.Error("Parent not set")
	}
	if parent.ChildCount() != 1 {
		t.Errorf("Expected 1 child, got %d", parent.ChildCount())
	}
	if child.IsLeaf() != true {
		t.Error("Child should be a leaf")
	}

	if !parent.RemoveChild(child) {
		t.Error("RemoveChild should succeed")
	}
	if child.Parent() != nil {
		t.Error("Parent should be cleared after removal")
	}
	if parent.RemoveChild(child) {
		t.Error("Removing twice should fail")
	}
}

func TestNodeReparenting(t *testing.T) {
	first := NewNode("first", nil)
	second := NewNode("second", nil)
	child := NewNode("child", nil)

	first.AddChild(child)
	second.AddChild(child)

	if first.ChildCount() != 0 {
		t.Error("Child should have left the first parent")
	}
	if child.Parent() != second {
		t.Error("Child should belong to the second parent")
	}
}

func TestNodeClone(t *testing.T) {
	root := buildTableTree()
	copied := root.clone()

	if copied.ChildCount() != root.ChildCount() {
		t.Error("Clone should have the same children")
	}

	// Mutating the clone must not affect the original
	engine := NewDefaultExpressionEngine()
	cloneName := engine.Query(copied, "tables.table(0).name")[0]
	cloneName.SetValue("changed")

	originalName := engine.Query(root, "tables.table(0).name")[0]
	if originalName.Value() != "users" {
		t.Errorf("Original tree was modified: %v", originalName.Value())
	}
}
