package strata

// Node is one node of a hierarchical configuration. Children are ordered;
// sibling names may repeat. Nodes are not safe for concurrent mutation.
type Node struct {
	name     string
	value    interface{}
	parent   *Node
	children []*Node
}

// NewNode creates a detached node
func NewNode(name string, value interface{}) *Node {
	return &Node{name: name, value: value}
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Value() interface{} {
	return n.value
}

func (n *Node) SetValue(value interface{}) {
	n.value = value
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list
func (n *Node) Children() []*Node {
	result := make([]*Node, len(n.children))
	copy(result, n.children)
	return result
}

// ChildrenNamed returns the children carrying the given name, in order
func (n *Node) ChildrenNamed(name string) []*Node {
	var result []*Node
	for _, child := range n.children {
		if child.name == name {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

// AddChild appends a child, detaching it from any previous parent
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches a direct child
func (n *Node) RemoveChild(child *Node) bool {
	for i, candidate := range n.children {
		if candidate == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveChildren drops every child
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.parent = nil
	}
	n.children = nil
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// index returns the position of the node among same-named siblings and
// how many of them exist
func (n *Node) index() (position, total int) {
	if n.parent == nil {
		return 0, 1
	}

	position = -1
	for _, sibling := range n.parent.children {
		if sibling.name == n.name {
			if sibling == n {
				position = total
			}
			total++
		}
	}
	return position, total
}

// clone deep-copies the node and its subtree; the copy is detached
func (n *Node) clone() *Node {
	copied := &Node{name: n.name, value: n.value}
	for _, child := range n.children {
		copied.AddChild(child.clone())
	}
	return copied
}

// visit walks the subtree depth first in document order
func (n *Node) visit(fn func(node *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.visit(fn) {
			return false
		}
	}
	return true
}
