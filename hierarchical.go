package strata

import (
	"sort"
	"strings"
)

// HierarchicalConfiguration stores properties in a node tree addressed by
// path expressions. A key may select several nodes at once; reading such
// a key yields the list of their values.
type HierarchicalConfiguration struct {
	getters
	events EventSource

	root          *Node
	engine        ExpressionEngine
	interp        *Interpolator
	listDelimiter string
}

var _ Configuration = (*HierarchicalConfiguration)(nil)

// NewHierarchicalConfiguration creates an empty hierarchical
// configuration using the default expression engine
func NewHierarchicalConfiguration() *HierarchicalConfiguration {
	c := &HierarchicalConfiguration{
		root:          NewNode("", nil),
		engine:        NewDefaultExpressionEngine(),
		listDelimiter: DefaultListDelimiter,
		interp:        NewInterpolator(),
	}
	c.getters.owner = c
	c.interp.setConfig(c)
	return c
}

// Root exposes the root node of the tree
func (c *HierarchicalConfiguration) Root() *Node {
	return c.root
}

// ExpressionEngine returns the engine resolving keys for this
// configuration
func (c *HierarchicalConfiguration) ExpressionEngine() ExpressionEngine {
	return c.engine
}

func (c *HierarchicalConfiguration) SetExpressionEngine(engine ExpressionEngine) {
	c.engine = engine
}

func (c *HierarchicalConfiguration) Property(key string) (interface{}, bool) {
	var values []interface{}
	for _, node := range c.engine.Query(c.root, key) {
		if node.Value() != nil {
			values = append(values, node.Value())
		}
	}

	switch len(values) {
	case 0:
		return nil, false
	case 1:
		return values[0], true
	}
	return values, true
}

func (c *HierarchicalConfiguration) Keys() []string {
	var result []string
	seen := make(map[string]bool)
	c.root.visit(func(node *Node) bool {
		if node.Value() != nil {
			key := c.engine.NodeKey(node)
			if !seen[key] {
				seen[key] = true
				result = append(result, key)
			}
		}
		return true
	})
	return result
}

// MaxIndex returns the highest index addressable for a key, -1 when the
// key matches nothing
func (c *HierarchicalConfiguration) MaxIndex(key string) int {
	return len(c.engine.Query(c.root, key)) - 1
}

// AddProperty always creates new nodes; adding an existing key produces
// a sibling
func (c *HierarchicalConfiguration) AddProperty(key string, value interface{}) {
	c.events.fire(EventAddProperty, key, value, true, c)
	c.addPropertyDirect(key, value)
	c.events.fire(EventAddProperty, key, value, false, c)
}

func (c *HierarchicalConfiguration) addPropertyDirect(key string, value interface{}) {
	for _, element := range splitConfigValue(value, c.listDelimiter) {
		parent, names, err := c.engine.PrepareAdd(c.root, key)
		if err != nil {
			c.events.fireError(EventAddProperty, key, err, c)
			return
		}
		node := parent
		for _, name := range names {
			child := NewNode(name, nil)
			node.AddChild(child)
			node = child
		}
		node.SetValue(element)
	}
}

// SetProperty replaces the values of the nodes the key selects. List
// values are distributed across the selected nodes; surplus values create
// siblings, surplus nodes lose their value.
func (c *HierarchicalConfiguration) SetProperty(key string, value interface{}) {
	c.events.fire(EventSetProperty, key, value, true, c)

	values := splitConfigValue(value, c.listDelimiter)
	nodes := c.engine.Query(c.root, key)

	i := 0
	for ; i < len(nodes) && i < len(values); i++ {
		nodes[i].SetValue(values[i])
	}
	for ; i < len(values); i++ {
		c.addPropertyDirect(key, values[i])
	}
	for ; i < len(nodes); i++ {
		nodes[i].SetValue(nil)
	}

	c.events.fire(EventSetProperty, key, value, false, c)
}

// AddNodes grafts subtrees beneath the node the key selects, creating it
// when missing
func (c *HierarchicalConfiguration) AddNodes(key string, nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	c.events.fire(EventAddNodes, key, nodes, true, c)

	target := c.nodeForKey(key)
	if target == nil {
		c.events.fireError(EventAddNodes, key, &MissingKeyError{Key: key}, c)
		return
	}
	for _, node := range nodes {
		target.AddChild(node)
	}

	c.events.fire(EventAddNodes, key, nodes, false, c)
}

// nodeForKey returns the single node for a key, creating the path when it
// does not exist yet
func (c *HierarchicalConfiguration) nodeForKey(key string) *Node {
	if matches := c.engine.Query(c.root, key); len(matches) > 0 {
		return matches[0]
	}

	parent, names, err := c.engine.PrepareAdd(c.root, key)
	if err != nil {
		return nil
	}
	node := parent
	for _, name := range names {
		child := NewNode(name, nil)
		node.AddChild(child)
		node = child
	}
	return node
}

// ClearProperty removes the values of the selected nodes but keeps their
// subtrees
func (c *HierarchicalConfiguration) ClearProperty(key string) {
	c.events.fire(EventClearProperty, key, nil, true, c)
	for _, node := range c.engine.Query(c.root, key) {
		node.SetValue(nil)
	}
	c.events.fire(EventClearProperty, key, nil, false, c)
}

// ClearTree removes the selected nodes together with their subtrees
func (c *HierarchicalConfiguration) ClearTree(key string) {
	c.events.fire(EventClearTree, key, nil, true, c)
	for _, node := range c.engine.Query(c.root, key) {
		if parent := node.Parent(); parent != nil {
			parent.RemoveChild(node)
		}
	}
	c.events.fire(EventClearTree, key, nil, false, c)
}

func (c *HierarchicalConfiguration) Clear() {
	c.events.fire(EventClear, "", nil, true, c)
	c.root = NewNode("", nil)
	c.events.fire(EventClear, "", nil, false, c)
}

// Section returns a configuration rooted at the first node the key
// selects. The section shares nodes with its parent, so writes are
// visible through both. A missing key yields an empty detached section.
func (c *HierarchicalConfiguration) Section(key string) *HierarchicalConfiguration {
	matches := c.engine.Query(c.root, key)
	if len(matches) == 0 {
		return NewHierarchicalConfiguration()
	}
	return c.sectionAt(matches[0])
}

// Sections returns one shared-root configuration per node the key
// selects
func (c *HierarchicalConfiguration) Sections(key string) []*HierarchicalConfiguration {
	matches := c.engine.Query(c.root, key)
	result := make([]*HierarchicalConfiguration, len(matches))
	for i, node := range matches {
		result[i] = c.sectionAt(node)
	}
	return result
}

func (c *HierarchicalConfiguration) sectionAt(node *Node) *HierarchicalConfiguration {
	section := &HierarchicalConfiguration{
		root:          node,
		engine:        c.engine,
		listDelimiter: c.listDelimiter,
		interp:        c.interp,
	}
	section.getters.owner = section
	return section
}

func (c *HierarchicalConfiguration) Subset(prefix string) Configuration {
	return NewSubsetConfiguration(c, prefix)
}

func (c *HierarchicalConfiguration) Interpolator() *Interpolator {
	return c.interp
}

func (c *HierarchicalConfiguration) Events() *EventSource {
	return &c.events
}

func (c *HierarchicalConfiguration) ListDelimiter() string {
	return c.listDelimiter
}

func (c *HierarchicalConfiguration) SetListDelimiter(delimiter string) {
	c.listDelimiter = delimiter
}

// CloneTree returns a deep copy of the whole tree
func (c *HierarchicalConfiguration) CloneTree() *Node {
	return c.root.clone()
}

// setFromMap replaces the tree content with an expanded nested map
func (c *HierarchicalConfiguration) setFromMap(data map[string]interface{}) {
	c.root = NewNode("", nil)
	expandMap(c.root, data)
}

// toMap collapses the tree back into a nested map
func (c *HierarchicalConfiguration) toMap() map[string]interface{} {
	return collapseNode(c.root)
}

// expandMap builds children for every entry of a nested map. Map keys are
// sorted so the resulting tree is deterministic.
func expandMap(parent *Node, data map[string]interface{}) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expandValue(parent, key, data[key])
	}
}

func expandValue(parent *Node, name string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		child := NewNode(name, nil)
		parent.AddChild(child)
		expandMap(child, v)
	case []interface{}:
		for _, element := range v {
			expandValue(parent, name, element)
		}
	default:
		child := NewNode(name, v)
		parent.AddChild(child)
	}
}

// collapseNode reverses expandMap: leaves become scalars, repeated names
// become lists
func collapseNode(node *Node) map[string]interface{} {
	result := make(map[string]interface{})
	for _, child := range node.Children() {
		var value interface{}
		if child.IsLeaf() {
			value = child.Value()
		} else {
			value = collapseNode(child)
		}

		existing, ok := result[child.Name()]
		if !ok {
			result[child.Name()] = value
			continue
		}
		if list, isList := existing.([]interface{}); isList {
			result[child.Name()] = append(list, value)
		} else {
			result[child.Name()] = []interface{}{existing, value}
		}
	}
	return result
}

// splitConfigValue listifies a value the same way BaseConfiguration does
func splitConfigValue(value interface{}, delimiter string) []interface{} {
	switch v := value.(type) {
	case string:
		if delimiter != "" && strings.Contains(v, delimiter) {
			parts := splitList(v, delimiter)
			result := make([]interface{}, len(parts))
			for i, part := range parts {
				result[i] = part
			}
			return result
		}
	case []string:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result
	case []interface{}:
		return v
	}
	return []interface{}{value}
}
