package strata

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpressionEngine resolves path expressions against a node tree
type ExpressionEngine interface {
	// Query returns every node the key selects, in document order
	Query(root *Node, key string) []*Node
	// NodeKey builds the canonical key for a node, decorating segments
	// with an index wherever sibling names repeat
	NodeKey(node *Node) string
	// PrepareAdd locates the parent for a new property and the chain of
	// node names that must be created beneath it. The last name is always
	// created, so adding the same key twice yields siblings.
	PrepareAdd(root *Node, key string) (parent *Node, names []string, err error)
}

// DefaultExpressionEngine implements the dotted path syntax: segments
// separated by ".", an optional 0-based index selector "name(2)", and a
// doubled delimiter ".." escaping a literal dot inside a segment.
type DefaultExpressionEngine struct {
	Delimiter  string
	IndexStart string
	IndexEnd   string
}

// NewDefaultExpressionEngine returns the engine with the standard syntax
func NewDefaultExpressionEngine() *DefaultExpressionEngine {
	return &DefaultExpressionEngine{
		Delimiter:  ".",
		IndexStart: "(",
		IndexEnd:   ")",
	}
}

type pathSegment struct {
	name     string
	index    int
	hasIndex bool
}

func (e *DefaultExpressionEngine) Query(root *Node, key string) []*Node {
	segments, err := e.parse(key)
	if err != nil {
		return nil
	}
	if len(segments) == 0 {
		return []*Node{root}
	}

	current := []*Node{root}
	for _, segment := range segments {
		var next []*Node
		for _, node := range current {
			matches := node.ChildrenNamed(segment.name)
			if segment.hasIndex {
				if segment.index >= 0 && segment.index < len(matches) {
					next = append(next, matches[segment.index])
				}
				continue
			}
			next = append(next, matches...)
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

func (e *DefaultExpressionEngine) NodeKey(node *Node) string {
	if node == nil || node.parent == nil {
		return ""
	}

	parentKey := e.NodeKey(node.parent)
	segment := e.escape(node.name)
	if position, total := node.index(); total > 1 {
		segment += fmt.Sprintf("%s%d%s", e.IndexStart, position, e.IndexEnd)
	}

	if parentKey == "" {
		return segment
	}
	return parentKey + e.Delimiter + segment
}

func (e *DefaultExpressionEngine) PrepareAdd(root *Node, key string) (*Node, []string, error) {
	segments, err := e.parse(key)
	if err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		return nil, nil, fmt.Errorf("empty key")
	}

	// Descend along existing nodes; every segment before the last may
	// reuse the last matching child, the last segment is always new.
	parent := root
	i := 0
	for ; i < len(segments)-1; i++ {
		segment := segments[i]
		matches := parent.ChildrenNamed(segment.name)
		if segment.hasIndex {
			if segment.index < 0 || segment.index >= len(matches) {
				return nil, nil, fmt.Errorf("key %q: index %d out of range for %q", key, segment.index, segment.name)
			}
			parent = matches[segment.index]
			continue
		}
		if len(matches) == 0 {
			break
		}
		parent = matches[len(matches)-1]
	}

	if last := segments[len(segments)-1]; last.hasIndex {
		return nil, nil, fmt.Errorf("key %q: cannot add at an index selector", key)
	}

	names := make([]string, 0, len(segments)-i)
	for ; i < len(segments); i++ {
		names = append(names, segments[i].name)
	}
	return parent, names, nil
}

// parse splits a key into segments, handling escaped delimiters and
// index selectors
func (e *DefaultExpressionEngine) parse(key string) ([]pathSegment, error) {
	key = strings.Trim(key, e.Delimiter)
	if key == "" {
		return nil, nil
	}

	var segments []pathSegment
	var current strings.Builder
	escaped := e.Delimiter + e.Delimiter

	for i := 0; i < len(key); {
		if strings.HasPrefix(key[i:], escaped) {
			current.WriteString(e.Delimiter)
			i += len(escaped)
			continue
		}
		if strings.HasPrefix(key[i:], e.Delimiter) {
			segment, err := e.finishSegment(key, current.String())
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment)
			current.Reset()
			i += len(e.Delimiter)
			continue
		}
		current.WriteByte(key[i])
		i++
	}

	segment, err := e.finishSegment(key, current.String())
	if err != nil {
		return nil, err
	}
	return append(segments, segment), nil
}

func (e *DefaultExpressionEngine) finishSegment(key, raw string) (pathSegment, error) {
	if raw == "" {
		return pathSegment{}, fmt.Errorf("key %q: empty segment", key)
	}

	if strings.HasSuffix(raw, e.IndexEnd) {
		if start := strings.LastIndex(raw, e.IndexStart); start > 0 {
			indexText := raw[start+len(e.IndexStart) : len(raw)-len(e.IndexEnd)]
			index, err := strconv.Atoi(indexText)
			if err != nil || index < 0 {
				return pathSegment{}, fmt.Errorf("key %q: invalid index %q", key, indexText)
			}
			return pathSegment{name: raw[:start], index: index, hasIndex: true}, nil
		}
	}
	return pathSegment{name: raw}, nil
}

func (e *DefaultExpressionEngine) escape(name string) string {
	return strings.ReplaceAll(name, e.Delimiter, e.Delimiter+e.Delimiter)
}
