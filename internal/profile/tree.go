package profile

import (
	"encoding/json"
	"sort"
	"strings"
)

// Node is one node of the profile tree. A node is a leaf when the source
// document carried any of the leaf markers (description, value, values);
// otherwise it is a subtree of named children. A permissive document can
// put a value on a node that also has children; both are preserved and
// round-trip unchanged.
type Node struct {
	Description string
	Value       any
	HasValue    bool
	Values      []any
	Children    map[string]*Node
}

// Tree is the accumulating nested answer document built across the
// whole interview.
type Tree struct {
	Root map[string]*Node
}

// NewTree returns an empty profile tree.
func NewTree() *Tree {
	return &Tree{Root: map[string]*Node{}}
}

// IsLeaf reports whether the node carries leaf markers and no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0 && (n.Description != "" || n.HasValue || n.Values != nil)
}

// UnmarshalJSON decodes a node. Objects with a description/value/values key
// become leaves; all remaining object keys become children.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}
	for key, val := range raw {
		switch key {
		case "description":
			if err := json.Unmarshal(val, &n.Description); err != nil {
				return err
			}
		case "value":
			if err := json.Unmarshal(val, &n.Value); err != nil {
				return err
			}
			n.HasValue = true
		case "values":
			if err := json.Unmarshal(val, &n.Values); err != nil {
				return err
			}
		default:
			child := &Node{}
			if err := json.Unmarshal(val, child); err != nil {
				return err
			}
			if n.Children == nil {
				n.Children = map[string]*Node{}
			}
			n.Children[key] = child
		}
	}
	return nil
}

// MarshalJSON encodes a node back to the wire shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if n.HasValue {
		out["value"] = n.Value
	}
	if n.Values != nil {
		out["values"] = n.Values
	}
	for key, child := range n.Children {
		out[key] = child
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a whole profile document.
func (t *Tree) UnmarshalJSON(data []byte) error {
	root := map[string]*Node{}
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	t.Root = root
	return nil
}

// MarshalJSON encodes the whole profile document.
func (t *Tree) MarshalJSON() ([]byte, error) {
	if t.Root == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.Root)
}

// SetValue writes v at the dotted path, e.g. "generalprofile.name".
// This is the one place that creates structure: missing intermediate
// segments become empty subtrees, and a missing final segment becomes a
// leaf. A final node that already exists keeps its description and any
// children; only its value is overwritten. An empty path is a no-op.
func (t *Tree) SetValue(path string, v any) {
	if path == "" {
		return
	}
	if t.Root == nil {
		t.Root = map[string]*Node{}
	}

	keys := strings.Split(path, ".")
	current := t.Root
	for _, key := range keys[:len(keys)-1] {
		node, ok := current[key]
		if !ok {
			node = &Node{Children: map[string]*Node{}}
			current[key] = node
		}
		if node.Children == nil {
			node.Children = map[string]*Node{}
		}
		current = node.Children
	}

	final := keys[len(keys)-1]
	node, ok := current[final]
	if !ok {
		node = &Node{}
		current[final] = node
	}
	node.Value = v
	node.HasValue = true
}

// nodeAt descends the dotted path and returns the node, or nil.
func (t *Tree) nodeAt(path string) *Node {
	if path == "" || t.Root == nil {
		return nil
	}
	keys := strings.Split(path, ".")
	current := t.Root
	var node *Node
	for i, key := range keys {
		n, ok := current[key]
		if !ok {
			return nil
		}
		node = n
		if i < len(keys)-1 {
			current = n.Children
			if current == nil {
				return nil
			}
		}
	}
	return node
}

// ValueAt returns the value stored at the dotted path.
func (t *Tree) ValueAt(path string) (any, bool) {
	node := t.nodeAt(path)
	if node == nil || !node.HasValue {
		return nil, false
	}
	return node.Value, true
}

// DescriptionAt returns the schema description at the dotted path,
// or "" when the path or description is absent.
func (t *Tree) DescriptionAt(path string) string {
	node := t.nodeAt(path)
	if node == nil {
		return ""
	}
	return node.Description
}

// ConceptPaths returns the dotted paths of every leaf under the given
// top-level section, sorted. These are the fields the question generator
// writes questions for.
func (t *Tree) ConceptPaths(section string) []string {
	if t.Root == nil {
		return nil
	}
	root, ok := t.Root[section]
	if !ok {
		return nil
	}

	var paths []string
	var walk func(prefix string, node *Node)
	walk = func(prefix string, node *Node) {
		if node.Description != "" || node.HasValue || node.Values != nil {
			if prefix != "" {
				paths = append(paths, prefix)
			}
			return
		}
		for key, child := range node.Children {
			p := key
			if prefix != "" {
				p = prefix + "." + key
			}
			walk(p, child)
		}
	}
	walk("", root)
	sort.Strings(paths)
	return paths
}

// ClearValues removes every stored value and values list from the tree
// while keeping descriptions and structure, returning the document to its
// schema-only form.
func (t *Tree) ClearValues() {
	var walk func(node *Node)
	walk = func(node *Node) {
		node.Value = nil
		node.HasValue = false
		node.Values = nil
		for _, child := range node.Children {
			walk(child)
		}
	}
	for _, node := range t.Root {
		walk(node)
	}
}

// Sections returns the top-level section names, sorted.
func (t *Tree) Sections() []string {
	sections := make([]string, 0, len(t.Root))
	for key := range t.Root {
		sections = append(sections, key)
	}
	sort.Strings(sections)
	return sections
}
