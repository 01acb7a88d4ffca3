package cfgtree

import (
	"sort"
	"time"
)

// Topics is an interior node holding named children.
type Topics struct {
	node

	children map[string]Node
}

func newTopics(ctx *Context, parent *Topics, name string) *Topics {
	t := &Topics{
		node: node{
			name:    name,
			parent:  parent,
			ctx:     ctx,
			modtime: time.Now(),
		},
		children: make(map[string]Node),
	}
	t.owner = t
	return t
}

// CreateTopic returns the named child leaf, creating it if needed. Creation
// notifies watchers with ChildAdded. An existing interior node with the same
// name is replaced.
func (t *Topics) CreateTopic(name string) *Topic {
	t.mu.Lock()
	if leaf, ok := t.children[name].(*Topic); ok {
		t.mu.Unlock()
		return leaf
	}
	prev := t.children[name]
	leaf := newTopic(t.ctx, t, name)
	t.children[name] = leaf
	t.mu.Unlock()

	if prev != nil {
		prev.base().notify(Removed, prev)
		t.fire(ChildRemoved, prev)
	}
	t.fire(ChildAdded, leaf)
	return leaf
}

// CreateInterior returns the named child interior node, creating it if
// needed. Creation notifies watchers with InteriorAdded. An existing leaf
// with the same name is replaced.
func (t *Topics) CreateInterior(name string) *Topics {
	t.mu.Lock()
	if inner, ok := t.children[name].(*Topics); ok {
		t.mu.Unlock()
		return inner
	}
	prev := t.children[name]
	inner := newTopics(t.ctx, t, name)
	t.children[name] = inner
	t.mu.Unlock()

	if prev != nil {
		prev.base().notify(Removed, prev)
		t.fire(ChildRemoved, prev)
	}
	t.fire(InteriorAdded, inner)
	return inner
}

// Lookup walks path, creating interior nodes along the way, and returns the
// leaf at the end, creating it if needed. Returns nil for an empty path.
func (t *Topics) Lookup(path ...string) *Topic {
	if len(path) == 0 {
		return nil
	}

	cur := t
	for _, name := range path[:len(path)-1] {
		cur = cur.CreateInterior(name)
	}
	return cur.CreateTopic(path[len(path)-1])
}

// LookupInterior walks path, creating interior nodes along the way, and
// returns the interior node at the end.
func (t *Topics) LookupInterior(path ...string) *Topics {
	cur := t
	for _, name := range path {
		cur = cur.CreateInterior(name)
	}
	return cur
}

// FindNode returns the node at path, or nil if any element is missing.
func (t *Topics) FindNode(path ...string) Node {
	if len(path) == 0 {
		return t
	}

	t.mu.Lock()
	child, ok := t.children[path[0]]
	t.mu.Unlock()
	if !ok {
		return nil
	}
	if len(path) == 1 {
		return child
	}

	inner, ok := child.(*Topics)
	if !ok {
		return nil
	}
	return inner.FindNode(path[1:]...)
}

// Find returns the leaf at path, or nil if it does not exist.
func (t *Topics) Find(path ...string) *Topic {
	leaf, _ := t.FindNode(path...).(*Topic)
	return leaf
}

// FindOrDefault returns the value of the leaf at path, or def when the leaf
// does not exist or holds nil.
func (t *Topics) FindOrDefault(def any, path ...string) any {
	leaf := t.Find(path...)
	if leaf == nil {
		return def
	}
	if v := leaf.Value(); v != nil {
		return v
	}
	return def
}

// Children returns a snapshot of the direct children, sorted by name.
func (t *Topics) Children() []Node {
	t.mu.Lock()
	children := make([]Node, 0, len(t.children))
	for _, child := range t.children {
		children = append(children, child)
	}
	t.mu.Unlock()

	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})
	return children
}

// Size returns the number of direct children.
func (t *Topics) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.children)
}

// ReplaceMap makes the subtree mirror m: map values become interior nodes,
// everything else becomes leaf values. Children absent from m are removed.
func (t *Topics) ReplaceMap(m map[string]any) {
	for name, v := range m {
		switch val := v.(type) {
		case map[string]any:
			t.CreateInterior(name).ReplaceMap(val)
		default:
			t.CreateTopic(name).SetValue(val)
		}
	}

	for _, child := range t.Children() {
		if _, ok := m[child.Name()]; !ok {
			child.Remove()
		}
	}
}

func (t *Topics) removeChild(name string, child Node) {
	t.mu.Lock()
	cur, ok := t.children[name]
	if !ok || cur != child {
		t.mu.Unlock()
		return
	}
	delete(t.children, name)
	t.modtime = time.Now()
	t.mu.Unlock()

	child.base().notify(Removed, child)
	t.fire(ChildRemoved, child)
}
