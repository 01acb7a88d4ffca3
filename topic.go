package cfgtree

import (
	"reflect"
	"time"
)

// Topic is a leaf node holding a single value.
type Topic struct {
	node

	value any
}

func newTopic(ctx *Context, parent *Topics, name string) *Topic {
	t := &Topic{node: node{
		name:    name,
		parent:  parent,
		ctx:     ctx,
		modtime: time.Now(),
	}}
	t.owner = t
	return t
}

// Value returns the current value, or nil if none has been set.
func (t *Topic) Value() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// SetValue replaces the topic's value and notifies watchers with Changed.
// When the new value equals the old one only the timestamp is bumped and
// watchers see TimestampUpdated instead.
func (t *Topic) SetValue(v any) {
	t.mu.Lock()
	changed := !isEqual(t.value, v)
	t.value = v
	t.modtime = time.Now()
	t.mu.Unlock()

	if changed {
		t.fire(Changed, t)
	} else {
		t.fire(TimestampUpdated, t)
	}
}

func isEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
