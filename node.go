package cfgtree

import (
	"sync"
	"time"
)

// Watcher receives change notifications from nodes it is attached to.
// Watchers are matched by identity on Detach, so implementations should be
// pointer types.
type Watcher interface {
	Notify(what WhatHappened, node Node)
}

// Node is a single element of the configuration tree, either a leaf (Topic)
// or an interior node (Topics). Node identity is pointer identity.
type Node interface {
	Name() string
	Path() []string
	Parent() *Topics
	Context() *Context
	ModTime() time.Time

	// Attach registers w and synchronously delivers Initialized to it.
	// Events fired while that baseline notification is still being
	// delivered are not forwarded to w; it starts receiving events once
	// Attach returns.
	Attach(w Watcher)
	// Detach removes w. Detaching an unknown watcher is a no-op.
	Detach(w Watcher)
	// Remove detaches the node from its parent. The node's own watchers
	// are notified with Removed, ancestors with ChildRemoved.
	Remove()

	base() *node
}

// registration gates event delivery until the Initialized notification has
// been delivered, so nothing competes with it.
type registration struct {
	watcher Watcher

	// accessed under the node's wmu
	initialized bool
}

// node carries the state shared by Topic and Topics. The owner field points
// back at the concrete node so notifications carry the right identity.
type node struct {
	name   string
	parent *Topics
	ctx    *Context
	owner  Node

	wmu      sync.Mutex
	watchers []*registration

	// guards modtime, plus the value (Topic) or children (Topics)
	mu      sync.Mutex
	modtime time.Time
}

func (n *node) Name() string { return n.name }

func (n *node) Parent() *Topics { return n.parent }

func (n *node) Context() *Context { return n.ctx }

func (n *node) ModTime() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.modtime
}

func (n *node) Path() []string {
	if n.parent == nil {
		return nil
	}
	return append(n.parent.Path(), n.name)
}

func (n *node) base() *node { return n }

func (n *node) Attach(w Watcher) {
	if w == nil {
		return
	}

	reg := &registration{watcher: w}
	n.wmu.Lock()
	n.watchers = append(n.watchers, reg)
	n.wmu.Unlock()

	w.Notify(Initialized, n.owner)

	n.wmu.Lock()
	reg.initialized = true
	n.wmu.Unlock()
}

func (n *node) Detach(w Watcher) {
	n.wmu.Lock()
	defer n.wmu.Unlock()

	for i, reg := range n.watchers {
		if reg.watcher == w {
			n.watchers = append(n.watchers[:i], n.watchers[i+1:]...)
			return
		}
	}
}

func (n *node) Remove() {
	if n.parent == nil {
		return // the root cannot be removed
	}
	n.parent.removeChild(n.name, n.owner)
}

// notify delivers (what, src) to this node's own watchers, synchronously on
// the calling goroutine. The watcher list is snapshotted so delivery runs
// without holding any lock.
func (n *node) notify(what WhatHappened, src Node) {
	n.wmu.Lock()
	ready := make([]Watcher, 0, len(n.watchers))
	for _, reg := range n.watchers {
		if reg.initialized {
			ready = append(ready, reg.watcher)
		}
	}
	n.wmu.Unlock()

	for _, w := range ready {
		w.Notify(what, src)
	}
}

// fire delivers (what, src) to this node's watchers and then up the ancestor
// chain, which is how watching an interior node sees descendant changes.
func (n *node) fire(what WhatHappened, src Node) {
	n.notify(what, src)
	if n.parent != nil {
		n.parent.fire(what, src)
	}
}
