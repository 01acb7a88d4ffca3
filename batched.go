package cfgtree

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrNilNode is returned when constructing a BatchedSubscriber without
	// a node.
	ErrNilNode = errors.New("cfgtree: nil node")
	// ErrNilCallback is returned when constructing a BatchedSubscriber
	// without a callback.
	ErrNilCallback = errors.New("cfgtree: nil callback")
)

// ExclusionFunc decides whether a change notification is ignored entirely:
// never batched, never flushed.
type ExclusionFunc func(what WhatHappened, node Node) bool

// BaseExclusion is the default exclusion. TimestampUpdated is bookkeeping
// noise and InteriorAdded is structural growth orthogonal to watched values.
func BaseExclusion(what WhatHappened, node Node) bool {
	return what == TimestampUpdated || what == InteriorAdded
}

// BatchCallback receives one batch per settling point of the change stream.
// changed holds the distinct nodes changed since the previous batch; for the
// Initialized notification delivered on Subscribe it is empty.
type BatchCallback func(what WhatHappened, changed map[Node]struct{})

// BatchedSubscriber is a watcher that fires once for a batch of changes
// (and once on subscription initialization) instead of once per change.
//
// Every non-excluded notification adds its node to the batch set and
// schedules a completion task on the tree's publish queue. Completion tasks
// run in submission order, so the task that brings the count of outstanding
// completions back to zero runs after every counted change has been merged
// into the set; that task alone delivers the batch and starts a fresh one.
//
// When subscribed to an interior node all descendants feed the same batch.
// A sustained flood of changes anywhere below the node keeps deferring the
// flush until the stream settles; the subscriber has no liveness guarantee
// of its own.
type BatchedSubscriber struct {
	node       Node
	exclusions ExclusionFunc
	callback   BatchCallback

	pending atomic.Int64

	mu      sync.Mutex
	changed map[Node]struct{}
}

// NewBatchedSubscriber constructs a subscriber for node using BaseExclusion.
func NewBatchedSubscriber(node Node, callback BatchCallback) (*BatchedSubscriber, error) {
	return NewBatchedSubscriberExcluding(node, BaseExclusion, callback)
}

// NewBatchedSubscriberExcluding constructs a subscriber for node with a
// custom exclusion. A nil exclusions means no notification is excluded.
func NewBatchedSubscriberExcluding(node Node, exclusions ExclusionFunc, callback BatchCallback) (*BatchedSubscriber, error) {
	if node == nil {
		return nil, ErrNilNode
	}
	if callback == nil {
		return nil, ErrNilCallback
	}

	return &BatchedSubscriber{
		node:       node,
		exclusions: exclusions,
		callback:   callback,
		changed:    make(map[Node]struct{}),
	}, nil
}

// Subscribe attaches to the node, which immediately delivers Initialized;
// that is forwarded to the callback with an empty set before Subscribe
// returns.
func (b *BatchedSubscriber) Subscribe() {
	b.node.Attach(b)
}

// Unsubscribe detaches from the node. Idempotent. Completion tasks already
// on the publish queue are not cancelled, so a final batch may still be
// delivered after Unsubscribe returns.
func (b *BatchedSubscriber) Unsubscribe() {
	b.node.Detach(b)
}

// Notify implements Watcher.
func (b *BatchedSubscriber) Notify(what WhatHappened, child Node) {
	if b.exclusions != nil && b.exclusions(what, child) {
		return
	}

	if what == Initialized {
		b.callback(what, map[Node]struct{}{})
		return
	}

	b.mu.Lock()
	b.changed[child] = struct{}{}
	b.mu.Unlock()

	b.pending.Add(1)
	child.Context().RunOnPublishQueue(func() {
		if b.pending.Add(-1) != 0 {
			// another completion task is still pending and will
			// observe the zero crossing
			return
		}

		b.mu.Lock()
		batch := b.changed
		b.changed = make(map[Node]struct{}, len(batch))
		b.mu.Unlock()

		b.callback(what, batch)
	})
}
