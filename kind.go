package cfgtree

// WhatHappened tags a notification with the kind of mutation that produced
// it. The set is open ended; watchers only switch on the kinds they care
// about.
type WhatHappened int

const (
	// Initialized is delivered exactly once, synchronously, when a watcher
	// attaches. It represents the baseline state, not a change.
	Initialized WhatHappened = iota
	// Changed means a leaf's value was replaced with a different one.
	Changed
	// ChildAdded means a new leaf was created under an interior node.
	ChildAdded
	// ChildRemoved means a node was removed from under an interior node.
	ChildRemoved
	// Removed means the node itself was removed from the tree.
	Removed
	// TimestampUpdated means a leaf was touched without its value changing.
	TimestampUpdated
	// InteriorAdded means a new interior node was created.
	InteriorAdded
)

func (w WhatHappened) String() string {
	switch w {
	case Initialized:
		return "initialized"
	case Changed:
		return "changed"
	case ChildAdded:
		return "childAdded"
	case ChildRemoved:
		return "childRemoved"
	case Removed:
		return "removed"
	case TimestampUpdated:
		return "timestampUpdated"
	case InteriorAdded:
		return "interiorAdded"
	default:
		return "unknown"
	}
}
