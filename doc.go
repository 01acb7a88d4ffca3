// Package cfgtree provides a watchable hierarchical configuration tree.
//
// Leaf values live in Topic nodes, interior structure in Topics nodes. Any
// node can be watched: change notifications are delivered synchronously on
// the mutating goroutine and carry the kind of mutation and the node that
// changed. Watching an interior node also sees changes to its descendants.
//
// BatchedSubscriber coalesces a concurrent burst of notifications into a
// single callback per settling point of the change stream, using the tree's
// serialized publish queue. Trees can be hydrated from YAML documents and
// kept in sync with a file on disk via WatchFile.
package cfgtree
