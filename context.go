package cfgtree

import "github.com/cfgtree/cfgtree/internal/pubqueue"

// Context owns a configuration tree: its root node and the publish queue
// that completion tasks for the tree's nodes run on.
type Context struct {
	queue *pubqueue.Queue
	root  *Topics
}

func NewContext() *Context {
	c := &Context{queue: pubqueue.New()}
	c.root = newTopics(c, nil, "")
	return c
}

// Root returns the root interior node of the tree.
func (c *Context) Root() *Topics { return c.root }

// RunOnPublishQueue schedules task to run after all currently queued work,
// in submission order, each task to completion before the next. It never
// blocks the caller; the task may run on a different goroutine.
func (c *Context) RunOnPublishQueue(task func()) {
	c.queue.Submit(task)
}

// Settle blocks until every task submitted to the publish queue before the
// call has run. Called from the queue's own goroutine it returns
// immediately.
func (c *Context) Settle() {
	c.queue.Drain()
}

// Close drains the publish queue and stops its worker. Submitting work after
// Close panics, so close only once no goroutine mutates the tree anymore.
func (c *Context) Close() {
	c.queue.Close()
}
