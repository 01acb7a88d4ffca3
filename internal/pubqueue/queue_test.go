package pubqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	t.Run("runs tasks in submission order", func(t *testing.T) {
		q := New()
		defer q.Close()

		log := []int{}
		release := make(chan struct{})
		q.Submit(func() { <-release })

		for i := 0; i < 100; i++ {
			i := i
			q.Submit(func() { log = append(log, i) })
		}

		close(release)
		q.Drain()

		for i, v := range log {
			assert.Equal(t, i, v)
		}
		assert.Len(t, log, 100)
	})

	t.Run("concurrent submission is safe", func(t *testing.T) {
		q := New()
		defer q.Close()

		count := 0
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				q.Submit(func() { count++ })
			}()
		}
		wg.Wait()
		q.Drain()

		assert.Equal(t, 50, count)
	})

	t.Run("on worker", func(t *testing.T) {
		q := New()
		defer q.Close()

		assert.False(t, q.OnWorker())

		var onWorker bool
		q.Submit(func() { onWorker = q.OnWorker() })
		q.Drain()

		assert.True(t, onWorker)
	})

	t.Run("drain from the worker returns immediately", func(t *testing.T) {
		q := New()
		defer q.Close()

		returned := make(chan struct{})
		q.Submit(func() {
			q.Drain()
			close(returned)
		})

		<-returned
	})

	t.Run("close runs remaining tasks and is idempotent", func(t *testing.T) {
		q := New()

		ran := 0
		for i := 0; i < 10; i++ {
			q.Submit(func() { ran++ })
		}

		q.Close()
		q.Close()

		assert.Equal(t, 10, ran)
	})

	t.Run("submit after close panics", func(t *testing.T) {
		q := New()
		q.Close()

		assert.Panics(t, func() {
			q.Submit(func() {})
		})
	})
}
