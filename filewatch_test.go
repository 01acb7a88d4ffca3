package cfgtree

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile(t *testing.T) {
	writeConfig := func(t *testing.T, path, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	t.Run("loads the file on start", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		path := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, path, "brokerUri: tcp://localhost:1883\n")

		fw, err := WatchFile(path, ctx.Root(), FileWatcherOptions{})
		require.NoError(t, err)
		defer fw.Close()

		assert.Equal(t, "tcp://localhost:1883", ctx.Root().FindOrDefault(nil, "brokerUri"))
	})

	t.Run("reloads on change", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		path := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, path, "brokerUri: tcp://localhost:1883\n")

		fw, err := WatchFile(path, ctx.Root(), FileWatcherOptions{Debounce: 10 * time.Millisecond})
		require.NoError(t, err)
		defer fw.Close()

		writeConfig(t, path, "brokerUri: ssl://broker.example:8883\n")

		assert.Eventually(t, func() bool {
			return ctx.Root().FindOrDefault(nil, "brokerUri") == "ssl://broker.example:8883"
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("feeds batched subscribers", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		path := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, path, "brokerUri: tcp://localhost:1883\nclientId: bridge-1\n")

		fw, err := WatchFile(path, ctx.Root(), FileWatcherOptions{Debounce: 10 * time.Millisecond})
		require.NoError(t, err)
		defer fw.Close()

		rec := &recorder{}
		sub, err := NewBatchedSubscriber(ctx.Root(), rec.callback)
		require.NoError(t, err)
		sub.Subscribe()
		defer sub.Unsubscribe()

		writeConfig(t, path, "brokerUri: ssl://broker.example:8883\nclientId: bridge-2\n")

		assert.Eventually(t, func() bool {
			// both changed leaves arrive, each in exactly one batch
			seen := map[Node]struct{}{}
			for _, batch := range rec.batches() {
				for n := range batch.nodes {
					seen[n] = struct{}{}
				}
			}
			return len(seen) == 2
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("missing file", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		_, err := WatchFile(filepath.Join(t.TempDir(), "nope.yaml"), ctx.Root(), FileWatcherOptions{})
		assert.Error(t, err)
	})

	t.Run("invalid document on start", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		path := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, path, "[broken")

		_, err := WatchFile(path, ctx.Root(), FileWatcherOptions{})
		assert.Error(t, err)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		ctx := NewContext()
		defer ctx.Close()

		path := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, path, "a: 1\n")

		fw, err := WatchFile(path, ctx.Root(), FileWatcherOptions{})
		require.NoError(t, err)

		assert.NoError(t, fw.Close())
		assert.NoError(t, fw.Close())
	})
}
