package sound

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPlayer plays until its context is cancelled or finish is called.
type blockingPlayer struct {
	mu      sync.Mutex
	started []string
	release chan struct{}
}

func newBlockingPlayer() *blockingPlayer {
	return &blockingPlayer{release: make(chan struct{})}
}

func (p *blockingPlayer) Play(ctx context.Context, locator string) error {
	p.mu.Lock()
	p.started = append(p.started, locator)
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.release:
		return nil
	}
}

func (p *blockingPlayer) finish() { close(p.release) }

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not finish")
		return nil
	}
}

func TestPreview_ToggleSameStops(t *testing.T) {
	p := NewPreview(newBlockingPlayer())

	playing, done := p.Toggle("bell", "bell.mp3")
	require.True(t, playing)
	assert.Equal(t, "bell", p.Playing())

	playing, again := p.Toggle("bell", "bell.mp3")
	assert.False(t, playing)
	assert.Nil(t, again)
	assert.Equal(t, "", p.Playing())
	assert.ErrorIs(t, wait(t, done), context.Canceled)
}

func TestPreview_StartingAnotherStopsFirst(t *testing.T) {
	p := NewPreview(newBlockingPlayer())

	_, first := p.Toggle("bell", "bell.mp3")
	playing, second := p.Toggle("chime", "chime.mp3")

	require.True(t, playing)
	assert.ErrorIs(t, wait(t, first), context.Canceled)
	assert.Equal(t, "chime", p.Playing(), "stale completion must not clear the new preview")

	p.Stop()
	wait(t, second)
	assert.Equal(t, "", p.Playing())
}

func TestPreview_CompletionClears(t *testing.T) {
	player := newBlockingPlayer()
	p := NewPreview(player)

	_, done := p.Toggle("bell", "bell.mp3")
	player.finish()

	assert.NoError(t, wait(t, done))
	assert.Equal(t, "", p.Playing())
}
