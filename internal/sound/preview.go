package sound

import (
	"context"
	"sync"
)

// Preview owns the single sound being previewed. Starting a preview stops
// the previous one; toggling the one already playing stops it.
type Preview struct {
	player Player

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	gen     int
}

// NewPreview creates a preview controller backed by player.
func NewPreview(player Player) *Preview {
	return &Preview{player: player}
}

// Toggle starts playing locator under key, or stops it when key is already
// playing. When playback starts, the returned channel receives the result
// once it finishes or is stopped.
func (p *Preview) Toggle(key, locator string) (playing bool, done <-chan error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		same := p.current == key
		p.stopLocked()
		if same {
			return false, nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.gen++
	gen := p.gen
	p.current = key
	p.cancel = cancel

	ch := make(chan error, 1)
	go func() {
		err := ErrNoPlayer
		if p.player != nil {
			err = p.player.Play(ctx, locator)
		}
		cancel()

		p.mu.Lock()
		if p.gen == gen {
			p.current = ""
			p.cancel = nil
		}
		p.mu.Unlock()

		ch <- err
	}()
	return true, ch
}

// Playing returns the key of the sound currently playing, or "".
func (p *Preview) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Stop stops any preview in progress.
func (p *Preview) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Preview) stopLocked() {
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	p.current = ""
	p.cancel = nil
}
