package host

import (
	"context"
	"maps"
	"sync"
)

// Surface holds the artifacts of the last completed draw, keyed by format.
type Surface struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	version   uint64
	watchers  map[chan uint64]struct{}
}

// NewSurface returns an empty surface at version 0.
func NewSurface() *Surface {
	return &Surface{
		artifacts: map[string][]byte{},
		watchers:  map[chan uint64]struct{}{},
	}
}

// Replace swaps in a new set of artifacts. Formats missing from artifacts
// are gone afterwards. It returns the new version.
func (s *Surface) Replace(artifacts map[string][]byte) uint64 {
	s.mu.Lock()
	s.artifacts = maps.Clone(artifacts)
	if s.artifacts == nil {
		s.artifacts = map[string][]byte{}
	}
	s.version++
	v := s.version
	for ch := range s.watchers {
		notifyLatest(ch, v)
	}
	s.mu.Unlock()
	return v
}

// Get returns the artifact for format.
func (s *Surface) Get(format string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.artifacts[format]
	return data, ok
}

// Formats lists the formats currently held.
func (s *Surface) Formats() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.artifacts))
	for f := range s.artifacts {
		out = append(out, f)
	}
	return out
}

// Version counts completed replacements.
func (s *Surface) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Watch returns a channel that receives the newest version after every
// Replace. Slow readers only see the latest version. The channel is closed
// when ctx is done.
func (s *Surface) Watch(ctx context.Context) <-chan uint64 {
	ch := make(chan uint64, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func notifyLatest(ch chan uint64, v uint64) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
