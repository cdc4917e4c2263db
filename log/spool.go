package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultSpoolLimit = 256

// Spool is an [io.Writer] in front of a log destination that can hold output
// while something else owns the terminal.
//
// While holding, each Write is copied into a bounded ring: when the ring is
// full the oldest entry is dropped so Write never blocks or grows without
// bound. [Spool.Release] replays the ring to the destination and switches to
// pass-through. Safe for concurrent use.
//
// Create instances with [NewSpool].
type Spool struct {
	out     io.Writer
	held    [][]byte
	limit   int
	dropped int
	mu      sync.Mutex
	holding bool
}

// SpoolOption configures a [Spool].
type SpoolOption func(*Spool)

// WithLimit sets how many entries are held before the oldest are dropped.
// Values less than 1 are clamped to 1.
func WithLimit(n int) SpoolOption {
	return func(s *Spool) {
		s.limit = max(n, 1)
	}
}

// NewSpool creates a [Spool] that passes writes through to out until
// [Spool.Hold] is called. The default limit is 256 entries.
func NewSpool(out io.Writer, opts ...SpoolOption) *Spool {
	s := &Spool{
		out:   out,
		limit: defaultSpoolLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Write passes b through, or holds a copy of it. Held writes always return
// len(b), nil.
func (s *Spool) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.holding {
		return s.out.Write(b) //nolint:wrapcheck // Transparent writer.
	}

	entry := make([]byte, len(b))
	copy(entry, b)

	if len(s.held) == s.limit {
		s.held[0] = nil
		s.held = s.held[1:]
		s.dropped++
	}

	s.held = append(s.held, entry)

	return len(b), nil
}

// Hold starts holding writes. Idempotent.
func (s *Spool) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holding = true
}

// Release writes held entries to the destination in order, preceded by a
// notice when entries were dropped, then resumes pass-through. Idempotent.
func (s *Spool) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.holding = false

	held, dropped := s.held, s.dropped
	s.held, s.dropped = nil, 0

	if dropped > 0 {
		_, err := fmt.Fprintf(s.out, "(%d earlier log entries dropped)\n", dropped)
		if err != nil {
			return fmt.Errorf("releasing log spool: %w", err)
		}
	}

	for _, entry := range held {
		_, err := s.out.Write(entry)
		if err != nil {
			return fmt.Errorf("releasing log spool: %w", err)
		}
	}

	return nil
}

// Held returns the number of entries currently held.
func (s *Spool) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.held)
}
