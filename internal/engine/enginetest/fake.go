// Package enginetest provides an in-memory Evaluator implementation for
// testing.
package enginetest

import (
	"context"
	"sync"

	"github.com/jphollanti/chessprof/internal/engine"
	"github.com/jphollanti/chessprof/internal/fen"
)

// CP returns a centipawn score for test setup.
func CP(value int) engine.Score {
	return engine.Score{Centipawns: &value}
}

// Mate returns a mate score for test setup.
func Mate(moves int) engine.Score {
	return engine.Score{Mate: &moves}
}

// Compile-time check that Fake implements engine.Evaluator.
var _ engine.Evaluator = (*Fake)(nil)

// Fake is a scripted in-memory evaluator. Scores are resolved in order:
// scripted sequence, then per-fingerprint scores, then the default of 0 cp.
type Fake struct {
	mu       sync.Mutex
	script   []engine.Score
	scores   map[string]engine.Score
	failCall int
	calls    int
	closed   bool
}

// New creates a new fake evaluator.
func New() *Fake {
	return &Fake{
		scores: make(map[string]engine.Score),
	}
}

// Script sets a per-call score sequence. Calls beyond the end of the
// sequence repeat its last entry.
func (f *Fake) Script(scores ...engine.Score) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = scores
}

// SetScore sets the score for a specific position.
func (f *Fake) SetScore(fenStr string, score engine.Score) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, err := fen.Fingerprint(fenStr)
	if err != nil {
		key = fenStr
	}
	f.scores[key] = score
}

// FailAt makes the n-th Evaluate call (1-based) fail with ErrNoEvaluation.
func (f *Fake) FailAt(call int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCall = call
}

// Calls returns the number of Evaluate calls so far.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Closed reports whether Close has been called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Evaluate returns the scripted or configured score for the position.
func (f *Fake) Evaluate(ctx context.Context, fenStr string) (engine.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failCall != 0 && f.calls == f.failCall {
		return engine.Score{}, engine.ErrNoEvaluation
	}

	if len(f.script) > 0 {
		idx := f.calls - 1
		if idx >= len(f.script) {
			idx = len(f.script) - 1
		}
		return f.script[idx], nil
	}

	if key, err := fen.Fingerprint(fenStr); err == nil {
		if score, ok := f.scores[key]; ok {
			return score, nil
		}
	}

	return CP(0), nil
}

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
