// Package engine defines the position-evaluation boundary to an external
// chess engine.
package engine

import (
	"context"
	"errors"
)

// ErrNoEvaluation is returned when the engine produced no score for a
// requested position.
var ErrNoEvaluation = errors.New("engine: no evaluation returned")

// Score is a tagged engine judgment of a position. Exactly one of
// Centipawns or Mate is set; both nil means the engine returned nothing.
type Score struct {
	// Centipawns is the score in centipawns from White's perspective.
	Centipawns *int

	// Mate is the signed number of moves until forced checkmate,
	// from White's perspective.
	Mate *int
}

// IsZero reports whether the score carries no judgment at all.
func (s Score) IsZero() bool {
	return s.Centipawns == nil && s.Mate == nil
}

// Evaluator produces position evaluations. Implementations wrapping a live
// engine process are not safe for concurrent Evaluate calls; hold one
// evaluator per worker.
type Evaluator interface {
	// Evaluate returns the engine's judgment of the position given in FEN.
	// A response without a score fails with ErrNoEvaluation.
	Evaluate(ctx context.Context, fen string) (Score, error)

	// Close shuts down the underlying engine resources.
	Close() error
}
