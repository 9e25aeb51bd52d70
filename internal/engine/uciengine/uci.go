// Package uciengine implements the engine boundary over a long-lived UCI
// engine process such as Stockfish.
package uciengine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof/internal/engine"
	"github.com/jphollanti/chessprof/internal/fen"
)

// Defaults favor throughput over depth: two search threads and a short
// fixed think time per position, enough to flag blunders across a whole
// archive in reasonable time.
const (
	DefaultThreads  = 2
	DefaultMoveTime = 30 * time.Millisecond
)

// Compile-time check that Engine implements engine.Evaluator.
var _ engine.Evaluator = (*Engine)(nil)

// Engine is an owned handle to a running UCI engine process. It is opened
// once per batch run and must be closed on all exit paths. Not safe for
// concurrent Evaluate calls.
type Engine struct {
	eng      *uci.Engine
	moveTime time.Duration
	threads  int
	logger   *zap.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithThreads sets the engine's search thread count.
func WithThreads(n int) Option {
	return func(e *Engine) { e.threads = n }
}

// WithMoveTime sets the fixed think time per evaluation request.
func WithMoveTime(d time.Duration) Option {
	return func(e *Engine) { e.moveTime = d }
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New starts the engine binary at path and completes the UCI handshake.
func New(path string, opts ...Option) (*Engine, error) {
	e := &Engine{
		moveTime: DefaultMoveTime,
		threads:  DefaultThreads,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("starting engine %q: %w", path, err)
	}

	if err := eng.Run(
		uci.CmdUCI,
		uci.CmdSetOption{Name: "Threads", Value: strconv.Itoa(e.threads)},
		uci.CmdIsReady,
		uci.CmdUCINewGame,
	); err != nil {
		eng.Close()
		return nil, fmt.Errorf("initializing engine: %w", err)
	}

	e.eng = eng
	e.logger.Debug("engine started",
		zap.String("path", path),
		zap.Int("threads", e.threads),
		zap.Duration("moveTime", e.moveTime),
	)

	return e, nil
}

// Evaluate requests one synchronous evaluation of the position given in FEN.
// Scores are normalized to White's perspective regardless of the side to
// move. Terminal positions are scored without consulting the engine: mate 0
// for checkmate, 0 cp for stalemate.
func (e *Engine) Evaluate(ctx context.Context, fenStr string) (engine.Score, error) {
	// Check for cancellation before talking to the process.
	select {
	case <-ctx.Done():
		return engine.Score{}, ctx.Err()
	default:
	}

	side, err := fen.SideToMove(fenStr)
	if err != nil {
		return engine.Score{}, fmt.Errorf("parsing position: %w", err)
	}

	fenOpt, err := chess.FEN(fenStr)
	if err != nil {
		return engine.Score{}, fmt.Errorf("parsing position: %w", err)
	}
	pos := chess.NewGame(fenOpt).Position()

	switch pos.Status() {
	case chess.Checkmate:
		zero := 0
		return engine.Score{Mate: &zero}, nil
	case chess.Stalemate:
		zero := 0
		return engine.Score{Centipawns: &zero}, nil
	}

	if err := e.eng.Run(
		uci.CmdPosition{Position: pos},
		uci.CmdGo{MoveTime: e.moveTime},
	); err != nil {
		return engine.Score{}, fmt.Errorf("running evaluation: %w", err)
	}

	results := e.eng.SearchResults()
	if results.BestMove == nil {
		return engine.Score{}, engine.ErrNoEvaluation
	}

	// UCI scores are from the side to move; flip to White's perspective.
	score := results.Info.Score
	var out engine.Score
	if score.Mate != 0 {
		mate := score.Mate
		if side == "b" {
			mate = -mate
		}
		out.Mate = &mate
	} else {
		cp := score.CP
		if side == "b" {
			cp = -cp
		}
		out.Centipawns = &cp
	}

	return out, nil
}

// Close shuts down the engine process.
func (e *Engine) Close() error {
	return e.eng.Close()
}
