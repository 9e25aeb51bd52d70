// Package chessprof turns archives of recorded chess games into per-move
// engine evaluations, significant evaluation dips, and the structured
// analysis records a player profile is aggregated from.
//
// Example usage:
//
//	eng, err := uciengine.New("/usr/local/bin/stockfish")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analyzer, err := chessprof.New(chessprof.WithEngine(eng))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer analyzer.Close()
//
//	analyzed, err := analyzer.AnalyzeArchive(ctx, games)
package chessprof

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"github.com/jphollanti/chessprof/internal/engine"
	"github.com/jphollanti/chessprof/internal/stats"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoEngine indicates no engine evaluator was provided.
	ErrNoEngine = errors.New("chessprof: no engine provided")

	// ErrClosed indicates the analyzer has been closed.
	ErrClosed = errors.New("chessprof: analyzer closed")

	// ErrInvalidRecord indicates the move text does not parse into a
	// legal game.
	ErrInvalidRecord = errors.New("chessprof: game record does not parse")
)

// EngineError reports a failed evaluation request. It aborts analysis of
// the current game only; the batch continues with the next game.
type EngineError struct {
	// MoveNumber is the 1-based ply index of the failed request.
	MoveNumber int
	Err        error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("chessprof: engine returned no evaluation at move %d: %v", e.MoveNumber, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Analyzer evaluates raw games into AnalyzedGame records. It owns a single
// engine handle for the duration of a batch run; because the engine process
// serves one request at a time, an Analyzer must not be shared across
// concurrently analyzed games.
type Analyzer struct {
	engine    engine.Evaluator
	threshold int
	maxGames  int
	stats     stats.Collector
	logger    *zap.Logger
	closed    atomic.Bool
}

// New creates a new Analyzer with the given options.
// An engine evaluator is required.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	a := &Analyzer{
		engine:    cfg.engine,
		threshold: cfg.threshold,
		maxGames:  cfg.maxGames,
		stats:     cfg.stats,
		logger:    cfg.logger,
	}

	if a.engine == nil {
		return nil, ErrNoEngine
	}

	a.logger.Debug("analyzer initialized",
		zap.Int("dipThreshold", a.threshold),
		zap.Int("maxGames", a.maxGames),
	)

	return a, nil
}

// EvaluateGame replays the game's moves and returns one ordered EvalPoint
// sequence per side, one entry per half-move that side played. The two
// sequence lengths always sum to the number of half-moves in the game.
func (a *Analyzer) EvaluateGame(ctx context.Context, pgn string) (white, black []EvalPoint, err error) {
	if a.closed.Load() {
		return nil, nil, ErrClosed
	}

	game, err := parseGame(pgn)
	if err != nil {
		return nil, nil, err
	}

	return a.evaluate(ctx, game)
}

// AnalyzeGame produces the structured analysis of one raw game: evaluations
// for both sides, per-side dip detection, and header metadata.
func (a *Analyzer) AnalyzeGame(ctx context.Context, pgn string) (*AnalyzedGame, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	game, err := parseGame(pgn)
	if err != nil {
		return nil, err
	}

	white, black, err := a.evaluate(ctx, game)
	if err != nil {
		return nil, err
	}

	return &AnalyzedGame{
		PGN:         strings.TrimSpace(pgn),
		Result:      tagOr(game, "Result", ResultUnknown),
		TimeControl: tagOr(game, "TimeControl", ""),
		White:       tagOr(game, "White", ""),
		WhiteElo:    atoiOr(tagOr(game, "WhiteElo", "")),
		Black:       tagOr(game, "Black", ""),
		BlackElo:    atoiOr(tagOr(game, "BlackElo", "")),
		Termination: tagOr(game, "Termination", ""),
		WhiteDips:   DetectDips(white, a.threshold),
		BlackDips:   DetectDips(black, a.threshold),
	}, nil
}

// AnalyzeArchive analyzes an ordered collection of raw games. A failure on
// one game is logged with the game's index and the game is omitted from the
// output; it never aborts the rest of the batch. When a maximum game count
// is configured, the input is truncated before processing, preserving order.
func (a *Analyzer) AnalyzeArchive(ctx context.Context, games []RawGame) ([]AnalyzedGame, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}

	if a.maxGames > 0 && len(games) > a.maxGames {
		a.logger.Warn("limiting analysis", zap.Int("maxGames", a.maxGames))
		games = games[:a.maxGames]
	}

	log := a.logger.With(zap.String("run", uuid.NewString()))
	log.Info("analyzing archive", zap.Int("games", len(games)))

	analyzed := make([]AnalyzedGame, 0, len(games))
	for i, raw := range games {
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}

		log.Info("analyzing game",
			zap.Int("index", i),
			zap.Int("total", len(games)),
		)

		game, err := a.AnalyzeGame(ctx, raw.PGN)
		if err != nil {
			a.stats.IncCounter(stats.MetricGamesFailed, 1)
			log.Error("game analysis failed",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}

		a.stats.IncCounter(stats.MetricGamesAnalyzed, 1)
		analyzed = append(analyzed, *game)
	}

	return analyzed, nil
}

// Close shuts down the engine handle. After Close, the analyzer should not
// be used.
func (a *Analyzer) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := a.engine.Close(); err != nil {
		return fmt.Errorf("closing engine: %w", err)
	}

	return nil
}

// evaluate replays a parsed game and requests one engine evaluation per
// half-move, attributing each to the side that just moved.
func (a *Analyzer) evaluate(ctx context.Context, game *chess.Game) (white, black []EvalPoint, err error) {
	moves := game.Moves()
	positions := game.Positions()

	for i := range moves {
		pos := positions[i+1]

		start := time.Now()
		a.stats.IncCounter(stats.MetricEngineEvals, 1)
		score, err := a.engine.Evaluate(ctx, pos.String())
		a.stats.ObserveHistogram(stats.MetricEvalSeconds, time.Since(start).Seconds())
		if err != nil {
			a.stats.IncCounter(stats.MetricEngineFailures, 1)
			return nil, nil, &EngineError{MoveNumber: i + 1, Err: err}
		}
		if score.IsZero() {
			a.stats.IncCounter(stats.MetricEngineFailures, 1)
			return nil, nil, &EngineError{MoveNumber: i + 1, Err: engine.ErrNoEvaluation}
		}

		point := EvalPoint{MoveNumber: i + 1, Eval: fromScore(score)}

		// The side that just moved is the one NOT on turn afterward.
		if pos.Turn() == chess.Black {
			white = append(white, point)
		} else {
			black = append(black, point)
		}
	}

	return white, black, nil
}

// fromScore converts an engine score into a public Evaluation.
func fromScore(s engine.Score) Evaluation {
	return Evaluation{Centipawns: s.Centipawns, Mate: s.Mate}
}

// parseGame parses PGN move text into a game, mapping parse failures to
// ErrInvalidRecord.
func parseGame(pgn string) (*chess.Game, error) {
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return chess.NewGame(opt), nil
}

// tagOr reads a PGN header tag, falling back when absent.
func tagOr(game *chess.Game, name, fallback string) string {
	pair := game.GetTagPair(name)
	if pair == nil || pair.Value == "" {
		return fallback
	}
	return pair.Value
}

// atoiOr parses an integer header value, defaulting to 0.
func atoiOr(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
