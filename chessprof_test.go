package chessprof

import (
	"context"
	"errors"
	"testing"

	"github.com/jphollanti/chessprof/internal/engine/enginetest"
)

// foolsMate is a four-half-move game with full headers.
const foolsMate = `[Event "Live Chess"]
[White "alice"]
[Black "bob"]
[Result "0-1"]
[WhiteElo "1500"]
[BlackElo "1600"]
[TimeControl "600"]
[Termination "bob won by checkmate"]

1. f3 e5 2. g4 Qh4# 0-1`

func TestNew_RequiresEngine(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrNoEngine) {
		t.Errorf("New() error = %v, want ErrNoEngine", err)
	}
}

func TestAnalyzer_EvaluateGame(t *testing.T) {
	fake := enginetest.New()
	fake.Script(
		enginetest.CP(20),
		enginetest.CP(-10),
		enginetest.CP(-200),
		enginetest.Mate(-1),
	)

	a, err := New(WithEngine(fake))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	white, black, err := a.EvaluateGame(context.Background(), foolsMate)
	if err != nil {
		t.Fatalf("EvaluateGame() error = %v", err)
	}

	// One evaluation per half-move, split by the side that moved.
	if len(white) != 2 || len(black) != 2 {
		t.Fatalf("len(white) = %d, len(black) = %d, want 2 and 2", len(white), len(black))
	}
	if fake.Calls() != 4 {
		t.Errorf("engine calls = %d, want 4", fake.Calls())
	}

	// White holds the odd plies, black the even ones.
	if white[0].MoveNumber != 1 || white[1].MoveNumber != 3 {
		t.Errorf("white move numbers = %d, %d, want 1, 3", white[0].MoveNumber, white[1].MoveNumber)
	}
	if black[0].MoveNumber != 2 || black[1].MoveNumber != 4 {
		t.Errorf("black move numbers = %d, %d, want 2, 4", black[0].MoveNumber, black[1].MoveNumber)
	}

	if *white[1].Eval.Centipawns != -200 {
		t.Errorf("white[1] = %s, want -2.00", white[1].Eval.Score())
	}
	if !black[1].Eval.IsMate() {
		t.Errorf("black[1] = %s, want a mate score", black[1].Eval.Score())
	}
}

func TestAnalyzer_AnalyzeGame(t *testing.T) {
	fake := enginetest.New()
	fake.Script(
		enginetest.CP(0),
		enginetest.CP(20),
		enginetest.CP(-300),
		enginetest.Mate(-1),
	)

	a, err := New(WithEngine(fake))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	game, err := a.AnalyzeGame(context.Background(), foolsMate)
	if err != nil {
		t.Fatalf("AnalyzeGame() error = %v", err)
	}

	if game.Result != ResultBlackWon {
		t.Errorf("Result = %q, want %q", game.Result, ResultBlackWon)
	}
	if game.White != "alice" || game.WhiteElo != 1500 {
		t.Errorf("White = %q/%d, want alice/1500", game.White, game.WhiteElo)
	}
	if game.Black != "bob" || game.BlackElo != 1600 {
		t.Errorf("Black = %q/%d, want bob/1600", game.Black, game.BlackElo)
	}
	if game.Termination != "bob won by checkmate" {
		t.Errorf("Termination = %q", game.Termination)
	}

	// White drops from 0 to -300 on ply 3; black's ply 4 crosses into mate.
	if len(game.WhiteDips) != 1 {
		t.Fatalf("len(WhiteDips) = %d, want 1", len(game.WhiteDips))
	}
	if game.WhiteDips[0].MoveNumber != 3 || *game.WhiteDips[0].Delta != -300 {
		t.Errorf("WhiteDips[0] = %+v, want delta -300 at move 3", game.WhiteDips[0])
	}
	if len(game.BlackDips) != 1 || !game.BlackDips[0].MateInvolved() {
		t.Errorf("BlackDips = %+v, want one mate-involved dip", game.BlackDips)
	}
}

func TestAnalyzer_AnalyzeGame_InvalidRecord(t *testing.T) {
	a, err := New(WithEngine(enginetest.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	_, err = a.AnalyzeGame(context.Background(), "this is not a chess game")
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("AnalyzeGame() error = %v, want ErrInvalidRecord", err)
	}
}

func TestAnalyzer_EvaluateGame_EngineError(t *testing.T) {
	fake := enginetest.New()
	fake.FailAt(3)

	a, err := New(WithEngine(fake))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	_, _, err = a.EvaluateGame(context.Background(), foolsMate)

	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("EvaluateGame() error = %v, want *EngineError", err)
	}
	if engErr.MoveNumber != 3 {
		t.Errorf("MoveNumber = %d, want 3", engErr.MoveNumber)
	}
}

func TestAnalyzer_AnalyzeArchive_SkipsFailedGames(t *testing.T) {
	a, err := New(WithEngine(enginetest.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	games := []RawGame{
		{PGN: foolsMate},
		{PGN: "garbage that does not parse"},
		{PGN: foolsMate},
	}

	analyzed, err := a.AnalyzeArchive(context.Background(), games)
	if err != nil {
		t.Fatalf("AnalyzeArchive() error = %v", err)
	}
	if len(analyzed) != 2 {
		t.Errorf("len(analyzed) = %d, want 2 (bad game skipped)", len(analyzed))
	}
}

func TestAnalyzer_AnalyzeArchive_MaxGames(t *testing.T) {
	fake := enginetest.New()
	a, err := New(WithEngine(fake), WithMaxGames(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	games := []RawGame{{PGN: foolsMate}, {PGN: foolsMate}, {PGN: foolsMate}}
	analyzed, err := a.AnalyzeArchive(context.Background(), games)
	if err != nil {
		t.Fatalf("AnalyzeArchive() error = %v", err)
	}
	if len(analyzed) != 1 {
		t.Errorf("len(analyzed) = %d, want 1", len(analyzed))
	}
	if fake.Calls() != 4 {
		t.Errorf("engine calls = %d, want 4 (only the first game evaluated)", fake.Calls())
	}
}

func TestAnalyzer_AnalyzeArchive_Canceled(t *testing.T) {
	a, err := New(WithEngine(enginetest.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.AnalyzeArchive(ctx, []RawGame{{PGN: foolsMate}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("AnalyzeArchive() error = %v, want context.Canceled", err)
	}
}

func TestAnalyzer_Close(t *testing.T) {
	fake := enginetest.New()
	a, err := New(WithEngine(fake))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.Closed() {
		t.Error("engine not closed by analyzer")
	}

	if err := a.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, _, err := a.EvaluateGame(context.Background(), foolsMate); !errors.Is(err, ErrClosed) {
		t.Errorf("EvaluateGame() after Close error = %v, want ErrClosed", err)
	}
}
