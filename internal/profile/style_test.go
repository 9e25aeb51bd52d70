package profile

import (
	"testing"

	"github.com/jphollanti/chessprof"
)

func mateDip(move int) chessprof.Dip {
	return chessprof.Dip{MoveNumber: move, Before: chessprof.CP(0), After: chessprof.MateIn(-1)}
}

func TestIsTactical(t *testing.T) {
	g := whiteGame("g", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, -250), cpDip(40, 300))
	if !isTactical(&g, "alice") {
		t.Error("isTactical() = false with three big dips, want true")
	}

	two := whiteGame("g", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200))
	if isTactical(&two, "alice") {
		t.Error("isTactical() = true with two big dips, want false")
	}

	// Mate swings don't count toward the big-dip total.
	mates := whiteGame("g", chessprof.ResultDraw, mateDip(20), mateDip(30), mateDip(40))
	if isTactical(&mates, "alice") {
		t.Error("isTactical() = true on mate dips, want false")
	}
}

func TestIsAggressive(t *testing.T) {
	early := whiteGame("g", chessprof.ResultDraw, cpDip(9, 200))
	if !isAggressive(&early, "alice") {
		t.Error("isAggressive() = false with a big dip at ply 9, want true")
	}

	late := whiteGame("g", chessprof.ResultDraw, cpDip(11, 200))
	if isAggressive(&late, "alice") {
		t.Error("isAggressive() = true with only a late big dip, want false")
	}

	// A small early dip isn't aggression.
	small := whiteGame("g", chessprof.ResultDraw, cpDip(5, 150))
	if isAggressive(&small, "alice") {
		t.Error("isAggressive() = true on a sub-threshold dip, want false")
	}
}

func TestIsPositional(t *testing.T) {
	quiet := whiteGame("g", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200))
	if !isPositional(&quiet, "alice") {
		t.Error("isPositional() = false with two dips, want true")
	}

	// Any third dip disqualifies, mate-typed included.
	busy := whiteGame("g", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200), mateDip(40))
	if isPositional(&busy, "alice") {
		t.Error("isPositional() = true with three dips, want false")
	}
}

func TestIsDefensive(t *testing.T) {
	g := whiteGame("g", chessprof.ResultBlackWon)
	g.Termination = "bob won on time - Timeout"
	if !isDefensive(&g, "alice") {
		t.Error("isDefensive() = false on a timeout, want true")
	}

	g.Termination = "bob won by checkmate"
	if isDefensive(&g, "alice") {
		t.Error("isDefensive() = true on a checkmate, want false")
	}

	g.Termination = "game abandoned"
	if !isDefensive(&g, "alice") {
		t.Error("isDefensive() = false on an abandoned game, want true")
	}
}

func TestIsTimeTroubleProne(t *testing.T) {
	short := whiteGame("g", chessprof.ResultDraw, cpDip(60, 200), cpDip(64, -200))
	short.TimeControl = "300"
	if !isTimeTroubleProne(&short, "alice") {
		t.Error("isTimeTroubleProne() = false with two late big dips at 300s, want true")
	}

	long := short
	long.TimeControl = "1800"
	if isTimeTroubleProne(&long, "alice") {
		t.Error("isTimeTroubleProne() = true at 1800s, want false")
	}

	early := whiteGame("g", chessprof.ResultDraw, cpDip(10, 200), cpDip(20, -200))
	early.TimeControl = "300"
	if isTimeTroubleProne(&early, "alice") {
		t.Error("isTimeTroubleProne() = true with only early dips, want false")
	}
}

func TestStyleFractions(t *testing.T) {
	// One quiet game in four: positional fraction 0.25.
	games := []chessprof.AnalyzedGame{
		whiteGame("g1", chessprof.ResultDraw),
		whiteGame("g2", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200), cpDip(40, 200)),
		whiteGame("g3", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200), cpDip(40, 200)),
		whiteGame("g4", chessprof.ResultDraw, cpDip(20, 200), cpDip(30, 200), cpDip(40, 200)),
	}

	style := styleFractions(games, "alice")
	if style["positional"] != 0.25 {
		t.Errorf("positional = %v, want 0.25", style["positional"])
	}
	if style["tactical"] != 0.75 {
		t.Errorf("tactical = %v, want 0.75", style["tactical"])
	}
	if style["defensive"] != 0 {
		t.Errorf("defensive = %v, want 0", style["defensive"])
	}

	for _, name := range []string{"tactical", "aggressive", "positional", "defensive", "time_trouble_prone"} {
		if _, ok := style[name]; !ok {
			t.Errorf("style missing %q", name)
		}
	}
}

func TestParseTimeControl(t *testing.T) {
	tests := []struct {
		tc   string
		base int
		inc  int
	}{
		{"600+5", 600, 5},
		{"180", 180, 0},
		{"1/86400", 600, 0}, // daily controls fall back
		{"", 600, 0},
		{"junk", 600, 0},
	}

	for _, tt := range tests {
		base, inc := ParseTimeControl(tt.tc)
		if base != tt.base || inc != tt.inc {
			t.Errorf("ParseTimeControl(%q) = %d, %d, want %d, %d", tt.tc, base, inc, tt.base, tt.inc)
		}
	}
}
