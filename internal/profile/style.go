package profile

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/jphollanti/chessprof"
)

// BigDipThreshold is the centipawn swing a style heuristic treats as a
// major blunder. Mate-involved dips are never counted here.
const BigDipThreshold = 150

// defaultBaseSeconds is assumed when a game's time control cannot be
// parsed.
const defaultBaseSeconds = 600

// A heuristic is a named per-game style indicator. Each contributes one
// 0/1 observation per game; the profile carries the mean across all games.
type heuristic struct {
	name string
	test func(g *chessprof.AnalyzedGame, username string) bool
}

var heuristics = []heuristic{
	{"tactical", isTactical},
	{"aggressive", isAggressive},
	{"positional", isPositional},
	{"defensive", isDefensive},
	{"time_trouble_prone", isTimeTroubleProne},
}

// styleFractions computes, for each heuristic, the fraction of games it
// fires on, rounded to two decimals.
func styleFractions(games []chessprof.AnalyzedGame, username string) map[string]float64 {
	indicators := make(map[string][]float64, len(heuristics))
	for i := range games {
		g := &games[i]
		for _, h := range heuristics {
			v := 0.0
			if h.test(g, username) {
				v = 1.0
			}
			indicators[h.name] = append(indicators[h.name], v)
		}
	}

	out := make(map[string]float64, len(heuristics))
	for _, h := range heuristics {
		out[h.name] = round2(stat.Mean(indicators[h.name], nil))
	}
	return out
}

// bigDips returns the player's centipawn dips past BigDipThreshold.
func bigDips(g *chessprof.AnalyzedGame, username string) []chessprof.Dip {
	var out []chessprof.Dip
	for _, d := range g.OwnDips(username) {
		if d.MateInvolved() {
			continue
		}
		if absInt(*d.Delta) > BigDipThreshold {
			out = append(out, d)
		}
	}
	return out
}

// isTactical fires on games with three or more major swings: sharp play
// that repeatedly flips the evaluation.
func isTactical(g *chessprof.AnalyzedGame, username string) bool {
	return len(bigDips(g, username)) >= 3
}

// isAggressive fires when a major swing happens within the first ten
// half-moves.
func isAggressive(g *chessprof.AnalyzedGame, username string) bool {
	for _, d := range bigDips(g, username) {
		if d.MoveNumber <= 10 {
			return true
		}
	}
	return false
}

// isPositional fires on quiet games with at most two dips of any size.
func isPositional(g *chessprof.AnalyzedGame, username string) bool {
	return len(g.OwnDips(username)) <= 2
}

// isDefensive fires on games lost on the clock or abandoned.
func isDefensive(g *chessprof.AnalyzedGame, username string) bool {
	term := strings.ToLower(g.Termination)
	return strings.Contains(term, "timeout") || strings.Contains(term, "abandoned")
}

// isTimeTroubleProne fires on short time controls where the player made
// repeated major swings late in the game.
func isTimeTroubleProne(g *chessprof.AnalyzedGame, username string) bool {
	base, _ := ParseTimeControl(g.TimeControl)
	if base >= 900 {
		return false
	}

	late := 0
	for _, d := range bigDips(g, username) {
		if d.MoveNumber >= 60 {
			late++
		}
	}
	return late >= 2
}

// ParseTimeControl splits a "base+increment" time control into seconds.
// A missing increment means zero; anything unparsable falls back to a
// 600+0 rapid control.
func ParseTimeControl(tc string) (base, increment int) {
	basePart, incPart, found := strings.Cut(tc, "+")

	base, err := strconv.Atoi(strings.TrimSpace(basePart))
	if err != nil {
		return defaultBaseSeconds, 0
	}
	if !found {
		return base, 0
	}

	increment, err = strconv.Atoi(strings.TrimSpace(incPart))
	if err != nil {
		return base, 0
	}
	return base, increment
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
