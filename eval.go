package chessprof

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Evaluation is a single engine judgment of a position. Exactly one of
// Centipawns or Mate is set.
type Evaluation struct {
	// Centipawns is the score in centipawns from White's perspective.
	// Positive values favor White, negative values favor Black.
	// Nil if the position has a forced mate.
	Centipawns *int

	// Mate is the number of moves until checkmate.
	// Positive values mean White delivers mate, negative means Black.
	// Nil if there is no forced mate.
	Mate *int
}

// CP returns a centipawn-typed evaluation.
func CP(value int) Evaluation {
	return Evaluation{Centipawns: &value}
}

// MateIn returns a mate-typed evaluation.
func MateIn(moves int) Evaluation {
	return Evaluation{Mate: &moves}
}

// IsMate returns true if the evaluation is a forced checkmate.
func (e Evaluation) IsMate() bool {
	return e.Mate != nil
}

// Score returns a human-readable score string.
// Examples: "+1.25", "-0.50", "#3", "#-5"
func (e Evaluation) Score() string {
	if e.Mate != nil {
		return "#" + strconv.Itoa(*e.Mate)
	}
	if e.Centipawns == nil {
		return "?"
	}
	cp := *e.Centipawns
	sign := "+"
	if cp < 0 {
		sign = "-"
		cp = -cp
	}
	whole := cp / 100
	frac := cp % 100
	if frac < 10 {
		return sign + strconv.Itoa(whole) + ".0" + strconv.Itoa(frac)
	}
	return sign + strconv.Itoa(whole) + "." + strconv.Itoa(frac)
}

// evalJSON is the wire form of an Evaluation: {"type":"cp","value":-34}
// or {"type":"mate","value":3}.
type evalJSON struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// MarshalJSON encodes the evaluation in its tagged wire form.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	switch {
	case e.Mate != nil:
		return json.Marshal(evalJSON{Type: "mate", Value: *e.Mate})
	case e.Centipawns != nil:
		return json.Marshal(evalJSON{Type: "cp", Value: *e.Centipawns})
	default:
		return nil, errors.New("chessprof: evaluation carries no score")
	}
}

// UnmarshalJSON decodes the tagged wire form.
func (e *Evaluation) UnmarshalJSON(data []byte) error {
	var raw evalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := raw.Value
	switch raw.Type {
	case "cp":
		e.Centipawns, e.Mate = &v, nil
	case "mate":
		e.Centipawns, e.Mate = nil, &v
	default:
		return fmt.Errorf("chessprof: unknown evaluation type %q", raw.Type)
	}
	return nil
}

// EvalPoint is one engine evaluation attributed to the side that just moved.
// MoveNumber is the 1-based ply index within the whole game, so the white
// sequence carries odd numbers and the black sequence even numbers.
type EvalPoint struct {
	MoveNumber int        `json:"move_number"`
	Eval       Evaluation `json:"evaluation"`
}
