package chessprof

import (
	"encoding/json"
	"fmt"
)

// DefaultDipThreshold is the centipawn swing that counts as significant.
const DefaultDipThreshold = 150

// mateDelta is the wire sentinel for a dip involving a mate-typed score.
const mateDelta = "mate involved"

// Dip is a significant evaluation swing between two consecutive half-moves
// by the same side.
type Dip struct {
	// MoveNumber is the ply index of the later of the two half-moves.
	MoveNumber int

	// Before and After are the evaluations on either side of the swing.
	Before Evaluation
	After  Evaluation

	// Delta is the centipawn difference After-Before. Nil when either
	// evaluation is mate-typed; callers must check MateInvolved before
	// using it. Mate distances are never compared against the centipawn
	// threshold.
	Delta *int
}

// MateInvolved returns true if the dip crosses into or out of a forced mate.
func (d Dip) MateInvolved() bool {
	return d.Delta == nil
}

// DetectDips scans one side's ordered evaluation sequence and returns the
// significant swings. Adjacent centipawn pairs emit a dip iff the absolute
// delta meets the threshold; a pair with a mate-typed evaluation on either
// end always emits one. Sequences of length 0 or 1 yield an empty list.
func DetectDips(points []EvalPoint, threshold int) []Dip {
	dips := []Dip{}
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Eval
		curr := points[i].Eval

		switch {
		case prev.IsMate() || curr.IsMate():
			dips = append(dips, Dip{
				MoveNumber: points[i].MoveNumber,
				Before:     prev,
				After:      curr,
			})
		case prev.Centipawns != nil && curr.Centipawns != nil:
			delta := *curr.Centipawns - *prev.Centipawns
			if abs(delta) >= threshold {
				d := delta
				dips = append(dips, Dip{
					MoveNumber: points[i].MoveNumber,
					Before:     prev,
					After:      curr,
					Delta:      &d,
				})
			}
		}
	}
	return dips
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// cpDipJSON is the wire form of a centipawn dip: scores are bare integers.
type cpDipJSON struct {
	MoveNumber  int `json:"move_number"`
	ScoreBefore int `json:"score_before"`
	ScoreAfter  int `json:"score_after"`
	Delta       int `json:"delta"`
}

// mateDipJSON is the wire form of a mate-involved dip: scores keep their
// full tagged evaluations and delta is the sentinel string.
type mateDipJSON struct {
	MoveNumber  int        `json:"move_number"`
	ScoreBefore Evaluation `json:"score_before"`
	ScoreAfter  Evaluation `json:"score_after"`
	Delta       string     `json:"delta"`
}

// MarshalJSON encodes the dip in its wire form, which varies by kind.
func (d Dip) MarshalJSON() ([]byte, error) {
	if d.MateInvolved() {
		return json.Marshal(mateDipJSON{
			MoveNumber:  d.MoveNumber,
			ScoreBefore: d.Before,
			ScoreAfter:  d.After,
			Delta:       mateDelta,
		})
	}
	return json.Marshal(cpDipJSON{
		MoveNumber:  d.MoveNumber,
		ScoreBefore: *d.Before.Centipawns,
		ScoreAfter:  *d.After.Centipawns,
		Delta:       *d.Delta,
	})
}

// UnmarshalJSON decodes either wire form, branching on the delta field.
func (d *Dip) UnmarshalJSON(data []byte) error {
	var probe struct {
		Delta json.RawMessage `json:"delta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var delta int
	if err := json.Unmarshal(probe.Delta, &delta); err == nil {
		var raw cpDipJSON
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*d = Dip{
			MoveNumber: raw.MoveNumber,
			Before:     CP(raw.ScoreBefore),
			After:      CP(raw.ScoreAfter),
			Delta:      &delta,
		}
		return nil
	}

	var raw mateDipJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Delta != mateDelta {
		return fmt.Errorf("chessprof: unknown dip delta %q", raw.Delta)
	}
	*d = Dip{
		MoveNumber: raw.MoveNumber,
		Before:     raw.ScoreBefore,
		After:      raw.ScoreAfter,
	}
	return nil
}
