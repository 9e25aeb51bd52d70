package chessprof

import (
	"encoding/json"
	"strings"
)

// Result strings as recorded in PGN headers. Every AnalyzedGame carries one
// of these.
const (
	ResultWhiteWon = "1-0"
	ResultBlackWon = "0-1"
	ResultDraw     = "1/2-1/2"
	ResultUnknown  = "*"
)

// Participant is one player's entry in a raw archive record.
type Participant struct {
	Username string `json:"username,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	Result   string `json:"result,omitempty"`
}

// RawGame is a single archived game as fetched from chess.com: move text
// plus participant and timing metadata. Archive entries may also be bare
// PGN strings, in which case only PGN is set.
type RawGame struct {
	URL         string      `json:"url,omitempty"`
	PGN         string      `json:"pgn"`
	TimeControl string      `json:"time_control,omitempty"`
	EndTime     int64       `json:"end_time,omitempty"`
	White       Participant `json:"white,omitzero"`
	Black       Participant `json:"black,omitzero"`
}

// UnmarshalJSON accepts either a bare PGN string or a full game object.
func (g *RawGame) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var pgn string
		if err := json.Unmarshal(data, &pgn); err != nil {
			return err
		}
		*g = RawGame{PGN: pgn}
		return nil
	}

	// Alias avoids recursing into this method.
	type rawGame RawGame
	var raw rawGame
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = RawGame(raw)
	return nil
}

// AnalyzedGame is the structured analysis of one raw game: header metadata
// plus the significant evaluation dips for each side. Immutable once built.
type AnalyzedGame struct {
	PGN         string `json:"pgn"`
	Result      string `json:"result"`
	TimeControl string `json:"time_control"`
	White       string `json:"white"`
	WhiteElo    int    `json:"white_elo"`
	Black       string `json:"black"`
	BlackElo    int    `json:"black_elo"`
	Termination string `json:"termination"`
	WhiteDips   []Dip  `json:"white_dips"`
	BlackDips   []Dip  `json:"black_dips"`
}

// PlaysWhite reports whether username holds the white pieces in this game.
// The comparison is case-insensitive. A username matching neither side is
// treated as black, which keeps the result-perspective convention of the
// profile aggregation consistent for foreign games.
func (g *AnalyzedGame) PlaysWhite(username string) bool {
	return strings.EqualFold(g.White, username)
}

// OwnDips returns the dip list for the side username played.
func (g *AnalyzedGame) OwnDips(username string) []Dip {
	if g.PlaysWhite(username) {
		return g.WhiteDips
	}
	return g.BlackDips
}
