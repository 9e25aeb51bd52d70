package chesscom

import (
	"strings"

	"github.com/jphollanti/chessprof"
)

// lossCodes are the chess.com per-player result codes that count as a
// loss.
var lossCodes = map[string]bool{
	"resigned":   true,
	"timeout":    true,
	"checkmated": true,
	"lose":       true,
}

// LostGames filters an archive down to the games the named player lost,
// judged by the player's own result code.
func LostGames(games []chessprof.RawGame, username string) []chessprof.RawGame {
	var lost []chessprof.RawGame
	for _, g := range games {
		var own chessprof.Participant
		switch {
		case strings.EqualFold(g.White.Username, username):
			own = g.White
		case strings.EqualFold(g.Black.Username, username):
			own = g.Black
		default:
			continue
		}
		if lossCodes[strings.ToLower(own.Result)] {
			lost = append(lost, g)
		}
	}
	return lost
}
