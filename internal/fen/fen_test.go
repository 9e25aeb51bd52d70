package fen

import (
	"errors"
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want string
	}{
		{
			name: "full FEN drops counters",
			fen:  "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			want: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		},
		{
			name: "four fields pass through",
			fen:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3",
			want: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint(tt.fen)
			if err != nil {
				t.Fatalf("Fingerprint() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Fingerprint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFingerprint_TranspositionsShareKey(t *testing.T) {
	a, err := Fingerprint("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	b, err := Fingerprint("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 4 9")
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if a != b {
		t.Errorf("fingerprints differ: %q vs %q", a, b)
	}
}

func TestFingerprint_Invalid(t *testing.T) {
	bad := []string{
		"",
		"too few fields w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq -",          // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq -", // bad piece
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq -", // bad side
	}
	for _, fen := range bad {
		if _, err := Fingerprint(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("Fingerprint(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestSideToMove(t *testing.T) {
	side, err := SideToMove("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("SideToMove() error = %v", err)
	}
	if side != "b" {
		t.Errorf("SideToMove() = %q, want b", side)
	}

	if _, err := SideToMove("placement"); !errors.Is(err, ErrInvalidFEN) {
		t.Errorf("SideToMove() error = %v, want ErrInvalidFEN", err)
	}
}
