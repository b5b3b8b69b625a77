// internal/game/types.go
//
// Core type definitions for the tile-board game.
// Defines:
//   - Mark: per-letter classification of a submitted row.
//   - Status: coarse game state (playing/won/lost).
//   - Phase: finer state machine position used by adapters.
//   - Config: session dimensions and the secret word.

package game

import (
	"fmt"
	"strings"
)

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is in the secret at this position.
//   - "present": letter is in the secret at a different, unconsumed position.
//   - "absent":  letter is not (or no longer) available in the secret.
//
// The zero value "" means the cell has not been classified yet.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// Status is the coarse state of a game.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether no further mutation is permitted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// Phase is the position of a board in its turn state machine.
// Accepting and RowFull are both StatusPlaying; RowFull blocks insertion
// but still allows deletion and submission.
type Phase string

const (
	PhaseAccepting Phase = "accepting"
	PhaseRowFull   Phase = "row_full"
	PhaseWon       Phase = "won"
	PhaseLost      Phase = "lost"
)

const (
	DefaultRows   = 6
	DefaultCols   = 5
	DefaultSecret = "WORDS"
)

// Config holds the per-session settings. It is fixed once a board is created.
type Config struct {
	Rows   int    `json:"rows" yaml:"rows"`     // attempts allowed
	Cols   int    `json:"cols" yaml:"cols"`     // tiles per row
	Secret string `json:"secret" yaml:"secret"` // target word, length Cols
}

// DefaultConfig returns the classic 6x5 layout with the built-in secret.
func DefaultConfig() Config {
	return Config{Rows: DefaultRows, Cols: DefaultCols, Secret: DefaultSecret}
}

// Normalize upper-cases and trims the secret.
func (c Config) Normalize() Config {
	c.Secret = strings.ToUpper(strings.TrimSpace(c.Secret))
	return c
}

// Validate checks dimensions and that the secret is exactly Cols letters A–Z.
func (c Config) Validate() error {
	if c.Rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, c.Rows)
	}
	if c.Cols <= 0 {
		return fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidConfig, c.Cols)
	}
	if len(c.Secret) != c.Cols {
		return fmt.Errorf("%w: secret must be %d letters, got %q", ErrInvalidConfig, c.Cols, c.Secret)
	}
	if !isUpperAlpha(c.Secret) {
		return fmt.Errorf("%w: secret must be letters A-Z, got %q", ErrInvalidConfig, c.Secret)
	}
	return nil
}

// isUpperAlpha reports whether s consists only of A–Z.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isUpper(s[i]) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
