// internal/game/board.go
//
// Board state and the turn state machine for a single session.
// Responsibilities:
//   - Hold the R x L grid, the (row, tile) cursor and the game status.
//   - Apply the three intents: insert letter, delete letter, submit row.
//   - Hand completed rows to Evaluate and record the marks exactly once.
//   - Track transitions: playing → won/lost.
//
// Notes:
//   - Every precondition is checked before any mutation; a rejected intent
//     leaves the board untouched.
//   - A Board is owned by one session and is not safe for concurrent use.

package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Board holds the state of one game.
type Board struct {
	id      string
	cfg     Config
	letters [][]byte // letters[r][c], 0 when empty
	marks   [][]Mark // marks[r] is nil until row r is submitted
	row     int      // active row, == cfg.Rows once lost
	tile    int      // next free tile in the active row
	status  Status
}

// New constructs an empty board for cfg. The secret is normalized to upper case.
func New(cfg Config) (*Board, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		id:     uuid.NewString(),
		cfg:    cfg,
		status: StatusPlaying,
	}
	b.letters = make([][]byte, cfg.Rows)
	for r := range b.letters {
		b.letters[r] = make([]byte, cfg.Cols)
	}
	b.marks = make([][]Mark, cfg.Rows)
	return b, nil
}

// ID returns the board's unique identifier.
func (b *Board) ID() string { return b.id }

// Config returns the session settings the board was created with.
func (b *Board) Config() Config { return b.cfg }

// Status returns the coarse game status.
func (b *Board) Status() Status { return b.status }

// Cursor returns the active row and the next free tile.
func (b *Board) Cursor() (row, tile int) { return b.row, b.tile }

// Phase reports where the board sits in the turn state machine.
func (b *Board) Phase() Phase {
	switch b.status {
	case StatusWon:
		return PhaseWon
	case StatusLost:
		return PhaseLost
	}
	if b.tile == b.cfg.Cols {
		return PhaseRowFull
	}
	return PhaseAccepting
}

// InsertLetter writes letter at the cursor and advances the tile.
// Lowercase a–z is accepted and stored upper-cased.
func (b *Board) InsertLetter(letter byte) error {
	if b.status.Terminal() {
		return ErrGameOver
	}
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if !isUpper(letter) {
		return fmt.Errorf("%w: %q", ErrInvalidLetter, letter)
	}
	if b.tile >= b.cfg.Cols {
		return ErrRowFull
	}
	b.letters[b.row][b.tile] = letter
	b.tile++
	return nil
}

// DeleteLetter moves the cursor back one tile and clears that cell.
// It returns the letter that was removed.
func (b *Board) DeleteLetter() (byte, error) {
	if b.status.Terminal() {
		return 0, ErrGameOver
	}
	if b.tile <= 0 {
		return 0, ErrRowEmpty
	}
	b.tile--
	removed := b.letters[b.row][b.tile]
	b.letters[b.row][b.tile] = 0
	return removed, nil
}

// SubmitRow evaluates the active row against the secret and records the marks.
//
// State transitions:
//   - Guess equals the secret → won; the cursor stays on the winning row.
//   - Otherwise the cursor moves to the start of the next row, and the game
//     is lost once every row has been used.
func (b *Board) SubmitRow() ([]Mark, error) {
	if b.status.Terminal() {
		return nil, ErrGameOver
	}
	if b.tile != b.cfg.Cols {
		return nil, fmt.Errorf("%w: need exactly %d letters, have %d", ErrIncompleteRow, b.cfg.Cols, b.tile)
	}

	guess := string(b.letters[b.row])
	marks := Evaluate(b.cfg.Secret, guess)
	b.marks[b.row] = marks

	if guess == b.cfg.Secret {
		b.status = StatusWon
		return copyMarks(marks), nil
	}

	b.row++
	b.tile = 0
	if b.row >= b.cfg.Rows {
		b.status = StatusLost
	}
	return copyMarks(marks), nil
}

// CurrentWord returns the letters typed so far in the active row.
// It is empty once the game is lost.
func (b *Board) CurrentWord() string {
	if b.row >= b.cfg.Rows {
		return ""
	}
	return string(b.letters[b.row][:b.tile])
}

// Attempts returns the number of rows that have been submitted.
func (b *Board) Attempts() int {
	if b.status == StatusWon {
		return b.row + 1
	}
	return b.row
}

// Clone returns a deep copy that shares no memory with b.
func (b *Board) Clone() *Board {
	c := *b
	c.letters = make([][]byte, len(b.letters))
	for r := range b.letters {
		c.letters[r] = append([]byte(nil), b.letters[r]...)
	}
	c.marks = make([][]Mark, len(b.marks))
	for r := range b.marks {
		c.marks[r] = copyMarks(b.marks[r])
	}
	return &c
}

func copyMarks(m []Mark) []Mark {
	if m == nil {
		return nil
	}
	return append([]Mark(nil), m...)
}
