// internal/game/state.go
//
// Serializable form of a Board, used by session stores.
// Restore re-checks every grid/cursor invariant so a corrupted or hand-edited
// record can never produce a board the state machine could not have reached.

package game

import (
	"fmt"
	"slices"
)

// RowState is one grid row: the letters typed (a prefix of the row) and the
// marks recorded when it was submitted.
type RowState struct {
	Letters string `json:"letters"`
	Marks   []Mark `json:"marks,omitempty"`
}

// State is the persisted form of a Board.
type State struct {
	ID     string     `json:"id"`
	Config Config     `json:"config"`
	Grid   []RowState `json:"grid"`
	Row    int        `json:"row"`
	Tile   int        `json:"tile"`
	Status Status     `json:"status"`
}

// State exports the board. The result shares no memory with b.
func (b *Board) State() State {
	st := State{
		ID:     b.id,
		Config: b.cfg,
		Grid:   make([]RowState, b.cfg.Rows),
		Row:    b.row,
		Tile:   b.tile,
		Status: b.status,
	}
	for r := range b.letters {
		n := 0
		for n < len(b.letters[r]) && b.letters[r][n] != 0 {
			n++
		}
		st.Grid[r] = RowState{
			Letters: string(b.letters[r][:n]),
			Marks:   copyMarks(b.marks[r]),
		}
	}
	return st
}

// Restore rebuilds a Board from st, validating it first.
func Restore(st State) (*Board, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	cfg := st.Config
	b := &Board{
		id:      st.ID,
		cfg:     cfg,
		letters: make([][]byte, cfg.Rows),
		marks:   make([][]Mark, cfg.Rows),
		row:     st.Row,
		tile:    st.Tile,
		status:  st.Status,
	}
	for r := range b.letters {
		b.letters[r] = make([]byte, cfg.Cols)
		copy(b.letters[r], st.Grid[r].Letters)
		b.marks[r] = copyMarks(st.Grid[r].Marks)
	}
	return b, nil
}

// Validate checks that st is reachable through the public board operations.
func (st State) Validate() error {
	cfg := st.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	if st.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidState)
	}
	if len(st.Grid) != cfg.Rows {
		return fmt.Errorf("%w: grid has %d rows, want %d", ErrInvalidState, len(st.Grid), cfg.Rows)
	}
	if st.Tile < 0 || st.Tile > cfg.Cols {
		return fmt.Errorf("%w: tile %d out of range", ErrInvalidState, st.Tile)
	}

	switch st.Status {
	case StatusPlaying:
		if st.Row < 0 || st.Row >= cfg.Rows {
			return fmt.Errorf("%w: row %d out of range", ErrInvalidState, st.Row)
		}
	case StatusWon:
		if st.Row < 0 || st.Row >= cfg.Rows || st.Tile != cfg.Cols {
			return fmt.Errorf("%w: won with cursor (%d,%d)", ErrInvalidState, st.Row, st.Tile)
		}
		if st.Grid[st.Row].Letters != cfg.Secret {
			return fmt.Errorf("%w: won row does not match secret", ErrInvalidState)
		}
	case StatusLost:
		if st.Row != cfg.Rows || st.Tile != 0 {
			return fmt.Errorf("%w: lost with cursor (%d,%d)", ErrInvalidState, st.Row, st.Tile)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, st.Status)
	}

	for r, rs := range st.Grid {
		if !isUpperAlpha(rs.Letters) {
			return fmt.Errorf("%w: row %d has non-letter content", ErrInvalidState, r)
		}
		submitted := r < st.Row || (r == st.Row && st.Status == StatusWon)
		switch {
		case submitted:
			if len(rs.Letters) != cfg.Cols {
				return fmt.Errorf("%w: submitted row %d is not full", ErrInvalidState, r)
			}
			if r < st.Row && rs.Letters == cfg.Secret {
				return fmt.Errorf("%w: row %d matches secret but game continued", ErrInvalidState, r)
			}
			if !slices.Equal(rs.Marks, Evaluate(cfg.Secret, rs.Letters)) {
				return fmt.Errorf("%w: row %d marks do not match its letters", ErrInvalidState, r)
			}
		case r == st.Row:
			if len(rs.Letters) != st.Tile || len(rs.Marks) != 0 {
				return fmt.Errorf("%w: active row %d disagrees with cursor", ErrInvalidState, r)
			}
		default:
			if rs.Letters != "" || len(rs.Marks) != 0 {
				return fmt.Errorf("%w: row %d is ahead of the cursor", ErrInvalidState, r)
			}
		}
	}
	return nil
}
