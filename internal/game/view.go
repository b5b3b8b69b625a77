package game

// Cell is one rendered tile.
type Cell struct {
	Letter string `json:"letter,omitempty"`
	Mark   Mark   `json:"mark,omitempty"`
}

// View is everything a renderer needs to redraw a board.
// Secret is only filled in once the game is lost.
type View struct {
	ID     string   `json:"gameId"`
	Rows   int      `json:"rows"`
	Cols   int      `json:"cols"`
	Row    int      `json:"row"`
	Tile   int      `json:"tile"`
	Status Status   `json:"status"`
	Phase  Phase    `json:"phase"`
	Grid   [][]Cell `json:"grid"`
	Secret string   `json:"secret,omitempty"`
}

// View snapshots the board for rendering. The result shares no memory with b.
func (b *Board) View() View {
	v := View{
		ID:     b.id,
		Rows:   b.cfg.Rows,
		Cols:   b.cfg.Cols,
		Row:    b.row,
		Tile:   b.tile,
		Status: b.status,
		Phase:  b.Phase(),
		Grid:   make([][]Cell, b.cfg.Rows),
	}
	for r := 0; r < b.cfg.Rows; r++ {
		cells := make([]Cell, b.cfg.Cols)
		for c := 0; c < b.cfg.Cols; c++ {
			if l := b.letters[r][c]; l != 0 {
				cells[c].Letter = string(l)
			}
			if b.marks[r] != nil {
				cells[c].Mark = b.marks[r][c]
			}
		}
		v.Grid[r] = cells
	}
	if b.status == StatusLost {
		v.Secret = b.cfg.Secret
	}
	return v
}
