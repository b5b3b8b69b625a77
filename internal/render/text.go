// internal/render/text.go
//
// Plain-text renderer for a board view, used by the terminal client.
//
// Tile legend:
//   [W]  correct
//   (W)  present
//   -W-  absent
//    W   typed, not submitted yet
//    .   empty

package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

// Tile formats a single cell as a three-character tile.
func Tile(c game.Cell) string {
	if c.Letter == "" {
		return " . "
	}
	switch c.Mark {
	case game.MarkCorrect:
		return "[" + c.Letter + "]"
	case game.MarkPresent:
		return "(" + c.Letter + ")"
	case game.MarkAbsent:
		return "-" + c.Letter + "-"
	}
	return " " + c.Letter + " "
}

// Status returns the one-line summary shown under the grid.
func Status(v game.View) string {
	switch v.Status {
	case game.StatusWon:
		return fmt.Sprintf("You won in %d/%d!", v.Row+1, v.Rows)
	case game.StatusLost:
		return fmt.Sprintf("Game over! The word was %s.", v.Secret)
	}
	return fmt.Sprintf("Attempt %d/%d", v.Row+1, v.Rows)
}

// Write renders v as a grid followed by a status line.
func Write(w io.Writer, v game.View) error {
	bw := bufio.NewWriter(w)
	for _, row := range v.Grid {
		for i, c := range row {
			if i > 0 {
				_ = bw.WriteByte(' ')
			}
			_, _ = bw.WriteString(Tile(c))
		}
		_ = bw.WriteByte('\n')
	}
	_, _ = bw.WriteString(Status(v))
	_ = bw.WriteByte('\n')
	return bw.Flush()
}
