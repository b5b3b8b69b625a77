// internal/input/intent.go
//
// Key-to-intent mapping for the board.
// Raw keys (from a keyboard, a terminal line, or a websocket frame) are turned
// into one of three intents: insert a letter, delete a letter, submit the row.
// Anything else is ignored by the caller.

package input

import (
	"errors"
	"strings"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

// Kind identifies an intent.
type Kind int

const (
	Insert Kind = iota + 1
	Delete
	Submit
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Submit:
		return "submit"
	}
	return "unknown"
}

// Intent is one discrete player action. Letter is only set for Insert and is
// always upper case.
type Intent struct {
	Kind   Kind
	Letter byte
}

// ErrUnknownIntent is returned by Apply for an Intent with no Kind.
var ErrUnknownIntent = errors.New("unknown intent")

// DeleteKey is the character that deletes a letter in ParseLine.
const DeleteKey = '-'

// ParseKey maps a key name to an intent. Names are case-insensitive:
// "Enter" submits, "Backspace"/"Delete" deletes, and a single letter a–z
// inserts that letter. ok is false for every other key.
func ParseKey(key string) (in Intent, ok bool) {
	k := strings.ToUpper(strings.TrimSpace(key))
	switch k {
	case "ENTER", "RETURN":
		return Intent{Kind: Submit}, true
	case "BACKSPACE", "DELETE", "DEL":
		return Intent{Kind: Delete}, true
	}
	if len(k) == 1 && k[0] >= 'A' && k[0] <= 'Z' {
		return Intent{Kind: Insert, Letter: k[0]}, true
	}
	return Intent{}, false
}

// ParseLine maps one line of terminal input to intents.
// Letters insert, DeleteKey deletes, and the end of the line submits the row.
// Whitespace and other characters are skipped.
func ParseLine(line string) []Intent {
	var out []Intent
	for _, r := range line {
		switch {
		case r == DeleteKey:
			out = append(out, Intent{Kind: Delete})
		case r >= 'a' && r <= 'z':
			out = append(out, Intent{Kind: Insert, Letter: byte(r - 'a' + 'A')})
		case r >= 'A' && r <= 'Z':
			out = append(out, Intent{Kind: Insert, Letter: byte(r)})
		}
	}
	return append(out, Intent{Kind: Submit})
}

// Apply performs in on b. It returns the marks for a successful Submit.
func Apply(b *game.Board, in Intent) ([]game.Mark, error) {
	switch in.Kind {
	case Insert:
		return nil, b.InsertLetter(in.Letter)
	case Delete:
		_, err := b.DeleteLetter()
		return nil, err
	case Submit:
		return b.SubmitRow()
	}
	return nil, ErrUnknownIntent
}
