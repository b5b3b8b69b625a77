package game

import "errors"

// Rejections. These are reported to the caller and never leave a board in a
// partially mutated state.
var (
	ErrRowFull       = errors.New("row full")
	ErrRowEmpty      = errors.New("row empty")
	ErrIncompleteRow = errors.New("incomplete row")
	ErrGameOver      = errors.New("game over")
	ErrInvalidLetter = errors.New("invalid letter")
)

// Construction errors.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrInvalidState  = errors.New("invalid state")
)

// IsRejection reports whether err is one of the non-fatal input rejections
// that adapters should surface as user feedback.
func IsRejection(err error) bool {
	return errors.Is(err, ErrRowFull) ||
		errors.Is(err, ErrRowEmpty) ||
		errors.Is(err, ErrIncompleteRow) ||
		errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrInvalidLetter)
}

// Code returns a short snake_case identifier for a rejection, or "" if err
// is not a rejection.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrRowFull):
		return "row_full"
	case errors.Is(err, ErrRowEmpty):
		return "row_empty"
	case errors.Is(err, ErrIncompleteRow):
		return "incomplete_row"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrInvalidLetter):
		return "invalid_letter"
	}
	return ""
}
