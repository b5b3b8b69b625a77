package input

import (
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

// Dispatcher applies intents to a board and logs what happened.
// Once the board is terminal it stops forwarding intents altogether.
type Dispatcher struct {
	log zerolog.Logger
}

// NewDispatcher returns a Dispatcher writing to l.
func NewDispatcher(l zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: l}
}

// Dispatch applies in to b. Rejections are logged at warn level and returned.
func (d *Dispatcher) Dispatch(b *game.Board, in Intent) ([]game.Mark, error) {
	if b.Status().Terminal() {
		d.log.Debug().Str("gameId", b.ID()).Stringer("intent", in.Kind).Msg("ignored, game is over")
		return nil, game.ErrGameOver
	}

	row, tile := b.Cursor()
	marks, err := Apply(b, in)
	if err != nil {
		d.log.Warn().Err(err).Str("gameId", b.ID()).Str("code", game.Code(err)).
			Stringer("intent", in.Kind).Msg(Hint(err))
		return nil, err
	}

	switch in.Kind {
	case Insert:
		d.log.Debug().Str("gameId", b.ID()).Str("letter", string(in.Letter)).Int("position", tile).Msg("added letter")
	case Delete:
		d.log.Debug().Str("gameId", b.ID()).Int("position", tile-1).Msg("deleted letter")
	case Submit:
		d.logSubmit(b, row, marks)
	}
	return marks, nil
}

func (d *Dispatcher) logSubmit(b *game.Board, row int, marks []game.Mark) {
	v := b.View()
	word := make([]byte, 0, len(v.Grid[row]))
	for _, c := range v.Grid[row] {
		word = append(word, c.Letter...)
	}
	d.log.Info().Str("gameId", b.ID()).Int("row", row).Str("guess", string(word)).
		Interface("marks", marks).Msg("row submitted")

	switch b.Status() {
	case game.StatusWon:
		d.log.Info().Str("gameId", b.ID()).Int("attempts", b.Attempts()).Msg("game won")
	case game.StatusLost:
		d.log.Info().Str("gameId", b.ID()).Str("secret", v.Secret).Msg("game lost")
	}
}

// Hint is the player-facing message for a rejection.
func Hint(err error) string {
	switch game.Code(err) {
	case "row_full":
		return "row is full, submit or delete a letter"
	case "row_empty":
		return "row is empty, nothing to delete"
	case "incomplete_row":
		return "not enough letters"
	case "invalid_letter":
		return "only letters A-Z can be entered"
	case "game_over":
		return "game is over"
	}
	return "intent rejected"
}
