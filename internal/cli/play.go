package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
	"github.com/robalobadob/wordle/apps/tile-board/internal/input"
	"github.com/robalobadob/wordle/apps/tile-board/internal/render"
)

func newPlayCmd() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play one game on stdin/stdout.

Each line is typed into the current row: letters are inserted, '-' deletes
the last letter, and the end of the line submits the row.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := cfg.Game
			if secret != "" {
				gc.Secret = secret
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
			return play(cmd.InOrStdin(), cmd.OutOrStdout(), gc, logger)
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Secret word for this game (env: WORDLE_SECRET)")
	return cmd
}

// play runs one game reading lines from in until the game ends or in is
// exhausted.
func play(in io.Reader, out io.Writer, gc game.Config, logger zerolog.Logger) error {
	b, err := game.New(gc)
	if err != nil {
		return err
	}
	cfg := b.Config()
	d := input.NewDispatcher(logger)

	logger.Debug().Str("gameId", b.ID()).Str("target", cfg.Secret).Msg("game initialized")
	fmt.Fprintf(out, "Guess the %d-letter word in %d tries.\n", cfg.Cols, cfg.Rows)
	fmt.Fprintf(out, "Type letters, '%c' deletes, Enter submits.\n", input.DeleteKey)
	if err := render.Write(out, b.View()); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for !b.Status().Terminal() && sc.Scan() {
		for _, it := range input.ParseLine(sc.Text()) {
			if _, err := d.Dispatch(b, it); err != nil {
				if !game.IsRejection(err) {
					return err
				}
				fmt.Fprintf(out, "! %s\n", input.Hint(err))
			}
		}
		if err := render.Write(out, b.View()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	if b.Status() == game.StatusWon {
		fmt.Fprintln(out, "Congratulations! You guessed the word!")
	}
	return nil
}
