package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
)

func newCheckCmd() *cobra.Command {
	var fen string
	cmd := &cobra.Command{
		Use:   "check MOVE",
		Short: "Check one move against a position",
		Long: `Validates MOVE (SAN such as Nf3, or coordinates such as e7e8q) against the
position given by --fen and prints its canonical SAN. Exits non-zero when the
move is illegal or the notation cannot be parsed.`,
		Example: `  chessfeed check e4
  chessfeed check --fen "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq" c5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(logSettings(cmd, "INFO", "text"))

			san, err := board.ValidateMove(fen, engine.ParseMove(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), san)
			return nil
		},
	}
	cmd.Flags().StringVar(&fen, "fen", engine.StartSentinel, "position to check against")
	return cmd
}
