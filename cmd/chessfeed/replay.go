package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/chessfeed/internal/board"
	"github.com/vytor/chessfeed/internal/engine"
)

func newReplayCmd() *cobra.Command {
	var (
		file  string
		isPGN bool
	)
	cmd := &cobra.Command{
		Use:   "replay [MOVETEXT]",
		Short: "Replay movetext and print the resulting board",
		Long: `Loads numbered movetext ("1. e4 e5 2. Nf3") from the argument, from --file,
or from stdin, and prints the move list, the final FEN and the side to move.
With --pgn the input is read as a full PGN game and its tag pairs are printed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(logSettings(cmd, "INFO", "text"))

			text, err := replayInput(cmd, args, file)
			if err != nil {
				return err
			}

			c, err := board.NewController(engine.StartSentinel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isPGN {
				headers, err := c.LoadPGN(text)
				if err != nil {
					return err
				}
				for _, key := range slices.Sorted(maps.Keys(headers)) {
					fmt.Fprintf(out, "[%s %q]\n", key, headers[key])
				}
			} else if err := c.LoadMovetext(text); err != nil {
				return err
			}

			st := c.State()
			fmt.Fprintf(out, "moves: %s\n", st.Movetext)
			fmt.Fprintf(out, "plies: %d\n", len(st.History))
			fmt.Fprintf(out, "fen:   %s\n", st.FEN)
			fmt.Fprintf(out, "turn:  %s\n", st.Turn)
			if st.Outcome != "" {
				fmt.Fprintf(out, "outcome: %s\n", st.Outcome)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read movetext from a file")
	cmd.Flags().BoolVar(&isPGN, "pgn", false, "treat the input as a full PGN game")
	return cmd
}

func replayInput(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", fmt.Errorf("pass movetext either as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(raw), nil
	default:
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if strings.TrimSpace(string(raw)) == "" {
			return "", fmt.Errorf("no movetext given")
		}
		return string(raw), nil
	}
}
