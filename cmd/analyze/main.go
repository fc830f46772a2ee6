// Command analyze replays a sequence of actions on an empty board and prints
// what happened: each move with its captures or rejection reason, the final
// board, every group with its liberties, and the groups left in atari.
//
//	analyze --size 5 1 0 5
//	analyze --preset configs/small.json "40,41,31"
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/gogym/game/config"
	"github.com/wricardo/gogym/game/engine"
)

// parseActions accepts action indexes separated by spaces or commas
func parseActions(args []string) ([]int, error) {
	var actions []int
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("bad action %q: %w", field, err)
			}
			actions = append(actions, n)
		}
	}
	return actions, nil
}

// replay plays actions in order. Rejected actions are reported and skipped,
// leaving the same player to move.
func replay(cfg *engine.GameConfig, actions []int, out io.Writer) (*engine.GameEngine, error) {
	e, err := engine.NewEngineWithConfig(cfg)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "=== %s (%dx%d) ===\n", cfg.Name, cfg.BoardSize, cfg.BoardSize)
	for i, action := range actions {
		res := e.SubmitAction(action)
		if !res.Accepted {
			fmt.Fprintf(out, "%3d. %-5s action %d rejected: %s\n", i+1, res.Player, action, res.Reason)
			continue
		}
		fmt.Fprintf(out, "%3d. %-5s %s", i+1, res.Player, res.Coordinate)
		if len(res.Removed) > 0 {
			fmt.Fprintf(out, " captures %d %v", len(res.Removed), res.Removed)
		}
		fmt.Fprintln(out)
	}
	return e, nil
}

func summarize(e *engine.GameEngine, out io.Writer) {
	board := e.Board()

	fmt.Fprintf(out, "\n%s\n\n", board)
	fmt.Fprintf(out, "Moves: %d | Next: %s | Captures: black=%d white=%d\n",
		len(e.GetMoveHistory()), e.CurrentPlayer(), e.Captures(engine.Black), e.Captures(engine.White))
	fmt.Fprintf(out, "Stones: black=%d white=%d | Legal actions for %s: %d\n",
		board.Count(engine.Black), board.Count(engine.White), e.CurrentPlayer(), len(e.LegalActions()))

	groups := engine.AllGroups(board)
	if len(groups) == 0 {
		return
	}

	fmt.Fprintf(out, "\nGroups (%d):\n", len(groups))
	var atari []engine.Group
	for _, g := range groups {
		libs := engine.CountLiberties(board, g)
		fmt.Fprintf(out, "  %-5s size=%d liberties=%d from %s\n", g.Color, g.Size(), libs, g.Stones[0])
		if libs == 1 {
			atari = append(atari, g)
		}
	}

	for _, g := range atari {
		last := engine.Liberties(board, g)[0]
		fmt.Fprintf(out, "⚠️  %s group at %s is in atari, last liberty %s (action %d)\n",
			g.Color, g.Stones[0], last, board.IndexOf(last))
	}
}

func run(preset string, size int, args []string, out io.Writer) error {
	cfg := engine.ConfigForSize(size)
	if preset != "" {
		loaded, err := config.ReadFile(preset)
		if err != nil {
			return err
		}
		cfg = loaded
	} else if err := engine.ValidateGameConfig(cfg); err != nil {
		return err
	}

	actions, err := parseActions(args)
	if err != nil {
		return err
	}

	e, err := replay(cfg, actions, out)
	if err != nil {
		return err
	}
	summarize(e, out)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Replay actions and describe the resulting position",
		ArgsUsage: "ACTION...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: engine.DefaultBoardSize, Usage: "Board size when no preset is given"},
			&cli.StringFlag{Name: "preset", Usage: "Preset file (JSON, YAML or TOML) to take the board from"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd.String("preset"), int(cmd.Int("size")), cmd.Args().Slice(), os.Stdout)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
