// Command selfplay drives a gogym server through its REST API, playing both
// colours until the move budget runs out or no legal action is left.
//
// Strategies:
//   - random: any legal action
//   - greedy: the legal action that captures the most stones, random among ties
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
)

// Client talks to one session of the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// CreateSession starts a session and remembers its id
func (c *Client) CreateSession(ctx context.Context, configID string, size int) (*engine.GameState, error) {
	var info service.SessionInfo
	req := service.CreateSessionRequest{ConfigID: configID, BoardSize: size}
	if err := c.do(ctx, "POST", "/api/sessions", req, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) State(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, "GET", "/api/sessions/"+c.sessionID+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Legal(ctx context.Context) (*service.LegalActionsResult, error) {
	var legal service.LegalActionsResult
	if err := c.do(ctx, "GET", "/api/sessions/"+c.sessionID+"/legal", nil, &legal); err != nil {
		return nil, err
	}
	return &legal, nil
}

func (c *Client) Step(ctx context.Context, action int) (*service.StepResult, error) {
	var step service.StepResult
	if err := c.do(ctx, "POST", "/api/sessions/"+c.sessionID+"/step", map[string]int{"action": action}, &step); err != nil {
		return nil, err
	}
	return &step, nil
}

func (c *Client) End(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/sessions/"+c.sessionID+"/end", nil, nil)
}

// Strategy picks one of the legal actions for the player to move
type Strategy func(state *engine.GameState, legal []int) int

func randomStrategy(rng *rand.Rand) Strategy {
	return func(_ *engine.GameState, legal []int) int {
		return legal[rng.Intn(len(legal))]
	}
}

// greedyStrategy scores each legal action by the stones it would capture
func greedyStrategy(rng *rand.Rand) Strategy {
	return func(state *engine.GameState, legal []int) int {
		board, err := engine.BoardFromState(state)
		if err != nil {
			return legal[rng.Intn(len(legal))]
		}

		best, bestScore := []int(nil), -1
		for _, action := range legal {
			at := board.CoordinateOf(action)
			scratch := board.Clone()
			scratch.Set(at, state.CurrentPlayer)
			score := len(engine.ResolveCaptures(scratch, at, state.CurrentPlayer))

			switch {
			case score > bestScore:
				best, bestScore = []int{action}, score
			case score == bestScore:
				best = append(best, action)
			}
		}
		return best[rng.Intn(len(best))]
	}
}

// Summary reports one self-play game
type Summary struct {
	SessionID string
	Moves     int
	Captures  map[engine.Stone]int
	Final     *engine.GameState
	Exhausted bool
}

// play alternates moves until maxMoves or until the player to move has no
// legal action, then ends the game.
func play(ctx context.Context, c *Client, strategy Strategy, maxMoves int, logger *zap.SugaredLogger) (*Summary, error) {
	summary := &Summary{SessionID: c.sessionID, Captures: map[engine.Stone]int{}}

	for summary.Moves < maxMoves {
		legal, err := c.Legal(ctx)
		if err != nil {
			return nil, err
		}
		if len(legal.Actions) == 0 {
			summary.Exhausted = true
			break
		}

		state, err := c.State(ctx)
		if err != nil {
			return nil, err
		}

		action := strategy(state, legal.Actions)
		step, err := c.Step(ctx, action)
		if err != nil {
			return nil, err
		}
		if !step.Info.Accepted {
			// legal actions come from the same state, so this is a server bug
			return nil, fmt.Errorf("legal action %d rejected: %s", action, step.Info.Reason)
		}

		summary.Moves++
		summary.Captures[step.Info.Player] += len(step.Info.Removed)
		logger.Debugw("step", "move", summary.Moves, "player", step.Info.Player.String(),
			"action", action, "captured", len(step.Info.Removed))
	}

	if err := c.End(ctx); err != nil {
		return nil, err
	}
	final, err := c.State(ctx)
	if err != nil {
		return nil, err
	}
	summary.Final = final
	return summary, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "selfplay",
		Usage: "Play a game against a running gogym server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("GOGYM_API_URL")},
			&cli.StringFlag{Name: "config", Usage: "Preset id"},
			&cli.IntFlag{Name: "size", Usage: "Board size, overrides the preset"},
			&cli.IntFlag{Name: "max-moves", Value: 200, Usage: "Maximum moves before the game is ended"},
			&cli.StringFlag{Name: "strategy", Value: "greedy", Usage: "random or greedy"},
			&cli.IntFlag{Name: "seed", Usage: "Random seed (0 = time based)"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			zl, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			if !cmd.Bool("v") {
				zl = zap.NewNop()
			}
			logger := zl.Sugar()

			seed := int64(cmd.Int("seed"))
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))

			var strategy Strategy
			switch cmd.String("strategy") {
			case "random":
				strategy = randomStrategy(rng)
			case "greedy":
				strategy = greedyStrategy(rng)
			default:
				return fmt.Errorf("unknown strategy %q", cmd.String("strategy"))
			}

			client := NewClient(cmd.String("url"))
			if _, err := client.CreateSession(ctx, cmd.String("config"), int(cmd.Int("size"))); err != nil {
				return err
			}

			summary, err := play(ctx, client, strategy, int(cmd.Int("max-moves")), logger)
			if err != nil {
				return err
			}

			fmt.Printf("Session %s: %d moves, captures black=%d white=%d\n",
				summary.SessionID, summary.Moves, summary.Captures[engine.Black], summary.Captures[engine.White])
			if summary.Exhausted {
				fmt.Println("Stopped: no legal move left")
			}
			if b, err := engine.BoardFromState(summary.Final); err == nil {
				fmt.Printf("\n%s\n", b)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
