package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
)

func stoneChar(s engine.Stone) byte {
	switch s {
	case engine.Black:
		return 'X'
	case engine.White:
		return 'O'
	default:
		return '.'
	}
}

func playerName(s engine.Stone) string {
	switch s {
	case engine.Black:
		return "Black (X)"
	case engine.White:
		return "White (O)"
	default:
		return "nobody"
	}
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatBoard draws the board with column indexes on top and row indexes on
// the left, so points can be read straight off the grid.
func formatBoard(board [][]engine.Stone) string {
	size := len(board)
	width := len(fmt.Sprint(size - 1))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width+1))
	for c := 0; c < size; c++ {
		fmt.Fprintf(&b, " %*d", width, c)
	}
	b.WriteString("\n")

	for r, row := range board {
		fmt.Fprintf(&b, "%*d ", width, r)
		for _, s := range row {
			fmt.Fprintf(&b, " %*c", width, stoneChar(s))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board: %dx%d | To move: %s | Moves: %d | Captures: X=%d O=%d\n",
		state.BoardSize, state.BoardSize, playerName(state.CurrentPlayer), state.MoveNumber,
		state.Captures[engine.Black], state.Captures[engine.White])

	if state.LastMove != nil {
		fmt.Fprintf(&b, "Last move: %s at %s", playerName(state.LastMove.Player), state.LastMove.Coordinate)
		if n := len(state.LastMove.Removed); n > 0 {
			fmt.Fprintf(&b, ", captured %d", n)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatBoard(state.Board))

	if state.Status == engine.StatusEnded {
		b.WriteString("\nGAME OVER")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✓ %s played (%d,%d)\n", playerName(result.Player), result.Row, result.Col)
	} else {
		fmt.Fprintf(&b, "✗ Move rejected: %s\n", result.Reason)
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if len(result.Removed) > 0 {
		fmt.Fprintf(&b, "Captured: %s\n", formatCoordinates(result.Removed))
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatStepResult(result *service.StepResult) string {
	info := result.Info
	var b strings.Builder
	if info.Accepted {
		fmt.Fprintf(&b, "✓ action %d → (%d,%d) by %s\n", info.Action, info.Row, info.Col, playerName(info.Player))
	} else {
		fmt.Fprintf(&b, "✗ action %d rejected: %s\n", info.Action, info.Reason)
	}
	if len(info.Removed) > 0 {
		fmt.Fprintf(&b, "Captured: %s\n", formatCoordinates(info.Removed))
	}
	fmt.Fprintf(&b, "Reward: %g | Done: %t | Next: %s | Moves: %d\n",
		result.Reward, result.Done, playerName(info.CurrentPlayer), info.MoveNumber)
	return b.String()
}

func formatBulkStepResult(sessionID string, result *service.BulkStepResult) string {
	var b strings.Builder

	size := 0
	configName := ""
	if result.GameState != nil {
		size = result.GameState.BoardSize
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s • Board: %dx%d\n", sessionID, configName, size, size)

	fmt.Fprintf(&b, "Executed %d/%d actions\n", result.StepsExecuted, result.RequestedSteps)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d actions\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}
	fmt.Fprintf(&b, "Total reward: %g | Stones captured: %d | Done: %t\n",
		result.TotalReward, result.StonesCaptured, result.Done)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i, s := range result.Steps {
			status := "✓"
			detail := fmt.Sprintf("(%d,%d)", s.Row, s.Col)
			if !s.Accepted {
				status = "✗"
				detail += " " + string(s.Reason)
			} else if len(s.Removed) > 0 {
				detail += fmt.Sprintf(" captured %d", len(s.Removed))
			}
			fmt.Fprintf(&b, "%d. %c action %d %s %s\n", i+1, stoneChar(s.Player), s.Action, detail, status)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatLegalActions(result *service.LegalActionsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d legal actions for %s on %dx%d:\n",
		len(result.Actions), playerName(result.CurrentPlayer), result.BoardSize, result.BoardSize)
	if result.BoardSize == 0 {
		return b.String()
	}

	parts := make([]string, 0, len(result.Actions))
	for _, a := range result.Actions {
		parts = append(parts, fmt.Sprintf("%d(%d,%d)", a, a/result.BoardSize, a%result.BoardSize))
	}
	b.WriteString(strings.Join(parts, " "))
	return b.String()
}

func describePoint(board *engine.Board, at engine.Coordinate) string {
	stone := board.Get(at)
	var b strings.Builder
	fmt.Fprintf(&b, "Point %s (action %d): %s\n", at, board.IndexOf(at), stone)

	group, ok := engine.FindGroup(board, at)
	if !ok {
		var stones []string
		for _, n := range board.Neighbors(at) {
			stones = append(stones, fmt.Sprintf("%s=%c", n, stoneChar(board.Get(n))))
		}
		fmt.Fprintf(&b, "Neighbours: %s\n", strings.Join(stones, " "))
		return b.String()
	}

	liberties := engine.Liberties(board, group)
	fmt.Fprintf(&b, "Group: %d %s stone(s) %s\n", group.Size(), stone, formatCoordinates(group.Stones))
	fmt.Fprintf(&b, "Liberties: %d %s\n", len(liberties), formatCoordinates(liberties))
	if len(liberties) == 1 {
		b.WriteString("In atari: one more stone on the last liberty captures this group\n")
	}
	return b.String()
}

func formatCoordinates(cs []engine.Coordinate) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		fmt.Fprintf(&b, "#%d %c %s", move.MoveNumber, stoneChar(move.Player), move.Coordinate)
		if n := len(move.Removed); n > 0 {
			fmt.Fprintf(&b, " captured %d", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}
