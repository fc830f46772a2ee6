package main

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wricardo/gogym/api"
	"github.com/wricardo/gogym/game/config"
	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
	"github.com/wricardo/gogym/game/session"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(nil), configs, nil)

	ts := httptest.NewServer(api.NewServer(svc, nil, nil))
	t.Cleanup(ts.Close)
	return ts
}

func TestGreedyStrategy_PrefersCapture(t *testing.T) {
	e, err := engine.NewEngine(3)
	require.NoError(t, err)
	require.True(t, e.SubmitMove(engine.Coordinate{Row: 0, Col: 1}).Accepted)
	require.True(t, e.SubmitMove(engine.Coordinate{Row: 0, Col: 0}).Accepted)

	pick := greedyStrategy(rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		// (1,0) takes the white stone in the corner
		assert.Equal(t, 3, pick(e.GetState(), e.LegalActions()))
	}
}

func TestRandomStrategy_PicksLegal(t *testing.T) {
	pick := randomStrategy(rand.New(rand.NewSource(7)))
	legal := []int{2, 5, 11}
	for i := 0; i < 20; i++ {
		assert.Contains(t, legal, pick(nil, legal))
	}
}

func TestPlay(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	for _, name := range []string{"random", "greedy"} {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			strategy := randomStrategy(rng)
			if name == "greedy" {
				strategy = greedyStrategy(rng)
			}

			client := NewClient(ts.URL)
			state, err := client.CreateSession(ctx, "tiny", 0)
			require.NoError(t, err)
			assert.Equal(t, 5, state.BoardSize)

			summary, err := play(ctx, client, strategy, 6, zap.NewNop().Sugar())
			require.NoError(t, err)
			assert.Equal(t, 6, summary.Moves)
			assert.False(t, summary.Exhausted)
			assert.Equal(t, engine.StatusEnded, summary.Final.Status)
			assert.Len(t, summary.Final.MoveHistory, 6)
		})
	}
}

func TestPlay_NoLegalMove(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	client := NewClient(ts.URL)
	_, err := client.CreateSession(ctx, "", 1)
	require.NoError(t, err)

	// the only point on a 1x1 board is suicide
	summary, err := play(ctx, client, randomStrategy(rand.New(rand.NewSource(1))), 10, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.True(t, summary.Exhausted)
	assert.Zero(t, summary.Moves)
}

func TestClient_Errors(t *testing.T) {
	ts := startServer(t)
	ctx := context.Background()

	client := NewClient(ts.URL)
	_, err := client.CreateSession(ctx, "nope", 0)
	assert.Error(t, err)

	client.sessionID = "missing"
	_, err = client.State(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
