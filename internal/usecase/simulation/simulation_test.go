package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	"github.com/xndrleib/Market-Simulation/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	require.NoError(t, err)
	return log
}

func testConfig() simulationv1.Config {
	cfg := simulationv1.DefaultConfig(0)
	cfg.Seed = 42
	cfg.Steps = 300
	cfg.EventStep = 150
	cfg.NoiseTraders = 10
	cfg.MarketMakers = 1
	cfg.PropTraders = 1
	return cfg
}

func runOnce(t *testing.T, cfg simulationv1.Config) *simulationv1.Result {
	t.Helper()
	run, err := NewRun(cfg, testLogger(t))
	require.NoError(t, err)
	result, err := run.Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestNewRun_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Steps = -1
	_, err := NewRun(cfg, testLogger(t))
	assert.Error(t, err)
}

func TestRun_Deterministic(t *testing.T) {
	cfg := testConfig()
	a := runOnce(t, cfg)
	b := runOnce(t, cfg)

	// same config, bit-identical output
	assert.Equal(t, a.Trades, b.Trades)
	assert.Equal(t, a.Prices, b.Prices)
	assert.Equal(t, a.Agents, b.Agents)
	assert.Equal(t, a.Rejects, b.Rejects)
}

func TestRun_DifferentSeedsDiverge(t *testing.T) {
	cfgA := testConfig()
	cfgB := testConfig()
	cfgB.Seed = 43

	a := runOnce(t, cfgA)
	b := runOnce(t, cfgB)
	assert.NotEqual(t, a.Prices, b.Prices)
}

func TestRun_ZeroSum(t *testing.T) {
	result := runOnce(t, testConfig())

	var cash, position, equity int64
	mark := result.LastMid()
	for _, a := range result.Agents {
		cash += a.Cash
		position += a.Position
		equity += a.Equity
		assert.Equal(t, a.Cash+a.Position*mark, a.Equity)
	}

	assert.Equal(t, int64(0), cash)
	assert.Equal(t, int64(0), position)
	assert.Equal(t, int64(0), equity)
}

func TestRun_RecordsEveryStep(t *testing.T) {
	cfg := testConfig()
	result := runOnce(t, cfg)

	require.Len(t, result.Prices, cfg.Steps)
	assert.Equal(t, cfg.Steps, result.CompletedSteps)
	for i, p := range result.Prices {
		assert.Equal(t, i, p.Step)
		assert.Positive(t, p.Mid)
	}
}

func TestRun_EventJump(t *testing.T) {
	cfg := testConfig()
	cfg.JumpSize = 0.1
	cfg.JumpDirection = 1
	result := runOnce(t, cfg)

	before := result.Prices[cfg.EventStep-1].Fundamental
	after := result.Prices[cfg.EventStep].Fundamental
	assert.InDelta(t, 1.1, after/before, 1e-9)
}

func TestRun_NegativeJump(t *testing.T) {
	cfg := testConfig()
	cfg.JumpSize = 0.1
	cfg.JumpDirection = -1
	result := runOnce(t, cfg)

	before := result.Prices[cfg.EventStep-1].Fundamental
	after := result.Prices[cfg.EventStep].Fundamental
	assert.InDelta(t, 0.9, after/before, 1e-9)
}

func TestRun_EmptyPopulationTracksFundamental(t *testing.T) {
	cfg := testConfig()
	cfg.NoiseTraders = 0
	cfg.MarketMakers = 0
	cfg.PropTraders = 0

	result := runOnce(t, cfg)

	assert.Empty(t, result.Trades)
	for _, p := range result.Prices {
		assert.False(t, p.HasBid)
		assert.False(t, p.HasAsk)
		// with an empty book the mid is the fundamental on the tick grid
		assert.Equal(t, int64(math.Round(p.Fundamental)), p.Mid)
	}
}

func TestRun_CountsUnfilledMarketRejects(t *testing.T) {
	cfg := testConfig()
	cfg.MarketMakers = 0
	cfg.PropTraders = 0
	cfg.NoiseTraders = 10
	cfg.Steps = 200

	result := runOnce(t, cfg)

	// without a market maker some market orders find an empty side
	assert.Positive(t, result.Rejects.UnfilledMarket)
}

func TestRun_SeedFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 0

	run, err := NewRun(cfg, testLogger(t))
	require.NoError(t, err)
	result, err := run.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.SeedFromEntropy)
	assert.NotZero(t, result.SeedUsed)

	// the recorded seed reproduces the run exactly
	cfg.Seed = result.SeedUsed
	replay := runOnce(t, cfg)
	assert.Equal(t, result.Trades, replay.Trades)
	assert.Equal(t, result.Prices, replay.Prices)
	assert.False(t, replay.SeedFromEntropy)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := NewRun(testConfig(), testLogger(t))
	require.NoError(t, err)

	result, err := run.Run(ctx)
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.CompletedSteps)
	assert.NotEmpty(t, result.Agents)
}

func TestRun_TradePricesStayOnGrid(t *testing.T) {
	cfg := testConfig()
	cfg.TickSize = 5
	result := runOnce(t, cfg)

	for _, tr := range result.Trades {
		assert.Zero(t, tr.Price%cfg.TickSize)
		assert.Positive(t, tr.Quantity)
	}
}
