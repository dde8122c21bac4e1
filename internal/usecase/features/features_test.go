package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
)

// fixtureResult builds a small run with two agents and a known trade log:
// agent 1 buys 5 then 3 before the event, sells 4 after it.
func fixtureResult() *simulationv1.Result {
	cfg := simulationv1.DefaultConfig(7)
	cfg.Steps = 200
	cfg.HasEvent = true
	cfg.EventStep = 120
	cfg.JumpDirection = 1

	result := &simulationv1.Result{
		Config:         cfg,
		SeedUsed:       42,
		CompletedSteps: cfg.Steps,
		Trades: []orderbookv1.Trade{
			{Step: 10, Sequence: 1, Price: 10_000, Quantity: 5, BuyAgentID: 1, SellAgentID: 2},
			{Step: 60, Sequence: 2, Price: 10_010, Quantity: 3, BuyAgentID: 1, SellAgentID: 2},
			{Step: 120, Sequence: 3, Price: 11_000, Quantity: 4, BuyAgentID: 2, SellAgentID: 1},
		},
		Agents: []simulationv1.AgentFinal{
			{State: agentv1.State{AgentID: 1, Type: agentv1.TypeInsider, Cash: -36_030, Position: 4, IsIllegal: true, IllegalType: "event_insider"}, Equity: 7_970},
			{State: agentv1.State{AgentID: 2, Type: agentv1.TypeNoise, Cash: 36_030, Position: -4}, Equity: -7_970},
		},
	}
	for i := 0; i < cfg.Steps; i++ {
		mid := int64(10_000)
		if i >= cfg.EventStep {
			mid = 11_000
		}
		result.Prices = append(result.Prices, simulationv1.PricePoint{Step: i, Mid: mid, Fundamental: float64(mid)})
	}
	return result
}

func TestAgentFeatures(t *testing.T) {
	rows := AgentFeatures(fixtureResult())
	require.Len(t, rows, 2)

	insider := rows[0]
	assert.Equal(t, 7, insider.RunID)
	assert.Equal(t, 1, insider.AgentID)
	assert.Equal(t, "INSIDER", insider.Type)
	assert.True(t, insider.IsIllegal)
	assert.Equal(t, "event_insider", insider.IllegalType)

	assert.Equal(t, 3, insider.NumTrades)
	assert.Equal(t, int64(12), insider.TotalVolume)
	assert.Equal(t, int64(4), insider.NetVolume) // +5 +3 -4
	assert.Equal(t, int64(8), insider.BuyVolume)
	assert.Equal(t, int64(4), insider.SellVolume)
	assert.InDelta(t, 4.0, insider.AvgTradeSize, 1e-9)

	assert.Equal(t, int64(8), insider.PreEventVolume)
	assert.Equal(t, int64(4), insider.PostEventVolume)
	// buys before an upward jump count as aligned
	assert.Equal(t, int64(8), insider.AlignedPreEventVolume)

	noise := rows[1]
	assert.Equal(t, int64(-4), noise.NetVolume)
	assert.Equal(t, int64(0), noise.AlignedPreEventVolume) // sold into an upward jump
	assert.False(t, noise.IsIllegal)
}

func TestAgentFeatures_NoEvent(t *testing.T) {
	result := fixtureResult()
	result.Config.HasEvent = false

	rows := AgentFeatures(result)
	for _, row := range rows {
		assert.Zero(t, row.PreEventVolume)
		assert.Zero(t, row.PostEventVolume)
		assert.Zero(t, row.AlignedPreEventVolume)
	}
}

func TestWindowFeatures(t *testing.T) {
	rows := WindowFeatures(fixtureResult(), 50)
	require.Len(t, rows, 4) // 200 steps / 50

	first := rows[0]
	assert.Equal(t, 0, first.WindowIndex)
	assert.Equal(t, 0, first.StartStep)
	assert.Equal(t, 50, first.EndStep)
	assert.Equal(t, 1, first.NumTrades) // the step-10 trade
	assert.Equal(t, int64(5), first.TotalVolume)
	assert.Equal(t, int64(5), first.BuyVolume)
	assert.Equal(t, int64(5), first.SellVolume)
	assert.Equal(t, 2, first.NumActiveAgents)
	assert.True(t, first.HasIllegal)
	assert.InDelta(t, float64(25-120), first.EventDistance, 1e-9)

	// window 3 (steps 150..200) holds no trades
	last := rows[3]
	assert.Zero(t, last.NumTrades)
	assert.Zero(t, last.NumActiveAgents)
	assert.False(t, last.HasIllegal)
	assert.Zero(t, last.RealizedVolatility) // mid is flat inside the window
}

func TestWindowFeatures_VolatilityCapturesJump(t *testing.T) {
	rows := WindowFeatures(fixtureResult(), 50)
	// the jump at step 120 lands inside window 2
	assert.Positive(t, rows[2].RealizedVolatility)
	assert.Zero(t, rows[0].RealizedVolatility)
}

func TestWindowFeatures_EmptyPrices(t *testing.T) {
	result := &simulationv1.Result{Config: simulationv1.DefaultConfig(0)}
	assert.Nil(t, WindowFeatures(result, 50))
}

func TestWindowFeatures_DefaultWindow(t *testing.T) {
	a := WindowFeatures(fixtureResult(), 0)
	b := WindowFeatures(fixtureResult(), DefaultWindowSize)
	assert.Equal(t, a, b)
}
