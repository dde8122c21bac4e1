package agent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
)

func newRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func obsAt(step int, mid int64) agentv1.Observation {
	return agentv1.Observation{Step: step, Mid: mid, Fundamental: float64(mid)}
}

func TestBase_OnFill(t *testing.T) {
	a := &base{id: 1, typ: agentv1.TypeNoise}

	a.OnFill(agentv1.Fill{Step: 0, Price: 10_000, Quantity: 3, Bid: true})
	assert.Equal(t, int64(3), a.position)
	assert.Equal(t, int64(-30_000), a.cash)

	a.OnFill(agentv1.Fill{Step: 1, Price: 10_100, Quantity: 3, Bid: false})
	assert.Equal(t, int64(0), a.position)
	assert.Equal(t, int64(300), a.cash)

	state := a.State()
	assert.Equal(t, 1, state.AgentID)
	assert.Equal(t, int64(300), state.Cash)
	assert.False(t, state.IsIllegal)
}

func TestAlignPrice(t *testing.T) {
	assert.Equal(t, int64(10_000), alignPrice(10_000.4, 1))
	assert.Equal(t, int64(10_001), alignPrice(10_000.5, 1))
	assert.Equal(t, int64(10_000), alignPrice(10_002.0, 5))
	// never below one tick
	assert.Equal(t, int64(1), alignPrice(0.2, 1))
	assert.Equal(t, int64(5), alignPrice(-3.0, 5))
}

func TestMarketMaker_QuotesBothSides(t *testing.T) {
	mm := NewMarketMaker(1, newRng(1), 1, 0.002, 15, 200)

	reqs := mm.Decide(obsAt(0, 10_000))
	require.Len(t, reqs, 3)

	assert.Equal(t, orderbookv1.OrderTypeCancelAll, reqs[0].Type)

	bid, ask := reqs[1], reqs[2]
	assert.True(t, bid.Bid)
	assert.False(t, ask.Bid)
	assert.Equal(t, int64(15), bid.Quantity)
	assert.Equal(t, int64(15), ask.Quantity)
	assert.Equal(t, int64(9_980), bid.Price)
	assert.Equal(t, int64(10_020), ask.Price)
}

func TestMarketMaker_InventorySkew(t *testing.T) {
	mm := NewMarketMaker(1, newRng(1), 1, 0.002, 15, 200)
	mm.OnFill(agentv1.Fill{Price: 10_000, Quantity: 50, Bid: true})

	reqs := mm.Decide(obsAt(0, 10_000))
	require.Len(t, reqs, 3)

	// long inventory skews both quotes down
	assert.Less(t, reqs[1].Price, int64(9_980))
	assert.Less(t, reqs[2].Price, int64(10_020))
}

func TestMarketMaker_InventoryGates(t *testing.T) {
	mm := NewMarketMaker(1, newRng(1), 1, 0.002, 15, 100)
	mm.OnFill(agentv1.Fill{Price: 10_000, Quantity: 100, Bid: true})

	reqs := mm.Decide(obsAt(0, 10_000))
	require.Len(t, reqs, 2)
	// at the long cap only the ask is quoted
	assert.Equal(t, orderbookv1.OrderTypeCancelAll, reqs[0].Type)
	assert.False(t, reqs[1].Bid)
}

func TestNoiseTrader_Deterministic(t *testing.T) {
	decide := func() [][]orderbookv1.OrderRequest {
		nt := NewNoiseTrader(1, newRng(7), 1, 0.4, 0.5, 10, 0.0)
		var out [][]orderbookv1.OrderRequest
		for step := 0; step < 100; step++ {
			out = append(out, nt.Decide(obsAt(step, 10_000)))
		}
		return out
	}

	assert.Equal(t, decide(), decide())
}

func TestNoiseTrader_RespectsQuantityBound(t *testing.T) {
	nt := NewNoiseTrader(1, newRng(7), 1, 1.0, 0.5, 10, 0.0)
	for step := 0; step < 200; step++ {
		for _, req := range nt.Decide(obsAt(step, 10_000)) {
			assert.GreaterOrEqual(t, req.Quantity, int64(1))
			assert.LessOrEqual(t, req.Quantity, int64(10))
			if req.Type == orderbookv1.OrderTypeLimit {
				assert.Positive(t, req.Price)
			}
		}
	}
}

func TestPropTrader_FirstObservationOnlyPrimes(t *testing.T) {
	pt := NewPropTrader(1, newRng(3), 1, PropModeMomentum, 1.0, 10)
	assert.Empty(t, pt.Decide(obsAt(0, 10_000)))
}

func TestPropTrader_MomentumFollowsMove(t *testing.T) {
	pt := NewPropTrader(1, newRng(3), 1, PropModeMomentum, 1.0, 10)
	_ = pt.Decide(obsAt(0, 10_000))

	reqs := pt.Decide(obsAt(1, 10_100))
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Bid)
}

func TestPropTrader_MeanReversionFadesMove(t *testing.T) {
	pt := NewPropTrader(1, newRng(3), 1, PropModeMeanReversion, 1.0, 10)
	_ = pt.Decide(obsAt(0, 10_000))

	reqs := pt.Decide(obsAt(1, 10_100))
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].Bid)
}

func TestPropTrader_NoTradeOnFlatMid(t *testing.T) {
	pt := NewPropTrader(1, newRng(3), 1, PropModeMomentum, 1.0, 10)
	_ = pt.Decide(obsAt(0, 10_000))
	assert.Empty(t, pt.Decide(obsAt(1, 10_000)))
}

func TestEventInsider_Phases(t *testing.T) {
	ins := NewEventInsider(1, newRng(9), 1, 500, 1, 450, 8, 60, 0)

	// quiet before the start step
	assert.Empty(t, ins.Decide(obsAt(100, 10_000)))

	// accumulation window trades toward the jump direction
	reqs := ins.Decide(obsAt(460, 10_000))
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Bid)
	assert.Equal(t, int64(8), reqs[0].Quantity)

	state := ins.State()
	assert.True(t, state.IsIllegal)
	assert.Equal(t, IllegalTypeEventInsider, state.IllegalType)
}

func TestEventInsider_UnwindReducesPosition(t *testing.T) {
	ins := NewEventInsider(1, newRng(9), 1, 500, 1, 450, 8, 60, 0)
	ins.OnFill(agentv1.Fill{Price: 10_000, Quantity: 20, Bid: true})

	reqs := ins.Decide(obsAt(510, 11_000))
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].Bid)
	assert.Equal(t, orderbookv1.OrderTypeMarket, reqs[0].Type)
	assert.Equal(t, int64(8), reqs[0].Quantity)
}

func TestEventInsider_FlatAfterUnwind(t *testing.T) {
	ins := NewEventInsider(1, newRng(9), 1, 500, 1, 450, 8, 60, 0)
	// no position was built, nothing to unwind
	assert.Empty(t, ins.Decide(obsAt(510, 11_000)))
	// silent after the unwind horizon
	assert.Empty(t, ins.Decide(obsAt(600, 11_000)))
}

func TestStealthInsider_DecoyStaysBounded(t *testing.T) {
	ins := NewStealthInsider(1, newRng(5), 1, 500, 1, 380, 6, 1.0, 0.2, 60)

	var informed, decoy int
	for step := 380; step < 500; step++ {
		for _, req := range ins.Decide(obsAt(step, 10_000)) {
			if req.Bid {
				informed++
			} else {
				decoy++
			}
		}
	}
	// informed flow dominates, a minority of trades oppose it
	assert.Greater(t, informed, decoy)
	assert.Greater(t, decoy, 0)
}

func TestPumpAndDump_PumpThenUnwind(t *testing.T) {
	pm := NewPumpAndDumpManipulator(1, newRng(11), 1, 300, 1, 50, 60, 10, 0)

	assert.Empty(t, pm.Decide(obsAt(299, 10_000)))

	reqs := pm.Decide(obsAt(300, 10_000))
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Bid)

	pm.OnFill(agentv1.Fill{Price: 10_000, Quantity: 30, Bid: true})
	reqs = pm.Decide(obsAt(360, 10_500))
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].Bid)
	assert.Equal(t, orderbookv1.OrderTypeMarket, reqs[0].Type)

	state := pm.State()
	assert.Equal(t, IllegalTypePumpAndDump, state.IllegalType)
}

func TestBuildPopulation_OrderAndIDs(t *testing.T) {
	cfg := simulationv1.DefaultConfig(0)
	cfg.MarketMakers = 2
	cfg.PropTraders = 1
	cfg.NoiseTraders = 3
	cfg.EventStep = 500
	cfg.InsiderSpecs = []simulationv1.InsiderSpec{
		{Strategy: simulationv1.StrategyEvent},
		{Strategy: simulationv1.StrategyPump},
	}

	agents := BuildPopulation(cfg, 42)
	require.Len(t, agents, 8)

	for i, a := range agents {
		assert.Equal(t, i+1, a.ID())
	}

	assert.Equal(t, agentv1.TypeMarketMaker, agents[0].Type())
	assert.Equal(t, agentv1.TypeMarketMaker, agents[1].Type())
	assert.Equal(t, agentv1.TypeProp, agents[2].Type())
	assert.Equal(t, agentv1.TypeNoise, agents[3].Type())
	assert.Equal(t, agentv1.TypeInsider, agents[6].Type())
	assert.Equal(t, agentv1.TypeInsider, agents[7].Type())
}

func TestBuildPopulation_SkipsEventInsidersWithoutEvent(t *testing.T) {
	cfg := simulationv1.DefaultConfig(0)
	cfg.HasEvent = false
	cfg.EventStep = 0
	cfg.JumpDirection = 0
	cfg.MarketMakers = 1
	cfg.NoiseTraders = 2
	cfg.InsiderSpecs = []simulationv1.InsiderSpec{
		{Strategy: simulationv1.StrategyEvent},
		{Strategy: simulationv1.StrategySlow},
		{Strategy: simulationv1.StrategyPump},
	}

	agents := BuildPopulation(cfg, 42)
	// event-dependent specs are dropped, the pump stays
	require.Len(t, agents, 4)
	assert.Equal(t, agentv1.TypeInsider, agents[3].Type())
	assert.Equal(t, IllegalTypePumpAndDump, agents[3].State().IllegalType)
}

func TestBuildPopulation_Deterministic(t *testing.T) {
	cfg := simulationv1.DefaultConfig(0)
	cfg.MarketMakers = 2
	cfg.PropTraders = 2
	cfg.NoiseTraders = 5

	a := BuildPopulation(cfg, 42)
	b := BuildPopulation(cfg, 42)
	require.Equal(t, len(a), len(b))

	obs := obsAt(0, 10_000)
	for i := range a {
		assert.Equal(t, a[i].Decide(obs), b[i].Decide(obs), "agent %d", i+1)
	}
}

func TestBuildPopulation_RingSharesGroupID(t *testing.T) {
	cfg := simulationv1.DefaultConfig(0)
	cfg.EventStep = 500
	cfg.MarketMakers = 0
	cfg.NoiseTraders = 0
	cfg.InsiderSpecs = []simulationv1.InsiderSpec{
		{Strategy: simulationv1.StrategyRing, GroupID: 77},
		{Strategy: simulationv1.StrategyRing, GroupID: 77},
	}

	agents := BuildPopulation(cfg, 42)
	require.Len(t, agents, 2)
	assert.Equal(t, 77, agents[0].State().GroupID)
	assert.Equal(t, 77, agents[1].State().GroupID)
	assert.Equal(t, IllegalTypeEventInsider, agents[0].State().IllegalType)
}
