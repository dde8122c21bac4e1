package agent

import (
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
)

// BuildPopulation constructs the agent population for a run in a fixed
// order: market makers, prop traders, noise traders, then insiders.
// Agent ids start at 1 and follow registration order. Each agent owns a
// private RNG derived from (runSeed, id), and samples its own strategy
// parameters from that stream, so the draws of one agent never shift
// those of another.
//
// Event-dependent insider specs are dropped when the run has no
// fundamental event, matching the id numbering of the remaining agents.
func BuildPopulation(cfg simulationv1.Config, runSeed int64) []agentv1.Agent {
	agents := make([]agentv1.Agent, 0, cfg.MarketMakers+cfg.PropTraders+cfg.NoiseTraders+len(cfg.InsiderSpecs))
	nextID := 1

	spawn := func() *rand.Rand {
		return rand.New(rand.NewSource(simulationv1.AgentSeed(runSeed, nextID)))
	}

	for i := 0; i < cfg.MarketMakers; i++ {
		rng := spawn()
		spread := randFloatIn(rng, 0.0015, 0.003)
		size := randIntIn(rng, 10, 30)
		maxInv := randIntIn(rng, 150, 300)
		agents = append(agents, NewMarketMaker(nextID, rng, cfg.TickSize, spread, size, maxInv))
		nextID++
	}

	for i := 0; i < cfg.PropTraders; i++ {
		rng := spawn()
		mode := PropModeMomentum
		if rng.Intn(2) == 1 {
			mode = PropModeMeanReversion
		}
		pTrade := randFloatIn(rng, 0.2, 0.4)
		maxQty := randIntIn(rng, 5, 20)
		agents = append(agents, NewPropTrader(nextID, rng, cfg.TickSize, mode, pTrade, maxQty))
		nextID++
	}

	for i := 0; i < cfg.NoiseTraders; i++ {
		rng := spawn()
		pTrade := randFloatIn(rng, 0.1, 0.4)
		pMarket := randFloatIn(rng, 0.2, 0.8)
		maxQty := randIntIn(rng, 5, 20)
		bias := randFloatIn(rng, -0.1, 0.1)
		agents = append(agents, NewNoiseTrader(nextID, rng, cfg.TickSize, pTrade, pMarket, maxQty, bias))
		nextID++
	}

	for _, spec := range cfg.InsiderSpecs {
		insider := buildInsider(cfg, spec, nextID, spawn)
		if insider == nil {
			continue
		}
		agents = append(agents, insider)
		nextID++
	}

	return agents
}

func buildInsider(cfg simulationv1.Config, spec simulationv1.InsiderSpec, id int, spawn func() *rand.Rand) agentv1.Agent {
	switch spec.Strategy {
	case simulationv1.StrategyEvent, simulationv1.StrategyRing, simulationv1.StrategySlow, simulationv1.StrategyStealth:
		if !cfg.HasEvent || cfg.JumpDirection == 0 {
			return nil
		}
		rng := spawn()
		eventStep := cfg.EventStep
		direction := cfg.JumpDirection

		switch spec.Strategy {
		case simulationv1.StrategyEvent, simulationv1.StrategyRing:
			startStep := eventStep - int(randIntIn(rng, 40, 100))
			tradeSize := spec.TradeSize
			if tradeSize <= 0 {
				tradeSize = randIntIn(rng, 6, 12)
			}
			unwind := int(randIntIn(rng, 60, 120))
			return NewEventInsider(id, rng, cfg.TickSize, eventStep, direction, startStep, tradeSize, unwind, spec.GroupID)

		case simulationv1.StrategySlow:
			startStep := eventStep - int(randIntIn(rng, 150, 350))
			maxTradeSize := spec.TradeSize
			if maxTradeSize <= 0 {
				maxTradeSize = randIntIn(rng, 3, 7)
			}
			pTradePre := randFloatIn(rng, 0.2, 0.4)
			unwind := int(randIntIn(rng, 100, 160))
			return NewSlowInsider(id, rng, cfg.TickSize, eventStep, direction, startStep, maxTradeSize, pTradePre, unwind)

		default:
			startStep := eventStep - int(randIntIn(rng, 80, 160))
			maxTradeSize := spec.TradeSize
			if maxTradeSize <= 0 {
				maxTradeSize = randIntIn(rng, 4, 10)
			}
			pTradePre := randFloatIn(rng, 0.3, 0.5)
			decoyProb := randFloatIn(rng, 0.1, 0.25)
			unwind := int(randIntIn(rng, 60, 120))
			return NewStealthInsider(id, rng, cfg.TickSize, eventStep, direction, startStep, maxTradeSize, pTradePre, decoyProb, unwind)
		}

	case simulationv1.StrategyPump:
		rng := spawn()
		startStep := spec.StartStep
		if startStep <= 0 {
			startStep = int(randIntIn(rng, int64(float64(cfg.Steps)*0.2), int64(float64(cfg.Steps)*0.6)))
		}
		direction := 1
		if rng.Intn(2) == 1 {
			direction = -1
		}
		pumpHorizon := int(randIntIn(rng, 40, 100))
		unwind := int(randIntIn(rng, 40, 120))
		tradeSize := spec.TradeSize
		if tradeSize <= 0 {
			tradeSize = randIntIn(rng, 8, 15)
		}
		return NewPumpAndDumpManipulator(id, rng, cfg.TickSize, startStep, direction, pumpHorizon, unwind, tradeSize, spec.GroupID)
	}

	return nil
}

// randIntIn returns a uniform integer in the inclusive range [lo, hi].
func randIntIn(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo+1)
}

// randFloatIn returns a uniform float in [lo, hi).
func randFloatIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
