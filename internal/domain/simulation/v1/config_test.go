package simulationv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig(0).Validate())
	})

	t.Run("Rejects non-positive steps", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.Steps = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects non-positive tick size", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.TickSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects event step outside run", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.EventStep = cfg.Steps
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects bad jump direction", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.JumpDirection = 2
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects negative agent counts", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.NoiseTraders = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("Rejects unknown insider strategy", func(t *testing.T) {
		cfg := DefaultConfig(0)
		cfg.InsiderSpecs = []InsiderSpec{{Strategy: "front_run"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Accepts all known strategies", func(t *testing.T) {
		cfg := DefaultConfig(0)
		for _, s := range []string{StrategyEvent, StrategySlow, StrategyStealth, StrategyRing, StrategyPump} {
			cfg.InsiderSpecs = []InsiderSpec{{Strategy: s}}
			assert.NoError(t, cfg.Validate(), s)
		}
	})
}

func TestDeriveSeed_Streams(t *testing.T) {
	// distinct consumers get distinct streams from the same run seed
	assert.NotEqual(t, AgentSeed(42, 1), AgentSeed(42, 2))
	assert.NotEqual(t, AgentSeed(42, 1), FundamentalSeed(42))
	assert.NotEqual(t, FundamentalSeed(42), FundamentalSeed(43))

	// derivation is stable
	assert.Equal(t, AgentSeed(42, 7), AgentSeed(42, 7))
	assert.Equal(t, RunSeed(42, 3), RunSeed(42, 3))
	assert.NotEqual(t, RunSeed(42, 3), RunSeed(42, 4))

	// seeds stay in the non-negative range math/rand accepts
	assert.GreaterOrEqual(t, AgentSeed(-1, 0), int64(0))
	assert.NotZero(t, RunSeed(0, 0))
}

func TestSampleConfig_Deterministic(t *testing.T) {
	a := SampleConfig(42, 5)
	b := SampleConfig(42, 5)
	assert.Equal(t, a, b)

	c := SampleConfig(42, 6)
	assert.NotEqual(t, a, c)
}

func TestSampleConfig_IndependentOfOtherRuns(t *testing.T) {
	// sampling run 10 alone matches sampling it after runs 0..9
	direct := SampleConfig(42, 10)
	for runID := 0; runID < 10; runID++ {
		_ = SampleConfig(42, runID)
	}
	again := SampleConfig(42, 10)
	assert.Equal(t, direct, again)
}

func TestSampleConfig_Ranges(t *testing.T) {
	for runID := 0; runID < 50; runID++ {
		cfg := SampleConfig(42, runID)
		require.NoError(t, cfg.Validate(), "run %d", runID)

		assert.GreaterOrEqual(t, cfg.Steps, 800)
		assert.LessOrEqual(t, cfg.Steps, 1500)
		assert.GreaterOrEqual(t, cfg.NoiseTraders, 10)
		assert.LessOrEqual(t, cfg.NoiseTraders, 40)
		assert.Contains(t, []int{1, 2}, cfg.MarketMakers)
		assert.Contains(t, []int{0, 1, 2}, cfg.PropTraders)
		assert.NotZero(t, cfg.Seed)

		if cfg.HasEvent {
			assert.GreaterOrEqual(t, cfg.EventStep, int(0.3*float64(cfg.Steps)))
			assert.LessOrEqual(t, cfg.EventStep, int(0.8*float64(cfg.Steps)))
			assert.GreaterOrEqual(t, cfg.JumpSize, 0.05)
			assert.Less(t, cfg.JumpSize, 0.2)
			assert.Contains(t, []int{-1, 1}, cfg.JumpDirection)
			for _, spec := range cfg.InsiderSpecs {
				assert.NotEqual(t, StrategyPump, spec.Strategy)
			}
		} else {
			for _, spec := range cfg.InsiderSpecs {
				assert.Equal(t, StrategyPump, spec.Strategy)
			}
		}

		// ring members share one group id
		groupIDs := map[int]int{}
		for _, spec := range cfg.InsiderSpecs {
			if spec.Strategy == StrategyRing {
				groupIDs[spec.GroupID]++
			}
		}
		for id, n := range groupIDs {
			assert.NotZero(t, id)
			assert.GreaterOrEqual(t, n, 2)
		}
	}
}

func TestResult_LastMid(t *testing.T) {
	r := &Result{Config: DefaultConfig(0)}
	assert.Equal(t, r.Config.InitialPrice, r.LastMid())

	r.Prices = []PricePoint{{Step: 0, Mid: 10_010}, {Step: 1, Mid: 10_020}}
	assert.Equal(t, int64(10_020), r.LastMid())
	assert.Equal(t, []int64{10_010, 10_020}, r.MidPrices())
}
