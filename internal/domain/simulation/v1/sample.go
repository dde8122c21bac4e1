package simulationv1

import "math/rand"

// SampleConfig samples a random scenario configuration. It is a pure
// function of (baseSeed, runID): the sampling stream is derived from the
// pair, so any run can be regenerated independently of the others.
func SampleConfig(baseSeed int64, runID int) Config {
	rng := rand.New(rand.NewSource(RunSeed(baseSeed, runID)))

	steps := randInt(rng, 800, 1500)

	hasEvent := rng.Float64() < 0.7
	eventStep := 0
	jumpSize := 0.0
	jumpDirection := 0
	if hasEvent {
		eventStep = randInt(rng, int(0.3*float64(steps)), int(0.8*float64(steps)))
		jumpSize = randFloat(rng, 0.05, 0.2)
		jumpDirection = randChoice(rng, -1, 1)
	}

	noiseTraders := randInt(rng, 10, 40)
	marketMakers := randChoice(rng, 1, 2)
	propTraders := randChoice(rng, 0, 1, 2)

	var insiderSpecs []InsiderSpec

	if hasEvent {
		if rng.Float64() < 0.7 {
			nInsiders := randInt(rng, 1, 3)
			if rng.Float64() < 0.4 && nInsiders >= 2 {
				groupID := randInt(rng, 1, 10_000)
				for i := 0; i < nInsiders; i++ {
					insiderSpecs = append(insiderSpecs, InsiderSpec{Strategy: StrategyRing, GroupID: groupID})
				}
			} else {
				for i := 0; i < nInsiders; i++ {
					strategy := randChoiceString(rng, StrategyEvent, StrategySlow, StrategyStealth)
					insiderSpecs = append(insiderSpecs, InsiderSpec{Strategy: strategy})
				}
			}
		}
	} else {
		if rng.Float64() < 0.3 {
			nIllegal := randInt(rng, 1, 2)
			groupID := 0
			if nIllegal > 1 {
				groupID = randInt(rng, 1, 10_000)
			}
			for i := 0; i < nIllegal; i++ {
				insiderSpecs = append(insiderSpecs, InsiderSpec{Strategy: StrategyPump, GroupID: groupID})
			}
		}
	}

	seed := rng.Int63()
	if seed == 0 {
		seed = 1
	}

	return Config{
		RunID:         runID,
		Seed:          seed,
		Steps:         steps,
		TickSize:      1,
		InitialPrice:  10_000,
		Volatility:    5.0,
		HasEvent:      hasEvent,
		EventStep:     eventStep,
		JumpSize:      jumpSize,
		JumpDirection: jumpDirection,
		NoiseTraders:  noiseTraders,
		MarketMakers:  marketMakers,
		PropTraders:   propTraders,
		InsiderSpecs:  insiderSpecs,
	}
}

// randInt returns a uniform integer in [low, high], both inclusive.
func randInt(rng *rand.Rand, low, high int) int {
	return low + rng.Intn(high-low+1)
}

// randFloat returns a uniform float in [low, high).
func randFloat(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

func randChoice(rng *rand.Rand, choices ...int) int {
	return choices[rng.Intn(len(choices))]
}

func randChoiceString(rng *rand.Rand, choices ...string) string {
	return choices[rng.Intn(len(choices))]
}
