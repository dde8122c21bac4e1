package simulationv1

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Seed streams. Every random consumer in a run gets its own sub-stream
// keyed on (run seed, stream label), so adding or removing one consumer
// never perturbs another's draws.
const (
	streamAgent       = "agent"
	streamFundamental = "fundamental"
	streamSampler     = "sampler"
)

func deriveSeed(seed int64, stream string, n int) int64 {
	h := xxhash.Sum64String(fmt.Sprintf("%d:%s:%d", seed, stream, n))
	return int64(h & (1<<63 - 1))
}

// AgentSeed derives the private RNG seed for the agent at the given
// registration index.
func AgentSeed(runSeed int64, index int) int64 {
	return deriveSeed(runSeed, streamAgent, index)
}

// FundamentalSeed derives the RNG seed of the exogenous fundamental process.
func FundamentalSeed(runSeed int64) int64 {
	return deriveSeed(runSeed, streamFundamental, 0)
}

// RunSeed derives a run's seed from the dataset base seed and run id, so
// regenerating the same (baseSeed, runID) pair reproduces an identical run.
func RunSeed(baseSeed int64, runID int) int64 {
	seed := deriveSeed(baseSeed, streamSampler, runID)
	if seed == 0 {
		seed = 1
	}
	return seed
}
