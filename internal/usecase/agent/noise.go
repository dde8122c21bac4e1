package agent

import (
	"math"
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// NoiseTrader emits small random-direction limit and market orders around
// the current mid price. It is purely reactive with no memory beyond the
// current step.
type NoiseTrader struct {
	base

	pTrade        float64
	pMarket       float64
	maxQty        int64
	directionBias float64
}

// NewNoiseTrader creates a noise trader with the given parameters.
func NewNoiseTrader(id int, rng *rand.Rand, tick int64, pTrade, pMarket float64, maxQty int64, directionBias float64) *NoiseTrader {
	return &NoiseTrader{
		base: base{
			id:   id,
			typ:  agentv1.TypeNoise,
			rng:  rng,
			tick: tick,
		},
		pTrade:        pTrade,
		pMarket:       pMarket,
		maxQty:        maxQty,
		directionBias: directionBias,
	}
}

// Decide emits at most one order per step.
func (a *NoiseTrader) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	if a.rng.Float64() > a.pTrade {
		return nil
	}

	direction := a.rng.Float64() - 0.5 + a.directionBias
	bid := direction >= 0

	quantity := randQty(a.rng, a.maxQty)
	isMarket := a.rng.Float64() < a.pMarket

	if isMarket {
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeMarket,
			Bid:      bid,
			Quantity: quantity,
		}}
	}

	const spread = 0.002
	noise := math.Abs(a.rng.NormFloat64() * spread)
	mid := float64(obs.Mid)
	var price float64
	if bid {
		price = mid * (1 - noise)
	} else {
		price = mid * (1 + noise)
	}

	return []orderbookv1.OrderRequest{{
		Type:     orderbookv1.OrderTypeLimit,
		Bid:      bid,
		Price:    alignPrice(price, a.tick),
		Quantity: quantity,
	}}
}
