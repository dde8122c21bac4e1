package agent

import (
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// PropMode selects the directional signal of a prop trader.
type PropMode string

const (
	PropModeMomentum      PropMode = "momentum"
	PropModeMeanReversion PropMode = "mean_reversion"
)

// PropTrader trades on the change in mid price between steps, either
// following it (momentum) or fading it (mean reversion).
type PropTrader struct {
	base

	mode    PropMode
	pTrade  float64
	maxQty  int64
	lastMid int64
	hasLast bool
}

// NewPropTrader creates a prop trader with the given mode and parameters.
func NewPropTrader(id int, rng *rand.Rand, tick int64, mode PropMode, pTrade float64, maxQty int64) *PropTrader {
	return &PropTrader{
		base: base{
			id:   id,
			typ:  agentv1.TypeProp,
			rng:  rng,
			tick: tick,
		},
		mode:   mode,
		pTrade: pTrade,
		maxQty: maxQty,
	}
}

// Decide emits at most one order once a prior mid is observed.
func (a *PropTrader) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	if !a.hasLast {
		a.lastMid = obs.Mid
		a.hasLast = true
		return nil
	}

	change := obs.Mid - a.lastMid
	a.lastMid = obs.Mid

	if a.rng.Float64() > a.pTrade {
		return nil
	}
	if change == 0 {
		return nil
	}

	var bid bool
	if a.mode == PropModeMomentum {
		bid = change > 0
	} else {
		bid = change < 0
	}

	quantity := randQty(a.rng, a.maxQty)
	isMarket := a.rng.Float64() < 0.6

	if isMarket {
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeMarket,
			Bid:      bid,
			Quantity: quantity,
		}}
	}

	mid := float64(obs.Mid)
	var price float64
	if bid {
		price = mid * 0.999
	} else {
		price = mid * 1.001
	}

	return []orderbookv1.OrderRequest{{
		Type:     orderbookv1.OrderTypeLimit,
		Bid:      bid,
		Price:    alignPrice(price, a.tick),
		Quantity: quantity,
	}}
}
