package agent

import (
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// MarketMaker posts a two-sided quote around mid every step. It cancels
// its previous quote before re-quoting and skews prices against its
// inventory so it drifts back toward a flat position.
type MarketMaker struct {
	base

	halfSpread   float64
	quoteSize    int64
	maxInventory int64
}

// NewMarketMaker creates a market maker with the given quoting parameters.
func NewMarketMaker(id int, rng *rand.Rand, tick int64, halfSpread float64, quoteSize, maxInventory int64) *MarketMaker {
	return &MarketMaker{
		base: base{
			id:   id,
			typ:  agentv1.TypeMarketMaker,
			rng:  rng,
			tick: tick,
		},
		halfSpread:   halfSpread,
		quoteSize:    quoteSize,
		maxInventory: maxInventory,
	}
}

// Decide replaces the standing quote. The cancel request always comes
// first so the new quote never crosses a stale one.
func (a *MarketMaker) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	requests := []orderbookv1.OrderRequest{{Type: orderbookv1.OrderTypeCancelAll}}

	mid := float64(obs.Mid)
	skew := 0.001 * float64(a.position)

	if a.position < a.maxInventory {
		bidPrice := mid * (1 - a.halfSpread - skew)
		requests = append(requests, orderbookv1.OrderRequest{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      true,
			Price:    alignPrice(bidPrice, a.tick),
			Quantity: a.quoteSize,
		})
	}

	if a.position > -a.maxInventory {
		askPrice := mid * (1 + a.halfSpread - skew)
		requests = append(requests, orderbookv1.OrderRequest{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      false,
			Price:    alignPrice(askPrice, a.tick),
			Quantity: a.quoteSize,
		})
	}

	return requests
}
