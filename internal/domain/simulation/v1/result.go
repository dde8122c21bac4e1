package simulationv1

import (
	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// PricePoint is the per-step top-of-book record of the price series.
// BestBid/BestAsk are meaningful only when the matching Has flag is set.
type PricePoint struct {
	Step        int     `json:"step"`
	BestBid     int64   `json:"bestBid"`
	HasBid      bool    `json:"hasBid"`
	BestAsk     int64   `json:"bestAsk"`
	HasAsk      bool    `json:"hasAsk"`
	Mid         int64   `json:"mid"`
	Fundamental float64 `json:"fundamental"`
}

// RejectCounts aggregates recoverable rejections over a run. Individual
// rejections are not reported per occurrence; these totals are surfaced
// once at run end.
type RejectCounts struct {
	Validation     int64 `json:"validation"`
	UnfilledMarket int64 `json:"unfilledMarket"`
}

// AgentFinal is the end-of-run snapshot of one agent, with equity marked
// to the final mid price.
type AgentFinal struct {
	agentv1.State
	Equity int64 `json:"equity"`
}

// Result holds the outputs of a completed simulation run. It is built
// append-only by the loop and read-only for downstream consumers.
type Result struct {
	Config          Config              `json:"config"`
	SeedUsed        int64               `json:"seedUsed"`
	SeedFromEntropy bool                `json:"seedFromEntropy"`
	Trades          []orderbookv1.Trade `json:"trades"`
	Prices          []PricePoint        `json:"prices"`
	Agents          []AgentFinal        `json:"agents"`
	Rejects         RejectCounts        `json:"rejects"`
	CompletedSteps  int                 `json:"completedSteps"`
}

// MidPrices returns the per-step mid price series.
func (r *Result) MidPrices() []int64 {
	mids := make([]int64, len(r.Prices))
	for i, p := range r.Prices {
		mids[i] = p.Mid
	}
	return mids
}

// LastMid returns the final mid price, or the configured initial price for
// a run that recorded no prices.
func (r *Result) LastMid() int64 {
	if len(r.Prices) == 0 {
		return r.Config.InitialPrice
	}
	return r.Prices[len(r.Prices)-1].Mid
}
