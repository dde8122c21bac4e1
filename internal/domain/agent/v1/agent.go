package agentv1

import (
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// Type labels the category an agent belongs to.
type Type string

const (
	// TypeNoise is a random liquidity-taking/providing trader.
	TypeNoise Type = "NOISE"
	// TypeMarketMaker is an inventory-skewed two-sided quoter.
	TypeMarketMaker Type = "MM"
	// TypeProp is a momentum or mean-reversion prop trader.
	TypeProp Type = "PROP"
	// TypeInsider is an informed or manipulative trader.
	TypeInsider Type = "INSIDER"
)

// Observation is the market state visible to every agent at the start of a
// step. It is computed once per step and shared read-only across agents.
type Observation struct {
	Step        int
	BestBid     int64
	HasBid      bool
	BestAsk     int64
	HasAsk      bool
	Mid         int64 // mid price in ticks, falling back to the fundamental when the book is thin
	Fundamental float64
	History     []int64 // recent mid prices, oldest first; read-only
}

// Fill notifies an agent that one of its orders traded.
type Fill struct {
	Step     int
	Price    int64
	Quantity int64
	Bid      bool // true when the agent was the buyer
}

// State is the externally visible snapshot of an agent's private state.
// Cash is in tick-quantity units so the zero-sum property holds exactly.
type State struct {
	AgentID     int    `json:"agentID"`
	Type        Type   `json:"type"`
	Cash        int64  `json:"cash"`
	Position    int64  `json:"position"`
	IsIllegal   bool   `json:"isIllegal"`
	IllegalType string `json:"illegalType,omitempty"`
	GroupID     int    `json:"groupID,omitempty"` // zero means no group
}

// Agent is the capability shared by every strategy variant. Each agent owns
// a private RNG derived once at construction from the run seed; no agent
// reads or writes another agent's state.
type Agent interface {
	ID() int
	Type() Type
	Decide(obs Observation) []orderbookv1.OrderRequest
	OnFill(fill Fill)
	State() State
}
