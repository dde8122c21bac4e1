package agent

import (
	"math"
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
)

// base carries the state and bookkeeping shared by every strategy variant:
// identity, private RNG, cash and inventory, and detection labels. It is
// mutated only by the owning agent's Decide and by fill notifications for
// the agent's own orders.
type base struct {
	id       int
	typ      agentv1.Type
	rng      *rand.Rand
	tick     int64
	cash     int64
	position int64

	isIllegal   bool
	illegalType string
	groupID     int
}

func (a *base) ID() int {
	return a.id
}

func (a *base) Type() agentv1.Type {
	return a.typ
}

// OnFill updates cash and inventory when one of the agent's orders trades.
func (a *base) OnFill(fill agentv1.Fill) {
	if fill.Bid {
		a.position += fill.Quantity
		a.cash -= fill.Price * fill.Quantity
	} else {
		a.position -= fill.Quantity
		a.cash += fill.Price * fill.Quantity
	}
}

// State snapshots the agent's externally visible state.
func (a *base) State() agentv1.State {
	return agentv1.State{
		AgentID:     a.id,
		Type:        a.typ,
		Cash:        a.cash,
		Position:    a.position,
		IsIllegal:   a.isIllegal,
		IllegalType: a.illegalType,
		GroupID:     a.groupID,
	}
}

// alignPrice rounds a computed price onto the tick grid, never below one tick.
func alignPrice(price float64, tick int64) int64 {
	if tick <= 0 {
		tick = 1
	}
	aligned := int64(math.Round(price/float64(tick))) * tick
	if aligned < tick {
		aligned = tick
	}
	return aligned
}

// randQty returns a uniform quantity in [1, max].
func randQty(rng *rand.Rand, max int64) int64 {
	if max <= 1 {
		return 1
	}
	return 1 + rng.Int63n(max)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
