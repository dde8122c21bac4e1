package agent

import (
	"math/rand"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// Illegal strategy labels attached to agent state for dataset labeling.
const (
	IllegalTypeEventInsider   = "event_insider"
	IllegalTypeSlowInsider    = "slow_insider"
	IllegalTypeStealthInsider = "stealth_insider"
	IllegalTypePumpAndDump    = "pump_and_dump"
)

// insiderBase carries the fields shared by all informed or manipulative
// strategies: the anticipated event step, trade direction and the step
// window in which they act.
type insiderBase struct {
	base

	eventStep int
	direction int
	startStep int
}

func newInsiderBase(id int, rng *rand.Rand, tick int64, illegalType string, groupID, eventStep, direction, startStep int) insiderBase {
	return insiderBase{
		base: base{
			id:          id,
			typ:         agentv1.TypeInsider,
			rng:         rng,
			tick:        tick,
			isIllegal:   true,
			illegalType: illegalType,
			groupID:     groupID,
		},
		eventStep: eventStep,
		direction: direction,
		startStep: startStep,
	}
}

// unwindRequest returns a request reducing the agent's position toward
// flat, or false once the position is already flat on the informed side.
func (a *insiderBase) unwindRequest(maxQty int64, market bool, mid float64) (orderbookv1.OrderRequest, bool) {
	var bid bool
	var qty int64
	switch {
	case a.direction > 0 && a.position > 0:
		bid = false
		qty = minInt64(maxQty, a.position)
	case a.direction < 0 && a.position < 0:
		bid = true
		qty = minInt64(maxQty, -a.position)
	default:
		return orderbookv1.OrderRequest{}, false
	}

	if market {
		return orderbookv1.OrderRequest{
			Type:     orderbookv1.OrderTypeMarket,
			Bid:      bid,
			Quantity: qty,
		}, true
	}

	var price float64
	if bid {
		price = mid * 1.001
	} else {
		price = mid * 0.999
	}
	return orderbookv1.OrderRequest{
		Type:     orderbookv1.OrderTypeLimit,
		Bid:      bid,
		Price:    alignPrice(price, a.tick),
		Quantity: qty,
	}, true
}

// EventInsider accumulates aggressively in a short window before the
// scheduled fundamental jump and unwinds with market orders afterwards.
type EventInsider struct {
	insiderBase

	tradeSize     int64
	unwindHorizon int
}

// NewEventInsider creates an event insider. A ring member is an event
// insider carrying a shared non-zero group id.
func NewEventInsider(id int, rng *rand.Rand, tick int64, eventStep, direction, startStep int, tradeSize int64, unwindHorizon, groupID int) *EventInsider {
	return &EventInsider{
		insiderBase:   newInsiderBase(id, rng, tick, IllegalTypeEventInsider, groupID, eventStep, direction, startStep),
		tradeSize:     tradeSize,
		unwindHorizon: unwindHorizon,
	}
}

func (a *EventInsider) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	t := obs.Step
	if t < a.startStep {
		return nil
	}

	if t < a.eventStep {
		bid := a.direction > 0
		if a.rng.Float64() < 0.3 {
			return []orderbookv1.OrderRequest{{
				Type:     orderbookv1.OrderTypeMarket,
				Bid:      bid,
				Quantity: a.tradeSize,
			}}
		}
		mid := float64(obs.Mid)
		var price float64
		if bid {
			price = mid * 1.001
		} else {
			price = mid * 0.999
		}
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      bid,
			Price:    alignPrice(price, a.tick),
			Quantity: a.tradeSize,
		}}
	}

	if t < a.eventStep+a.unwindHorizon {
		req, ok := a.unwindRequest(a.tradeSize, true, 0)
		if !ok {
			return nil
		}
		return []orderbookv1.OrderRequest{req}
	}

	return nil
}

// SlowInsider accumulates a position gradually over a long pre-event
// window with mostly passive orders, then unwinds after the event.
type SlowInsider struct {
	insiderBase

	maxTradeSize  int64
	pTradePre     float64
	unwindHorizon int
}

func NewSlowInsider(id int, rng *rand.Rand, tick int64, eventStep, direction, startStep int, maxTradeSize int64, pTradePre float64, unwindHorizon int) *SlowInsider {
	return &SlowInsider{
		insiderBase:   newInsiderBase(id, rng, tick, IllegalTypeSlowInsider, 0, eventStep, direction, startStep),
		maxTradeSize:  maxTradeSize,
		pTradePre:     pTradePre,
		unwindHorizon: unwindHorizon,
	}
}

func (a *SlowInsider) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	t := obs.Step
	if t < a.startStep {
		return nil
	}

	if t < a.eventStep {
		if a.rng.Float64() > a.pTradePre {
			return nil
		}
		bid := a.direction > 0
		quantity := randQty(a.rng, a.maxTradeSize)
		if a.rng.Float64() < 0.1 {
			return []orderbookv1.OrderRequest{{
				Type:     orderbookv1.OrderTypeMarket,
				Bid:      bid,
				Quantity: quantity,
			}}
		}
		const spread = 0.0015
		mid := float64(obs.Mid)
		var price float64
		if bid {
			price = mid * (1 - spread)
		} else {
			price = mid * (1 + spread)
		}
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      bid,
			Price:    alignPrice(price, a.tick),
			Quantity: quantity,
		}}
	}

	if t < a.eventStep+a.unwindHorizon {
		market := a.rng.Float64() < 0.5
		req, ok := a.unwindRequest(a.maxTradeSize, market, float64(obs.Mid))
		if !ok {
			return nil
		}
		return []orderbookv1.OrderRequest{req}
	}

	return nil
}

// StealthInsider hides its informed flow by mixing in decoy trades on
// the opposite side during accumulation.
type StealthInsider struct {
	insiderBase

	maxTradeSize  int64
	pTradePre     float64
	decoyProb     float64
	unwindHorizon int
}

func NewStealthInsider(id int, rng *rand.Rand, tick int64, eventStep, direction, startStep int, maxTradeSize int64, pTradePre, decoyProb float64, unwindHorizon int) *StealthInsider {
	return &StealthInsider{
		insiderBase:   newInsiderBase(id, rng, tick, IllegalTypeStealthInsider, 0, eventStep, direction, startStep),
		maxTradeSize:  maxTradeSize,
		pTradePre:     pTradePre,
		decoyProb:     decoyProb,
		unwindHorizon: unwindHorizon,
	}
}

func (a *StealthInsider) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	t := obs.Step
	if t < a.startStep {
		return nil
	}

	if t < a.eventStep {
		if a.rng.Float64() > a.pTradePre {
			return nil
		}

		informedBid := a.direction > 0
		isDecoy := a.rng.Float64() < a.decoyProb
		bid := informedBid
		if isDecoy {
			bid = !informedBid
		}

		quantity := randQty(a.rng, a.maxTradeSize)
		if a.rng.Float64() < 0.4 {
			return []orderbookv1.OrderRequest{{
				Type:     orderbookv1.OrderTypeMarket,
				Bid:      bid,
				Quantity: quantity,
			}}
		}

		offset := 0.001
		if isDecoy {
			offset = 0.002
		}
		mid := float64(obs.Mid)
		var price float64
		if bid {
			price = mid * (1 - offset)
		} else {
			price = mid * (1 + offset)
		}
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      bid,
			Price:    alignPrice(price, a.tick),
			Quantity: quantity,
		}}
	}

	if t < a.eventStep+a.unwindHorizon {
		req, ok := a.unwindRequest(a.maxTradeSize, true, 0)
		if !ok {
			return nil
		}
		return []orderbookv1.OrderRequest{req}
	}

	return nil
}

// PumpAndDumpManipulator inflates the price with aggressive one-sided
// flow and then dumps the accumulated position. It needs no fundamental
// event so its event step is its own schedule.
type PumpAndDumpManipulator struct {
	insiderBase

	pumpHorizon   int
	unwindHorizon int
	tradeSize     int64
}

func NewPumpAndDumpManipulator(id int, rng *rand.Rand, tick int64, startStep, direction, pumpHorizon, unwindHorizon int, tradeSize int64, groupID int) *PumpAndDumpManipulator {
	return &PumpAndDumpManipulator{
		insiderBase:   newInsiderBase(id, rng, tick, IllegalTypePumpAndDump, groupID, 0, direction, startStep),
		pumpHorizon:   pumpHorizon,
		unwindHorizon: unwindHorizon,
		tradeSize:     tradeSize,
	}
}

func (a *PumpAndDumpManipulator) Decide(obs agentv1.Observation) []orderbookv1.OrderRequest {
	t := obs.Step
	if t < a.startStep {
		return nil
	}

	if t < a.startStep+a.pumpHorizon {
		bid := a.direction > 0
		if a.rng.Float64() < 0.7 {
			return []orderbookv1.OrderRequest{{
				Type:     orderbookv1.OrderTypeMarket,
				Bid:      bid,
				Quantity: a.tradeSize,
			}}
		}
		mid := float64(obs.Mid)
		var price float64
		if bid {
			price = mid * 1.002
		} else {
			price = mid * 0.998
		}
		return []orderbookv1.OrderRequest{{
			Type:     orderbookv1.OrderTypeLimit,
			Bid:      bid,
			Price:    alignPrice(price, a.tick),
			Quantity: a.tradeSize,
		}}
	}

	if t < a.startStep+a.pumpHorizon+a.unwindHorizon {
		req, ok := a.unwindRequest(a.tradeSize, true, 0)
		if !ok {
			return nil
		}
		return []orderbookv1.OrderRequest{req}
	}

	return nil
}
