// Package features turns completed run results into flat feature rows for
// anomaly-detection training sets.
package features

import (
	"math"

	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
)

// DefaultWindowSize is the step width of one window-feature row.
const DefaultWindowSize = 50

// AgentRow is the per-agent feature vector of one run, labeled with the
// ground-truth legality of the agent's strategy.
type AgentRow struct {
	RunID       int
	AgentID     int
	Type        string
	IsIllegal   bool
	IllegalType string
	GroupID     int

	CashFinal     int64
	PositionFinal int64
	EquityFinal   int64

	NumTrades    int
	TotalVolume  int64
	NetVolume    int64
	AvgTradeSize float64
	BuyVolume    int64
	SellVolume   int64

	PreEventVolume        int64
	PostEventVolume       int64
	AlignedPreEventVolume int64
}

// WindowRow is the feature vector of one non-overlapping step window,
// labeled with whether any illegal agent traded inside it.
type WindowRow struct {
	RunID       int
	WindowIndex int
	StartStep   int
	EndStep     int

	NumTrades       int
	TotalVolume     int64
	BuyVolume       int64
	SellVolume      int64
	NumActiveAgents int

	RealizedVolatility float64
	HasIllegal         bool
	EventDistance      float64
}

// agentTrade is one side of a trade attributed to a single agent.
type agentTrade struct {
	step     int
	agentID  int
	bid      bool
	quantity int64
}

func expandTrades(result *simulationv1.Result) []agentTrade {
	out := make([]agentTrade, 0, 2*len(result.Trades))
	for _, tr := range result.Trades {
		out = append(out,
			agentTrade{step: tr.Step, agentID: tr.BuyAgentID, bid: true, quantity: tr.Quantity},
			agentTrade{step: tr.Step, agentID: tr.SellAgentID, bid: false, quantity: tr.Quantity},
		)
	}
	return out
}

// AgentFeatures computes one row per agent from a completed run.
func AgentFeatures(result *simulationv1.Result) []AgentRow {
	trades := expandTrades(result)

	byAgent := map[int][]agentTrade{}
	for _, at := range trades {
		byAgent[at.agentID] = append(byAgent[at.agentID], at)
	}

	hasEvent := result.Config.HasEvent
	eventStep := result.Config.EventStep
	direction := 0
	if hasEvent {
		direction = result.Config.JumpDirection
	}

	rows := make([]AgentRow, 0, len(result.Agents))
	for _, final := range result.Agents {
		at := byAgent[final.AgentID]

		row := AgentRow{
			RunID:         result.Config.RunID,
			AgentID:       final.AgentID,
			Type:          string(final.Type),
			IsIllegal:     final.IsIllegal,
			IllegalType:   final.IllegalType,
			GroupID:       final.GroupID,
			CashFinal:     final.Cash,
			PositionFinal: final.Position,
			EquityFinal:   final.Equity,
			NumTrades:     len(at),
		}

		for _, tr := range at {
			row.TotalVolume += tr.quantity
			if tr.bid {
				row.BuyVolume += tr.quantity
				row.NetVolume += tr.quantity
			} else {
				row.SellVolume += tr.quantity
				row.NetVolume -= tr.quantity
			}

			if hasEvent {
				if tr.step < eventStep {
					row.PreEventVolume += tr.quantity
					if (direction > 0 && tr.bid) || (direction < 0 && !tr.bid) {
						row.AlignedPreEventVolume += tr.quantity
					}
				} else {
					row.PostEventVolume += tr.quantity
				}
			}
		}

		if row.NumTrades > 0 {
			row.AvgTradeSize = float64(row.TotalVolume) / float64(row.NumTrades)
		}

		rows = append(rows, row)
	}

	return rows
}

// WindowFeatures computes one row per non-overlapping window of the mid
// price series. The trailing partial window is dropped.
func WindowFeatures(result *simulationv1.Result, windowSize int) []WindowRow {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	mids := result.MidPrices()
	if len(mids) == 0 {
		return nil
	}

	illegal := map[int]bool{}
	for _, final := range result.Agents {
		if final.IsIllegal {
			illegal[final.AgentID] = true
		}
	}

	trades := expandTrades(result)
	returns := logReturns(mids)

	numWindows := len(mids) / windowSize
	rows := make([]WindowRow, 0, numWindows)

	for w := 0; w < numWindows; w++ {
		start := w * windowSize
		end := start + windowSize

		row := WindowRow{
			RunID:       result.Config.RunID,
			WindowIndex: w,
			StartStep:   start,
			EndStep:     end,
		}

		for _, tr := range result.Trades {
			if tr.Step >= start && tr.Step < end {
				row.NumTrades++
				row.TotalVolume += tr.Quantity
			}
		}

		active := map[int]bool{}
		for _, at := range trades {
			if at.step < start || at.step >= end {
				continue
			}
			active[at.agentID] = true
			if at.bid {
				row.BuyVolume += at.quantity
			} else {
				row.SellVolume += at.quantity
			}
			if illegal[at.agentID] {
				row.HasIllegal = true
			}
		}
		row.NumActiveAgents = len(active)

		last := end - 1
		if end >= len(mids) {
			last = len(returns)
		}
		row.RealizedVolatility = stddev(returns[start:last])

		if result.Config.HasEvent {
			center := float64(start+end) / 2
			row.EventDistance = center - float64(result.Config.EventStep)
		}

		rows = append(rows, row)
	}

	return rows
}

func logReturns(mids []int64) []float64 {
	if len(mids) < 2 {
		return nil
	}
	out := make([]float64, len(mids)-1)
	for i := 1; i < len(mids); i++ {
		out[i-1] = math.Log(float64(mids[i])) - math.Log(float64(mids[i-1]))
	}
	return out
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
