package simulation

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"

	pkgerrors "github.com/xndrleib/Market-Simulation/pkg/errors"
	"github.com/xndrleib/Market-Simulation/pkg/logger"

	agentv1 "github.com/xndrleib/Market-Simulation/internal/domain/agent/v1"
	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
	simulationv1 "github.com/xndrleib/Market-Simulation/internal/domain/simulation/v1"
	agentuc "github.com/xndrleib/Market-Simulation/internal/usecase/agent"
	orderbookuc "github.com/xndrleib/Market-Simulation/internal/usecase/orderbook"
)

// historyWindow bounds the mid-price history exposed to agents each step.
const historyWindow = 50

type status int

const (
	statusInitialized status = iota
	statusRunning
	statusCompleted
)

// Run drives a single simulation: one book, one agent population, one
// fundamental process, advanced step by step. A Run is single-use; build
// a new one per configuration.
type Run struct {
	cfg    simulationv1.Config
	log    logger.Interface
	status status

	seedUsed    int64
	fromEntropy bool

	book   *orderbookuc.Book
	agents []agentv1.Agent
	byID   map[int]agentv1.Agent

	fundamentalRNG *rand.Rand
}

// NewRun validates the configuration and assembles the run. A zero seed is
// replaced with one drawn from system entropy; the seed actually used is
// recorded on the result so the run stays reproducible after the fact.
func NewRun(cfg simulationv1.Config, log logger.Interface) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.TracerFromError(err)
	}

	seed := cfg.Seed
	fromEntropy := false
	if seed == 0 {
		seed = entropySeed()
		fromEntropy = true
		log.Warn("seed not set, drew from system entropy",
			logger.NewField("run_id", cfg.RunID),
			logger.NewField("seed_used", seed),
		)
	}

	r := &Run{
		cfg:            cfg,
		log:            log,
		status:         statusInitialized,
		seedUsed:       seed,
		fromEntropy:    fromEntropy,
		book:           orderbookuc.NewBook(),
		byID:           map[int]agentv1.Agent{},
		fundamentalRNG: rand.New(rand.NewSource(simulationv1.FundamentalSeed(seed))),
	}

	r.agents = agentuc.BuildPopulation(cfg, seed)
	for _, a := range r.agents {
		r.byID[a.ID()] = a
	}

	return r, nil
}

// Run executes every configured step and returns the collected result.
// Cancellation is honored at step boundaries only, so a returned partial
// result is always consistent through its last completed step. A non-nil
// error alongside a result means the run stopped early; an invariant
// violation from the book aborts immediately.
func (r *Run) Run(ctx context.Context) (*simulationv1.Result, error) {
	r.status = statusRunning

	result := &simulationv1.Result{
		Config:          r.cfg,
		SeedUsed:        r.seedUsed,
		SeedFromEntropy: r.fromEntropy,
	}

	v := float64(r.cfg.InitialPrice)
	var midHistory []int64

	for t := 0; t < r.cfg.Steps; t++ {
		if err := ctx.Err(); err != nil {
			result.CompletedSteps = t
			r.finalize(result)
			return result, pkgerrors.TracerFromError(err)
		}

		v = r.advanceFundamental(t, v)

		obs := agentv1.Observation{
			Step:        t,
			Mid:         r.book.MidPrice(r.roundToTick(v)),
			Fundamental: v,
			History:     tailWindow(midHistory, historyWindow),
		}
		obs.BestBid, obs.HasBid = r.book.BestBid()
		obs.BestAsk, obs.HasAsk = r.book.BestAsk()

		for _, a := range r.agents {
			for _, req := range a.Decide(obs) {
				if err := r.submit(t, a.ID(), req, result); err != nil {
					result.CompletedSteps = t
					r.finalize(result)
					return result, err
				}
			}
		}

		point := simulationv1.PricePoint{
			Step:        t,
			Fundamental: v,
			Mid:         r.book.MidPrice(r.roundToTick(v)),
		}
		point.BestBid, point.HasBid = r.book.BestBid()
		point.BestAsk, point.HasAsk = r.book.BestAsk()
		result.Prices = append(result.Prices, point)
		midHistory = append(midHistory, point.Mid)
	}

	result.CompletedSteps = r.cfg.Steps
	r.finalize(result)
	r.status = statusCompleted

	r.log.Info("simulation completed",
		logger.NewField("run_id", r.cfg.RunID),
		logger.NewField("steps", result.CompletedSteps),
		logger.NewField("trades", len(result.Trades)),
		logger.NewField("agents", len(r.agents)),
		logger.NewField("rejected_validation", result.Rejects.Validation),
		logger.NewField("rejected_unfilled_market", result.Rejects.UnfilledMarket),
	)

	return result, nil
}

// submit routes one request through the book, counts recoverable
// rejections and fans fills out to both counterparties. Only an engine
// invariant violation is returned as an error.
func (r *Run) submit(step, agentID int, req orderbookv1.OrderRequest, result *simulationv1.Result) error {
	res, err := r.book.Submit(step, agentID, req)
	if err != nil {
		var violation *orderbookv1.InvariantViolation
		if errors.As(err, &violation) {
			r.log.Error(err,
				logger.NewField("run_id", r.cfg.RunID),
				logger.NewField("step", step),
				logger.NewField("agent_id", agentID),
			)
			return pkgerrors.TracerFromError(err)
		}
		result.Rejects.Validation++
		return nil
	}

	if res.Unfilled > 0 {
		result.Rejects.UnfilledMarket++
	}

	for _, trade := range res.Trades {
		result.Trades = append(result.Trades, trade)
		if buyer, ok := r.byID[trade.BuyAgentID]; ok {
			buyer.OnFill(agentv1.Fill{Step: step, Price: trade.Price, Quantity: trade.Quantity, Bid: true})
		}
		if seller, ok := r.byID[trade.SellAgentID]; ok {
			seller.OnFill(agentv1.Fill{Step: step, Price: trade.Price, Quantity: trade.Quantity, Bid: false})
		}
	}

	return nil
}

// advanceFundamental moves the fundamental value one step: the scheduled
// jump replaces the gaussian increment at the event step.
func (r *Run) advanceFundamental(t int, v float64) float64 {
	if r.cfg.HasEvent && t == r.cfg.EventStep && r.cfg.JumpDirection != 0 {
		return v * (1 + float64(r.cfg.JumpDirection)*math.Abs(r.cfg.JumpSize))
	}
	return v + r.fundamentalRNG.NormFloat64()*r.cfg.Volatility
}

// finalize snapshots agent states with equity marked to the last mid.
func (r *Run) finalize(result *simulationv1.Result) {
	mark := result.LastMid()
	result.Agents = make([]simulationv1.AgentFinal, 0, len(r.agents))
	for _, a := range r.agents {
		state := a.State()
		result.Agents = append(result.Agents, simulationv1.AgentFinal{
			State:  state,
			Equity: state.Cash + state.Position*mark,
		})
	}
}

func (r *Run) roundToTick(v float64) int64 {
	tick := r.cfg.TickSize
	aligned := int64(math.Round(v/float64(tick))) * tick
	if aligned < tick {
		aligned = tick
	}
	return aligned
}

func tailWindow(series []int64, n int) []int64 {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

func entropySeed() int64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// entropy exhaustion is not survivable in any useful way
		panic(err)
	}
	seed := int64(binary.BigEndian.Uint64(buf[:]) & (1<<63 - 1))
	if seed == 0 {
		seed = 1
	}
	return seed
}
