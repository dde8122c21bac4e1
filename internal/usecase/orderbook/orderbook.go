package orderbook

import (
	"fmt"
	"sort"

	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// Book is the matching engine for a single simulation run. It is owned by
// exactly one loop for its whole lifetime, so it carries no locks; cross-run
// parallelism is achieved by replication, never by sharing.
type Book struct {
	AskLevels map[int64]*orderbookv1.Level // price -> level
	BidLevels map[int64]*orderbookv1.Level // price -> level
	Orders    map[int64]*orderbookv1.Order // orderID -> resting order

	nextOrderID int64
	sequence    int64
	tradeSeq    int64
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		AskLevels: make(map[int64]*orderbookv1.Level),
		BidLevels: make(map[int64]*orderbookv1.Level),
		Orders:    make(map[int64]*orderbookv1.Order),
	}
}

// Submit validates and executes an order request. Validation failures are
// rejected before any book state mutates. A returned InvariantViolation
// means the engine itself is broken and the run must abort.
func (b *Book) Submit(step int, agentID int, req orderbookv1.OrderRequest) (*orderbookv1.SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Type == orderbookv1.OrderTypeCancelAll {
		b.CancelAgentOrders(agentID)
		return &orderbookv1.SubmitResult{}, nil
	}

	b.nextOrderID++
	b.sequence++
	order := &orderbookv1.Order{
		ID:        b.nextOrderID,
		AgentID:   agentID,
		Type:      req.Type,
		Bid:       req.Bid,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Remaining: req.Quantity,
		Step:      step,
		Sequence:  b.sequence,
	}

	matches := b.matchIncoming(order)

	result := &orderbookv1.SubmitResult{
		OrderID: order.ID,
		Trades:  b.tradesFromMatches(step, matches),
	}

	if order.Remaining > 0 {
		if order.Type == orderbookv1.OrderTypeLimit {
			// the remainder rests with fresh time priority
			b.sequence++
			order.Sequence = b.sequence
			if err := b.rest(order); err != nil {
				return result, err
			}
			result.Resting = true
		} else {
			// market remainders are rejected, never rested
			result.Unfilled = order.Remaining
		}
	}

	if order.Remaining < 0 {
		return result, orderbookv1.NewInvariantViolation(step, order.ID,
			fmt.Sprintf("negative remaining quantity %d", order.Remaining))
	}
	if err := b.checkNotCrossed(step, order.ID); err != nil {
		return result, err
	}

	return result, nil
}

// matchIncoming walks acceptable opposite-side levels in price priority and
// fills against them, removing exhausted orders and levels.
func (b *Book) matchIncoming(order *orderbookv1.Order) []orderbookv1.Match {
	var matches []orderbookv1.Match

	opposite := b.AskLevels
	if order.IsAsk() {
		opposite = b.BidLevels
	}

	levels := make(orderbookv1.Levels, 0, len(opposite))
	for price := range opposite {
		levels = append(levels, opposite[price])
	}
	if order.IsBid() {
		sort.Sort(orderbookv1.ByBestAsk{Levels: levels})
	} else {
		sort.Sort(orderbookv1.ByBestBid{Levels: levels})
	}

	for _, level := range levels {
		if order.Remaining <= 0 {
			break
		}
		if order.Type == orderbookv1.OrderTypeLimit {
			if order.IsBid() && level.Price > order.Price {
				break
			}
			if order.IsAsk() && level.Price < order.Price {
				break
			}
		}

		levelMatches := level.Fill(order)
		for _, match := range levelMatches {
			resting := match.Ask
			if order.IsAsk() {
				resting = match.Bid
			}
			if resting.Remaining <= 0 {
				delete(b.Orders, resting.ID)
			}
		}
		matches = append(matches, levelMatches...)

		if level.IsEmpty() {
			delete(opposite, level.Price)
		}
	}

	return matches
}

// tradesFromMatches stamps matches with the step and a fresh trade sequence.
func (b *Book) tradesFromMatches(step int, matches []orderbookv1.Match) []orderbookv1.Trade {
	trades := make([]orderbookv1.Trade, 0, len(matches))
	for _, match := range matches {
		b.tradeSeq++
		trades = append(trades, orderbookv1.Trade{
			Step:        step,
			Sequence:    b.tradeSeq,
			Price:       match.Price,
			Quantity:    match.Quantity,
			BuyOrderID:  match.Bid.ID,
			SellOrderID: match.Ask.ID,
			BuyAgentID:  match.Bid.AgentID,
			SellAgentID: match.Ask.AgentID,
		})
	}
	return trades
}

// rest enqueues a limit order's remainder at its price level.
func (b *Book) rest(order *orderbookv1.Order) error {
	side := b.BidLevels
	if order.IsAsk() {
		side = b.AskLevels
	}

	level, exists := side[order.Price]
	if !exists {
		level = orderbookv1.NewLevel(order.Price)
		side[order.Price] = level
	}

	if err := level.AddOrder(order); err != nil {
		return err
	}
	b.Orders[order.ID] = order
	return nil
}

// Cancel removes a resting order by ID.
func (b *Book) Cancel(orderID int64) error {
	order, exists := b.Orders[orderID]
	if !exists {
		return orderbookv1.ErrOrderNotFound
	}

	level := order.Level
	if level != nil {
		if err := level.RemoveOrder(order); err != nil {
			return err
		}
		if level.IsEmpty() {
			if order.IsBid() {
				delete(b.BidLevels, level.Price)
			} else {
				delete(b.AskLevels, level.Price)
			}
		}
	}

	delete(b.Orders, orderID)
	return nil
}

// CancelAgentOrders cancels every resting order owned by the agent and
// returns the number cancelled. Orders are cancelled in ID order so the
// operation is deterministic.
func (b *Book) CancelAgentOrders(agentID int) int {
	var ids []int64
	for id, order := range b.Orders {
		if order.AgentID == agentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		// the only failure mode is "not found", impossible for ids from the map
		_ = b.Cancel(id)
	}
	return len(ids)
}

// BestBid returns the highest bid price, if any bids rest.
func (b *Book) BestBid() (int64, bool) {
	var best int64
	found := false
	for price := range b.BidLevels {
		if !found || price > best {
			best = price
			found = true
		}
	}
	return best, found
}

// BestAsk returns the lowest ask price, if any asks rest.
func (b *Book) BestAsk() (int64, bool) {
	var best int64
	found := false
	for price := range b.AskLevels {
		if !found || price < best {
			best = price
			found = true
		}
	}
	return best, found
}

// MidPrice returns the midpoint of the best bid and ask. With a one-sided
// book it returns that side's best price; with an empty book it returns
// the caller's fallback (the fundamental value, in practice).
func (b *Book) MidPrice(fallback int64) int64 {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()

	switch {
	case hasBid && hasAsk:
		return (bid + ask) / 2
	case hasBid:
		return bid
	case hasAsk:
		return ask
	default:
		return fallback
	}
}

// BidTotalVolume returns total resting bid volume.
func (b *Book) BidTotalVolume() int64 {
	var total int64
	for _, level := range b.BidLevels {
		total += level.TotalVolume
	}
	return total
}

// AskTotalVolume returns total resting ask volume.
func (b *Book) AskTotalVolume() int64 {
	var total int64
	for _, level := range b.AskLevels {
		total += level.TotalVolume
	}
	return total
}

// Depth returns an immutable snapshot of both sides, best price first.
func (b *Book) Depth() orderbookv1.Depth {
	bids := make(orderbookv1.Levels, 0, len(b.BidLevels))
	for price := range b.BidLevels {
		bids = append(bids, b.BidLevels[price])
	}
	sort.Sort(orderbookv1.ByBestBid{Levels: bids})

	asks := make(orderbookv1.Levels, 0, len(b.AskLevels))
	for price := range b.AskLevels {
		asks = append(asks, b.AskLevels[price])
	}
	sort.Sort(orderbookv1.ByBestAsk{Levels: asks})

	depth := orderbookv1.Depth{
		Bids: make([]orderbookv1.DepthEntry, 0, len(bids)),
		Asks: make([]orderbookv1.DepthEntry, 0, len(asks)),
	}
	for _, level := range bids {
		depth.Bids = append(depth.Bids, orderbookv1.DepthEntry{
			Price:    level.Price,
			Volume:   level.TotalVolume,
			NumOrder: level.OrderCount(),
		})
	}
	for _, level := range asks {
		depth.Asks = append(depth.Asks, orderbookv1.DepthEntry{
			Price:    level.Price,
			Volume:   level.TotalVolume,
			NumOrder: level.OrderCount(),
		})
	}
	return depth
}

// checkNotCrossed enforces the post-settlement invariant: a crossed book
// after matching completes is a defect of the algorithm, never valid state.
func (b *Book) checkNotCrossed(step int, orderID int64) error {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	if hasBid && hasAsk && bid >= ask {
		return orderbookv1.NewInvariantViolation(step, orderID,
			fmt.Sprintf("crossed book: best bid %d >= best ask %d", bid, ask))
	}
	return nil
}

// Validate performs deep consistency checks over the whole book. It is
// intended for tests and debugging, not the hot path.
func (b *Book) Validate() error {
	seen := make(map[int64]bool)
	for _, side := range []map[int64]*orderbookv1.Level{b.BidLevels, b.AskLevels} {
		for price, level := range side {
			if price != level.Price {
				return fmt.Errorf("level keyed at %d holds price %d", price, level.Price)
			}
			if err := level.Validate(); err != nil {
				return err
			}
			for _, order := range level.Orders {
				if seen[order.Sequence] {
					return fmt.Errorf("duplicate sequence number %d", order.Sequence)
				}
				seen[order.Sequence] = true
				if b.Orders[order.ID] != order {
					return fmt.Errorf("order %d in level %d missing from index", order.ID, price)
				}
			}
		}
	}
	return b.checkNotCrossed(0, 0)
}
