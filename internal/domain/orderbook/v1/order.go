package orderbookv1

import "fmt"

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeCancelAll represents a request to cancel all of the
	// submitting agent's resting orders.
	OrderTypeCancelAll OrderType = "cancel_all"
)

// Order represents a single order in the order book. Prices are integer
// ticks and quantities are integer units; matching never touches
// floating-point arithmetic.
type Order struct {
	ID        int64     `json:"id"`
	AgentID   int       `json:"agentID"`
	Type      OrderType `json:"type"`
	Bid       bool      `json:"bid"`
	Price     int64     `json:"price"` // limit price in ticks, zero for market orders
	Quantity  int64     `json:"quantity"`
	Remaining int64     `json:"remaining"`
	Step      int       `json:"step"`     // simulation step the order was submitted at
	Sequence  int64     `json:"sequence"` // arrival sequence, also resting time priority
	Level     *Level    `json:"-"`        // backpointer to the level holding the order while resting
}

// OrderRequest represents an agent's request to trade, before the book has
// assigned identity and priority.
type OrderRequest struct {
	Type     OrderType `json:"type"`
	Bid      bool      `json:"bid"`
	Price    int64     `json:"price"` // ignored for market and cancel_all requests
	Quantity int64     `json:"quantity"`
}

// Validate rejects malformed requests before they can touch book state.
func (r OrderRequest) Validate() error {
	switch r.Type {
	case OrderTypeCancelAll:
		return nil
	case OrderTypeMarket:
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidQuantity, r.Quantity)
		}
		return nil
	case OrderTypeLimit:
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidQuantity, r.Quantity)
		}
		if r.Price <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidPrice, r.Price)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrderType, r.Type)
	}
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Bid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return !o.Bid
}

// IsFilled checks if the order is filled (remaining quantity is zero).
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}
