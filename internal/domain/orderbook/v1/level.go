package orderbookv1

import "fmt"

// Level represents a price level in the order book with its resting orders.
// Orders are kept in FIFO order: ascending arrival sequence. The book is
// owned by a single writer for its whole lifetime, so Level carries no lock.
type Level struct {
	Price       int64    `json:"price"`
	Orders      []*Order `json:"orders"`
	TotalVolume int64    `json:"totalVolume"`
}

// NewLevel creates a new Level with the specified price.
func NewLevel(price int64) *Level {
	return &Level{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder appends an order to the level and updates the total volume.
// Sequence numbers are assigned monotonically by the book, so appending
// preserves FIFO priority.
func (l *Level) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Remaining <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Remaining)
	}

	order.Level = l
	l.Orders = append(l.Orders, order)
	l.TotalVolume += order.Remaining

	return nil
}

// RemoveOrder removes an order from the level and updates the total volume.
func (l *Level) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume -= order.Remaining
			order.Level = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// Fill matches the level against an incoming order and returns matches in
// strict FIFO order. Fully filled resting orders are removed from the level.
func (l *Level) Fill(incoming *Order) []Match {
	if incoming == nil {
		return nil
	}

	var matches []Match
	var filled []*Order

	for _, resting := range l.Orders {
		if incoming.Remaining <= 0 {
			break
		}

		match := l.createMatch(incoming, resting)
		matches = append(matches, match)

		l.TotalVolume -= match.Quantity

		if resting.Remaining <= 0 {
			filled = append(filled, resting)
		}
	}

	for _, order := range filled {
		l.removeFilled(order)
	}

	return matches
}

// createMatch crosses the incoming order with a resting one at the level's price.
func (l *Level) createMatch(incoming, resting *Order) Match {
	var bid, ask *Order
	if incoming.IsBid() {
		bid = incoming
		ask = resting
	} else {
		bid = resting
		ask = incoming
	}

	quantity := incoming.Remaining
	if resting.Remaining < quantity {
		quantity = resting.Remaining
	}
	incoming.Remaining -= quantity
	resting.Remaining -= quantity

	return Match{
		Ask:      ask,
		Bid:      bid,
		Quantity: quantity,
		Price:    l.Price,
	}
}

func (l *Level) removeFilled(order *Order) {
	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			order.Level = nil
			break
		}
	}
}

// IsEmpty checks if the level has no orders.
func (l *Level) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this level.
func (l *Level) OrderCount() int {
	return len(l.Orders)
}

// Validate performs consistency checks on the level's state.
func (l *Level) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("%w: level price %d", ErrInvalidPrice, l.Price)
	}

	var volume int64
	var lastSeq int64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in level %d", l.Price)
		}
		if order.Remaining <= 0 {
			return fmt.Errorf("%w: order %d has remaining %d", ErrInvalidQuantity, order.ID, order.Remaining)
		}
		if order.Sequence <= lastSeq {
			return fmt.Errorf("level %d violates FIFO: sequence %d follows %d", l.Price, order.Sequence, lastSeq)
		}
		lastSeq = order.Sequence
		volume += order.Remaining
	}

	if volume != l.TotalVolume {
		return fmt.Errorf("volume mismatch at level %d: calculated %d, stored %d", l.Price, volume, l.TotalVolume)
	}

	return nil
}
