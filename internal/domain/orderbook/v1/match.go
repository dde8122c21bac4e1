package orderbookv1

// Match represents a cross between an ask and a bid order, before the book
// has stamped it with a trade sequence and step.
type Match struct {
	Ask      *Order `json:"ask"`
	Bid      *Order `json:"bid"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// AskIsFilled checks if the ask order is filled.
func (m *Match) AskIsFilled() bool {
	return m.Ask.Remaining <= 0
}

// BidIsFilled checks if the bid order is filled.
func (m *Match) BidIsFilled() bool {
	return m.Bid.Remaining <= 0
}

// Trade is a completed match: the immutable record appended to a run's
// trade log. Price is always the resting order's price.
type Trade struct {
	Step        int   `json:"step"`
	Sequence    int64 `json:"sequence"`
	Price       int64 `json:"price"`
	Quantity    int64 `json:"quantity"`
	BuyOrderID  int64 `json:"buyOrderID"`
	SellOrderID int64 `json:"sellOrderID"`
	BuyAgentID  int   `json:"buyAgentID"`
	SellAgentID int   `json:"sellAgentID"`
}
