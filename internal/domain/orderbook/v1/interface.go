package orderbookv1

// SubmitResult reports what happened to a submitted order request.
type SubmitResult struct {
	// OrderID is the identity assigned to the incoming order.
	OrderID int64
	// Trades lists the matches the order produced, in execution order.
	Trades []Trade
	// Resting is true when a limit order's remainder was enqueued on the book.
	Resting bool
	// Unfilled is the remainder of a market order that found no liquidity.
	// Unfilled quantity never rests; it is rejected back to the caller.
	Unfilled int64
}

// DepthEntry is one price level of a book snapshot.
type DepthEntry struct {
	Price    int64 `json:"price"`
	Volume   int64 `json:"volume"`
	NumOrder int   `json:"numOrder"`
}

// Depth is an immutable snapshot of both sides of the book, best first.
type Depth struct {
	Bids []DepthEntry `json:"bids"`
	Asks []DepthEntry `json:"asks"`
}

// Book defines the matching-engine contract. A Book instance is owned by a
// single simulation run and mutated only by that run's loop.
type Book interface {
	Submit(step int, agentID int, req OrderRequest) (*SubmitResult, error)
	Cancel(orderID int64) error
	CancelAgentOrders(agentID int) int
	BestBid() (int64, bool)
	BestAsk() (int64, bool)
	MidPrice(fallback int64) int64
	BidTotalVolume() int64
	AskTotalVolume() int64
	Depth() Depth
	Validate() error
}
