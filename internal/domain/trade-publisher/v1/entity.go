package tradepublisherv1

import (
	"encoding/json"

	orderbookv1 "github.com/xndrleib/Market-Simulation/internal/domain/orderbook/v1"
)

// TradeEvent is the wire form of one execution, tagged with the run that
// produced it.
type TradeEvent struct {
	RunID       int   `json:"runId"`
	Step        int   `json:"step"`
	Sequence    int64 `json:"sequence"`
	Price       int64 `json:"price"`
	Quantity    int64 `json:"quantity"`
	BuyOrderID  int64 `json:"buyOrderId"`
	SellOrderID int64 `json:"sellOrderId"`
	BuyAgentID  int   `json:"buyAgentId"`
	SellAgentID int   `json:"sellAgentId"`
}

// CreateFromTrade builds a trade event from an executed trade.
func CreateFromTrade(runID int, trade orderbookv1.Trade) *TradeEvent {
	return &TradeEvent{
		RunID:       runID,
		Step:        trade.Step,
		Sequence:    trade.Sequence,
		Price:       trade.Price,
		Quantity:    trade.Quantity,
		BuyOrderID:  trade.BuyOrderID,
		SellOrderID: trade.SellOrderID,
		BuyAgentID:  trade.BuyAgentID,
		SellAgentID: trade.SellAgentID,
	}
}

// ToBytes converts the trade event to a byte array.
func ToBytes(event *TradeEvent) []byte {
	buf, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	return buf
}

// FromBytes converts a byte array to a trade event.
func FromBytes(data []byte) *TradeEvent {
	var event TradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}
