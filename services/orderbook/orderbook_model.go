package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// OpenOrder is the slice of an order the aggregator needs. It references the
// lifecycle's order by id but never owns it.
type OpenOrder struct {
	OrderID int64           `json:"order_id"`
	PairID  int64           `json:"pair_id"`
	Side    string          `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
	Price   decimal.Decimal `json:"price"`
}

// Trade is one completed settlement, folded into the rolling statistics.
type Trade struct {
	ID        int64           `json:"id"`
	PairID    int64           `json:"pair_id"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Level is one aggregated price level of the book.
type Level struct {
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

type BookView struct {
	PairID int64   `json:"pair_id"`
	Bids   []Level `json:"bids"`
	Asks   []Level `json:"asks"`
}

type Stats struct {
	PairID             int64           `json:"pair_id"`
	LastPrice          decimal.Decimal `json:"lastPrice"`
	PriceChange        decimal.Decimal `json:"priceChange"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
	High               decimal.Decimal `json:"high"`
	Low                decimal.Decimal `json:"low"`
	Volume             decimal.Decimal `json:"volume"`
	Count              int             `json:"count"`
}
