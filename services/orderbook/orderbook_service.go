package orderbook

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

type Store interface {
	ListOpenBookOrders(ctx context.Context) ([]OpenOrder, error)
	ListTradesSince(ctx context.Context, pairID int64, since time.Time) ([]Trade, error)
	ListRecentTrades(ctx context.Context, pairID int64, limit int) ([]Trade, error)
}

type Service struct {
	book       *Book
	store      Store
	statsCache *gocache.Cache
	logger     *logging.Logger
}

func NewService(book *Book, store Store, logger *logging.Logger) *Service {
	return &Service{
		book:       book,
		store:      store,
		statsCache: gocache.New(2*time.Second, time.Minute),
		logger:     logger,
	}
}

// Rebuild loads open orders and the trailing trade window from the store
// into the in-memory book. Run once at boot before serving reads.
func (s *Service) Rebuild(ctx context.Context) error {
	orders, err := s.store.ListOpenBookOrders(ctx)
	if err != nil {
		return fmt.Errorf("rebuild order book: %w", err)
	}

	pairs := make(map[int64]bool)
	for _, o := range orders {
		s.book.Upsert(o)
		pairs[o.PairID] = true
	}

	since := time.Now().Add(-statsWindow)
	for pairID := range pairs {
		trades, err := s.store.ListTradesSince(ctx, pairID, since)
		if err != nil {
			return fmt.Errorf("rebuild trades for pair %d: %w", pairID, err)
		}
		for _, t := range trades {
			s.book.RecordTrade(t)
		}
	}

	s.logger.Info(fmt.Sprintf("order book rebuilt with %d open orders", len(orders)))
	return nil
}

// OrderBook aggregates the open order snapshot into sorted price levels:
// asks ascending, bids descending.
func (s *Service) OrderBook(pairID int64) *BookView {
	orders, _ := s.book.Snapshot(pairID)

	bidLevels := make(map[string]*Level)
	askLevels := make(map[string]*Level)

	for _, o := range orders {
		levels := bidLevels
		if o.Side == SideSell {
			levels = askLevels
		}
		key := o.Price.String()
		lvl, ok := levels[key]
		if !ok {
			lvl = &Level{Price: o.Price, Amount: decimal.Zero}
			levels[key] = lvl
		}
		lvl.Amount = lvl.Amount.Add(o.Amount)
	}

	view := &BookView{
		PairID: pairID,
		Bids:   flatten(bidLevels),
		Asks:   flatten(askLevels),
	}
	sort.Slice(view.Asks, func(i, j int) bool { return view.Asks[i].Price.LessThan(view.Asks[j].Price) })
	sort.Slice(view.Bids, func(i, j int) bool { return view.Bids[i].Price.GreaterThan(view.Bids[j].Price) })
	return view
}

func flatten(levels map[string]*Level) []Level {
	out := make([]Level, 0, len(levels))
	for _, lvl := range levels {
		lvl.TotalValue = lvl.Amount.Mul(lvl.Price)
		out = append(out, *lvl)
	}
	return out
}

// Stats folds the trailing 24h of completed trades into rolling statistics.
// Results are cached briefly; the dashboard polls aggressively.
func (s *Service) Stats(pairID int64) *Stats {
	cacheKey := fmt.Sprintf("stats:%d", pairID)
	if cached, ok := s.statsCache.Get(cacheKey); ok {
		return cached.(*Stats)
	}

	_, trades := s.book.Snapshot(pairID)
	stats := computeStats(pairID, trades, time.Now().Add(-statsWindow))
	s.statsCache.Set(cacheKey, stats, gocache.DefaultExpiration)
	return stats
}

func computeStats(pairID int64, trades []Trade, cutoff time.Time) *Stats {
	stats := &Stats{PairID: pairID}

	var open decimal.Decimal
	for _, t := range trades {
		if !t.CreatedAt.After(cutoff) {
			continue
		}
		if stats.Count == 0 {
			open = t.Price
			stats.High = t.Price
			stats.Low = t.Price
		}
		if t.Price.GreaterThan(stats.High) {
			stats.High = t.Price
		}
		if t.Price.LessThan(stats.Low) {
			stats.Low = t.Price
		}
		stats.LastPrice = t.Price
		stats.Volume = stats.Volume.Add(t.Amount)
		stats.Count++
	}

	if stats.Count > 0 {
		stats.PriceChange = stats.LastPrice.Sub(open)
		if open.IsPositive() {
			stats.PriceChangePercent = stats.PriceChange.Div(open).Mul(decimal.NewFromInt(100)).Round(4)
		}
	}

	return stats
}

// History reads recent completed trades straight from the store.
func (s *Service) History(ctx context.Context, pairID int64, limit int) ([]Trade, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.ListRecentTrades(ctx, pairID, limit)
}
