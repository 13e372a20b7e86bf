package orderbook

import (
	"sync"
	"sync/atomic"
	"time"
)

// statsWindow is the trailing period rolling statistics cover.
const statsWindow = 24 * time.Hour

// snapshot is an immutable view of one pair's open orders and recent trades.
// Writers build a fresh copy and swap it in; readers only ever load.
type snapshot struct {
	orders map[int64]OpenOrder
	trades []Trade
}

type pairBook struct {
	mu      sync.Mutex // serializes writers only
	current atomic.Value
}

func newPairBook() *pairBook {
	b := &pairBook{}
	b.current.Store(&snapshot{orders: map[int64]OpenOrder{}})
	return b
}

func (b *pairBook) load() *snapshot {
	return b.current.Load().(*snapshot)
}

func (b *pairBook) mutate(fn func(next *snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.load()
	next := &snapshot{
		orders: make(map[int64]OpenOrder, len(prev.orders)+1),
		trades: prev.trades,
	}
	for id, o := range prev.orders {
		next.orders[id] = o
	}
	fn(next)
	b.current.Store(next)
}

// Book maintains per-pair copy-on-write snapshots of the open order set.
// The lifecycle's write path publishes into it; aggregation reads never
// block those writes.
type Book struct {
	mu    sync.RWMutex
	pairs map[int64]*pairBook
}

func NewBook() *Book {
	return &Book{pairs: make(map[int64]*pairBook)}
}

func (b *Book) pair(pairID int64) *pairBook {
	b.mu.RLock()
	pb, ok := b.pairs[pairID]
	b.mu.RUnlock()
	if ok {
		return pb
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if pb, ok = b.pairs[pairID]; !ok {
		pb = newPairBook()
		b.pairs[pairID] = pb
	}
	return pb
}

func (b *Book) Upsert(order OpenOrder) {
	b.pair(order.PairID).mutate(func(next *snapshot) {
		next.orders[order.OrderID] = order
	})
}

func (b *Book) Remove(pairID, orderID int64) {
	b.pair(pairID).mutate(func(next *snapshot) {
		delete(next.orders, orderID)
	})
}

// RecordTrade appends a completed trade and prunes everything that has
// fallen out of the stats window.
func (b *Book) RecordTrade(trade Trade) {
	cutoff := time.Now().Add(-statsWindow)
	b.pair(trade.PairID).mutate(func(next *snapshot) {
		kept := make([]Trade, 0, len(next.trades)+1)
		for _, t := range next.trades {
			if t.CreatedAt.After(cutoff) {
				kept = append(kept, t)
			}
		}
		next.trades = append(kept, trade)
	})
}

// Snapshot returns the current immutable view for a pair. The caller may
// read it freely; it will never change underneath them.
func (b *Book) Snapshot(pairID int64) (map[int64]OpenOrder, []Trade) {
	s := b.pair(pairID).load()
	return s.orders, s.trades
}
