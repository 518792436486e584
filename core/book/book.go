package book

import (
	"github.com/gammazero/deque"
	"github.com/tidwall/btree"
)

// priceLevel is the FIFO queue of orders resting at one price on one side.
// Ordering inside the deque is insertion order: head is oldest.
type priceLevel struct {
	px     uint64
	orders *deque.Deque[*Order]
}

type priceLevels = btree.BTreeG[*priceLevel]

type oidLoc struct {
	px    uint64
	isBuy bool
}

// OrderBook is a single-instrument two-sided price-time-priority book.
// Each side is a btree of price levels keyed so that Min() is always the
// best price; the oid index maps a resting order back to its level for
// cancellation without scanning.
type OrderBook struct {
	bids *priceLevels // sorted descending: best bid is Min()
	asks *priceLevels // sorted ascending: best ask is Min()
	oids map[uint64]oidLoc
}

func NewOrderBook() *OrderBook {
	bids := btree.NewBTreeG(func(a, b *priceLevel) bool { return a.px > b.px })
	asks := btree.NewBTreeG(func(a, b *priceLevel) bool { return a.px < b.px })
	return &OrderBook{
		bids: bids,
		asks: asks,
		oids: make(map[uint64]oidLoc),
	}
}

// BestBid returns the highest resting bid price, or NoBid if the bid side is empty.
func (b *OrderBook) BestBid() uint64 {
	if lvl, ok := b.bids.Min(); ok {
		return lvl.px
	}
	return NoBid
}

// BestAsk returns the lowest resting ask price, or NoAsk if the ask side is empty.
func (b *OrderBook) BestAsk() uint64 {
	if lvl, ok := b.asks.Min(); ok {
		return lvl.px
	}
	return NoAsk
}

// Limit places a taker limit order, matching it against resting liquidity
// on the opposite side and resting any residual on the order's own side.
// Fills are returned in the order they were generated.
func (b *OrderBook) Limit(order Order) (remaining uint64, fills []Fill) {
	if order.IsBuy {
		remaining, fills = b.match(order, b.asks, func(px uint64) bool { return px <= order.LimitPx })
	} else {
		remaining, fills = b.match(order, b.bids, func(px uint64) bool { return px >= order.LimitPx })
	}

	if remaining > 0 {
		order.Sz = remaining
		b.rest(order)
	}
	return remaining, fills
}

// match sweeps the opposite-side levels while crosses holds, consuming
// maker orders from each level's head and emitting Fill records.
func (b *OrderBook) match(taker Order, opposite *priceLevels, crosses func(px uint64) bool) (uint64, []Fill) {
	remaining := taker.Sz
	var fills []Fill

	for remaining > 0 {
		lvl, ok := opposite.Min()
		if !ok || !crosses(lvl.px) {
			break
		}

		for remaining > 0 && lvl.orders.Len() > 0 {
			maker := lvl.orders.Front()
			matchSz := min(maker.Sz, remaining)

			fills = append(fills, Fill{MakerOID: maker.OID, TakerOID: taker.OID, Sz: matchSz})
			maker.Sz -= matchSz
			remaining -= matchSz

			if maker.Sz == 0 {
				lvl.orders.PopFront()
				delete(b.oids, maker.OID)
			}
		}

		if lvl.orders.Len() == 0 {
			opposite.Delete(lvl)
		}
	}

	return remaining, fills
}

// rest appends a residual order to its own side, creating the price
// level if necessary, and records it in the OID index.
func (b *OrderBook) rest(order Order) {
	side := b.bids
	if !order.IsBuy {
		side = b.asks
	}

	lvl, ok := side.GetMut(&priceLevel{px: order.LimitPx})
	if !ok {
		lvl = &priceLevel{px: order.LimitPx, orders: deque.New[*Order]()}
		side.Set(lvl)
	}

	o := order
	lvl.orders.PushBack(&o)
	b.oids[order.OID] = oidLoc{px: order.LimitPx, isBuy: order.IsBuy}
}

// Cancel removes a resting order from the book. Returns *ErrOidNotFound
// if the oid isn't currently resting.
func (b *OrderBook) Cancel(oid uint64) error {
	loc, ok := b.oids[oid]
	if !ok {
		return &ErrOidNotFound{OID: oid}
	}

	side := b.bids
	if !loc.isBuy {
		side = b.asks
	}

	lvl, ok := side.GetMut(&priceLevel{px: loc.px})
	if !ok {
		return &ErrOidNotFound{OID: oid}
	}

	for i := 0; i < lvl.orders.Len(); i++ {
		if lvl.orders.At(i).OID == oid {
			lvl.orders.Remove(i)
			break
		}
	}
	delete(b.oids, oid)

	if lvl.orders.Len() == 0 {
		side.Delete(lvl)
	}
	return nil
}
