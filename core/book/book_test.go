package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkOrder(oid uint64, isBuy bool, px, sz uint64) Order {
	return Order{OID: oid, IsBuy: isBuy, LimitPx: px, Sz: sz}
}

func TestEmptyBookSentinels(t *testing.T) {
	b := NewOrderBook()
	assert.Equal(t, NoBid, b.BestBid())
	assert.Equal(t, NoAsk, b.BestAsk())

	remaining, fills := b.Limit(mkOrder(1, true, 10, 10))
	assert.Equal(t, uint64(10), remaining)
	assert.Empty(t, fills)
	assert.Equal(t, uint64(10), b.BestBid())
}

func TestBestPriceTrackingBids(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))
	b.Limit(mkOrder(2, true, 20, 10))
	b.Limit(mkOrder(3, true, 30, 10))

	assert.Equal(t, uint64(30), b.BestBid())
	assert.Equal(t, NoAsk, b.BestAsk())
}

func TestBestPriceTrackingAsks(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, false, 10, 10))
	b.Limit(mkOrder(2, false, 20, 10))
	b.Limit(mkOrder(3, false, 30, 10))

	assert.Equal(t, NoBid, b.BestBid())
	assert.Equal(t, uint64(10), b.BestAsk())
}

func TestTakerSellCrossesTopOfBids(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))
	b.Limit(mkOrder(2, true, 20, 10))
	b.Limit(mkOrder(3, true, 30, 10))

	remaining, fills := b.Limit(mkOrder(4, false, 25, 10))
	require.Len(t, fills, 1)
	assert.Equal(t, Fill{MakerOID: 3, TakerOID: 4, Sz: 10}, fills[0])
	assert.Equal(t, uint64(0), remaining)
	assert.Equal(t, uint64(20), b.BestBid())
	assert.Equal(t, NoAsk, b.BestAsk())
}

func TestTakerBuyCrossesTopOfAsks(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, false, 10, 10))
	b.Limit(mkOrder(2, false, 20, 10))
	b.Limit(mkOrder(3, false, 30, 10))

	_, fills := b.Limit(mkOrder(4, true, 25, 10))
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(20), b.BestAsk())
}

func TestNonCrossingQuotesRest(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))
	b.Limit(mkOrder(2, true, 20, 10))
	b.Limit(mkOrder(3, false, 30, 10))
	_, fills := b.Limit(mkOrder(5, false, 25, 10))

	assert.Empty(t, fills)
	assert.Equal(t, uint64(20), b.BestBid())
	assert.Equal(t, uint64(25), b.BestAsk())
}

func TestPartialLevelFillPreservesFIFO(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))
	b.Limit(mkOrder(2, true, 10, 10))

	remaining, fills := b.Limit(mkOrder(3, false, 10, 10))
	assert.Equal(t, uint64(0), remaining)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(1), fills[0].MakerOID)
	assert.Equal(t, uint64(10), b.BestBid())
}

func TestCancelRemovesOrderAndEmptyLevel(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))

	require.NoError(t, b.Cancel(1))
	assert.Equal(t, NoBid, b.BestBid())

	err := b.Cancel(1)
	require.Error(t, err)
	var notFound *ErrOidNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestCancelLeavesSiblingOrderIntact(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, true, 10, 10))
	b.Limit(mkOrder(2, true, 10, 5))

	require.NoError(t, b.Cancel(1))
	assert.Equal(t, uint64(10), b.BestBid())

	_, fills := b.Limit(mkOrder(3, false, 10, 5))
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(2), fills[0].MakerOID)
}

func TestCrossingConsumesMultipleLevels(t *testing.T) {
	b := NewOrderBook()
	b.Limit(mkOrder(1, false, 10, 5))
	b.Limit(mkOrder(2, false, 20, 5))

	remaining, fills := b.Limit(mkOrder(3, true, 20, 10))
	assert.Equal(t, uint64(0), remaining)
	require.Len(t, fills, 2)
	assert.Equal(t, uint64(1), fills[0].MakerOID)
	assert.Equal(t, uint64(2), fills[1].MakerOID)
	assert.Equal(t, NoAsk, b.BestAsk())
}

func TestSelfTradeNotPrevented(t *testing.T) {
	b := NewOrderBook()
	addr := Addr{1}
	o1 := mkOrder(1, true, 10, 10)
	o1.Addr = addr
	b.Limit(o1)

	o2 := mkOrder(2, false, 10, 10)
	o2.Addr = addr
	_, fills := b.Limit(o2)
	require.Len(t, fills, 1)
}
