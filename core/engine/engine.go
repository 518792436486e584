// Package engine coordinates the matching engine's shared state: it
// sequences place-order through balance reservation, OID allocation,
// matching, and settlement, and handles cancel and status lookups.
//
// Lock order is ledger -> OID counter -> book -> status registry, always.
// No operation acquires these locks in any other order.
package engine

import (
	"sync"

	"github.com/anomi-labs/clob/core/book"
	"github.com/anomi-labs/clob/core/ledger"
	"github.com/anomi-labs/clob/core/registry"
	"go.uber.org/zap"
)

// Publisher is the audit/event sink hook. The engine never blocks on it
// and never lets it affect a response.
type Publisher interface {
	Publish(event interface{})
}

// noopPublisher is used when no audit sink is configured.
type noopPublisher struct{}

func (noopPublisher) Publish(interface{}) {}

// Engine is the single-process coordinator owning the four shared
// resources: the balance ledger, the order book, the status registry,
// and the OID counter.
type Engine struct {
	ledger   *ledger.Ledger
	book     *book.OrderBook
	bookMu   sync.Mutex
	registry *registry.Registry
	oidMu    sync.Mutex
	nextOID  uint64

	logger    *zap.Logger
	publisher Publisher
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPublisher wires an audit/event sink. Passing nil is equivalent to
// omitting this option.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		ledger:    ledger.New(),
		book:      book.NewOrderBook(),
		registry:  registry.New(),
		logger:    zap.NewNop(),
		publisher: noopPublisher{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deposit locks the ledger only.
func (e *Engine) Deposit(addr book.Addr, a, b uint64) {
	e.ledger.Deposit(addr, a, b)
	e.logger.Info("deposit", zap.Uint64("a", a), zap.Uint64("b", b))
	e.publish(AuditEvent{Kind: KindDeposit, Addr: addr, A: a, B: b})
}

// Withdraw locks the ledger only.
func (e *Engine) Withdraw(addr book.Addr, a, b uint64) bool {
	if err := e.ledger.Withdraw(addr, a, b); err != nil {
		e.logger.Info("withdraw rejected", zap.Error(err))
		return false
	}
	e.publish(AuditEvent{Kind: KindWithdraw, Addr: addr, A: a, B: b})
	return true
}

// PlaceOrder sequences the full place-order flow: reserve the taker's
// spent side, allocate the OID, match, settle the taker and each maker,
// record the taker's status. The ledger lock is held for the whole flow
// because maker settlement re-enters it.
func (e *Engine) PlaceOrder(addr book.Addr, isBuy bool, limitPx, sz uint64) (*registry.FillStatus, bool) {
	e.ledger.Lock()

	if err := e.ledger.ReserveForOrder(addr, isBuy, sz); err != nil {
		e.ledger.Unlock()
		e.logger.Info("place_order rejected at reserve", zap.Error(err))
		return nil, false
	}

	oid := e.allocateOID()

	taker := book.Order{OID: oid, Addr: addr, IsBuy: isBuy, LimitPx: limitPx, Sz: sz}

	// The book lock stays held through settlement and status recording so
	// no other observer can see the mutated book before the corresponding
	// balance and registry updates land.
	e.bookMu.Lock()
	_, fills := e.book.Limit(taker)

	var filledSz uint64
	statusFills := make([]registry.Fill, 0, len(fills))
	for _, f := range fills {
		filledSz += f.Sz
		statusFills = append(statusFills, registry.Fill{MakerOID: f.MakerOID, TakerOID: f.TakerOID, Sz: f.Sz})
	}

	e.ledger.CreditTaker(addr, isBuy, filledSz)

	for _, f := range fills {
		makerStatus, ok := e.registry.Lookup(f.MakerOID)
		if !ok {
			// The maker's own FillStatus was inserted when it was placed;
			// its absence here is an internal invariant violation.
			e.logger.Error("maker fill status missing", zap.Uint64("makerOid", f.MakerOID))
			continue
		}
		e.registry.AppendMakerFill(f.MakerOID, registry.Fill{MakerOID: f.MakerOID, TakerOID: f.TakerOID, Sz: f.Sz})
		e.ledger.CreditMaker(makerStatus.Addr, isBuy, f.Sz)
	}

	status := &registry.FillStatus{OID: oid, Sz: sz, Addr: addr, FilledSz: filledSz, Fills: statusFills}
	e.registry.Insert(status)
	e.bookMu.Unlock()
	e.ledger.Unlock()

	// Logging and publishing happen only after every engine lock has been
	// released; the sink can never be observed as contention by a
	// concurrent request.
	e.logger.Info("place_order accepted",
		zap.Uint64("oid", oid), zap.Bool("isBuy", isBuy),
		zap.Uint64("limitPx", limitPx), zap.Uint64("sz", sz),
		zap.Uint64("filledSz", filledSz))
	e.publish(AuditEvent{Kind: KindOrder, Addr: addr, OID: oid, IsBuy: isBuy, LimitPx: limitPx, Sz: sz})

	return status, true
}

// Cancel locks the book only. Reserved balance is not refunded.
func (e *Engine) Cancel(oid uint64) bool {
	e.bookMu.Lock()
	err := e.book.Cancel(oid)
	e.bookMu.Unlock()

	if err != nil {
		e.logger.Info("cancel rejected", zap.Uint64("oid", oid), zap.Error(err))
		return false
	}
	e.publish(AuditEvent{Kind: KindCancel, OID: oid})
	return true
}

// Status locks the status registry only. Pure read.
func (e *Engine) Status(oid uint64) (*registry.FillStatus, bool) {
	return e.registry.Lookup(oid)
}

func (e *Engine) allocateOID() uint64 {
	e.oidMu.Lock()
	defer e.oidMu.Unlock()
	oid := e.nextOID
	e.nextOID++
	return oid
}

func (e *Engine) publish(ev AuditEvent) {
	if e.publisher == nil {
		return
	}
	e.publisher.Publish(ev)
}
