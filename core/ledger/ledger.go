// Package ledger implements per-account asset-A/asset-B balances with
// deposit, withdraw, reserve, and credit operations.
//
// Deposit/Withdraw are self-locking and meant for standalone callers (the
// /deposit and /withdraw handlers). ReserveForOrder/CreditTaker/CreditMaker
// do not lock and are meant to be called by the engine coordinator while
// it already holds the ledger lock across the whole place-order flow;
// Lock/Unlock expose that lock directly for this purpose.
package ledger

import (
	"errors"
	"sync"

	"github.com/anomi-labs/clob/core/book"
)

var (
	// ErrAccountNotFound is returned by withdraw/reserve when addr has
	// never been deposited into.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrInsufficientBalance is returned by withdraw/reserve when the
	// account exists but doesn't hold enough of the relevant asset.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
)

// Balance is an account's holdings of asset A (the traded instrument) and
// asset B (the quote/cash asset).
type Balance struct {
	A uint64
	B uint64
}

// Ledger is a mutex-guarded map from account to Balance.
type Ledger struct {
	mu       sync.Mutex
	balances map[book.Addr]Balance
}

func New() *Ledger {
	return &Ledger{balances: make(map[book.Addr]Balance)}
}

// Lock/Unlock expose the ledger's mutex so the engine coordinator can
// hold it across the full place_order flow (reserve -> match -> settle
// taker -> settle each maker), since maker settlement re-enters the
// ledger while still inside that same critical section.
func (l *Ledger) Lock()   { l.mu.Lock() }
func (l *Ledger) Unlock() { l.mu.Unlock() }

// Deposit upserts addr's balance, replacing any existing entry with the
// supplied amounts rather than adding to it.
func (l *Ledger) Deposit(addr book.Addr, a, b uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[addr] = Balance{A: a, B: b}
}

// Withdraw debits both assets from addr's balance if it exists and holds
// enough of each; otherwise returns ErrAccountNotFound or
// ErrInsufficientBalance without mutating anything.
func (l *Ledger) Withdraw(addr book.Addr, a, b uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.balances[addr]
	if !ok {
		return ErrAccountNotFound
	}
	if bal.A < a || bal.B < b {
		return ErrInsufficientBalance
	}
	bal.A -= a
	bal.B -= b
	l.balances[addr] = bal
	return nil
}

// ReserveForOrder debits the spent-side amount for a new taker order: the
// quote asset (B) for a buy, the instrument (A) for a sell. Caller must
// hold the ledger lock (see Lock/Unlock).
func (l *Ledger) ReserveForOrder(addr book.Addr, isBuy bool, sz uint64) error {
	bal, ok := l.balances[addr]
	if !ok {
		return ErrAccountNotFound
	}

	if isBuy {
		if bal.B < sz {
			return ErrInsufficientBalance
		}
		bal.B -= sz
	} else {
		if bal.A < sz {
			return ErrInsufficientBalance
		}
		bal.A -= sz
	}
	l.balances[addr] = bal
	return nil
}

// CreditTaker credits the taker's receive side by filledSz: asset A for a
// buy, asset B for a sell. Caller must hold the ledger lock.
func (l *Ledger) CreditTaker(addr book.Addr, isBuy bool, filledSz uint64) {
	l.credit(addr, isBuy, filledSz)
}

// CreditMaker credits a maker on the side opposite the taker's spend:
// asset B when the taker was a buy, asset A when the taker was a sell.
// Caller must hold the ledger lock.
func (l *Ledger) CreditMaker(addr book.Addr, takerIsBuy bool, sz uint64) {
	l.credit(addr, !takerIsBuy, sz)
}

// credit adds sz to asset A when creditA is true, else to asset B.
func (l *Ledger) credit(addr book.Addr, creditA bool, sz uint64) {
	bal := l.balances[addr]
	if creditA {
		bal.A += sz
	} else {
		bal.B += sz
	}
	l.balances[addr] = bal
}

// BalanceOf returns addr's current balance and whether the account exists.
func (l *Ledger) BalanceOf(addr book.Addr) (Balance, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, ok := l.balances[addr]
	return bal, ok
}
