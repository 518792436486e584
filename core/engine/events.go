package engine

import "github.com/anomi-labs/clob/core/book"

// Kind discriminates the AuditEvent payload shape.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindOrder    Kind = "order"
	KindCancel   Kind = "cancel"
)

// AuditEvent is the fire-and-forget record handed to the audit sink
// after an authoritative mutation commits. It never round-trips back
// into the engine.
type AuditEvent struct {
	Kind    Kind
	Addr    book.Addr
	OID     uint64
	IsBuy   bool
	LimitPx uint64
	Sz      uint64
	A       uint64
	B       uint64
}
