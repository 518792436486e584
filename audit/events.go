// Package audit implements a best-effort, fire-and-forget mirror of
// engine mutations onto RabbitMQ, Pebble, and Postgres. It is strictly
// non-authoritative: the engine never reads from it and a publish
// failure never affects an RPC response.
package audit

import (
	"encoding/hex"
	"time"

	"github.com/anomi-labs/clob/core/book"
	"github.com/anomi-labs/clob/core/engine"
	"github.com/google/uuid"
)

// Record is the durable shape an AuditEvent is stamped into before it is
// handed to any sink. The ID and At fields exist only for the audit
// trail; they are never consulted by the engine.
type Record struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Addr    string    `json:"addr"`
	OID     uint64    `json:"oid,omitempty"`
	IsBuy   bool      `json:"isBuy,omitempty"`
	LimitPx uint64    `json:"limitPx,omitempty"`
	Sz      uint64    `json:"sz,omitempty"`
	A       uint64    `json:"a,omitempty"`
	B       uint64    `json:"b,omitempty"`
	At      time.Time `json:"at"`
}

func newRecord(ev engine.AuditEvent) Record {
	return Record{
		ID:      uuid.New().String(),
		Kind:    string(ev.Kind),
		Addr:    addrString(ev.Addr),
		OID:     ev.OID,
		IsBuy:   ev.IsBuy,
		LimitPx: ev.LimitPx,
		Sz:      ev.Sz,
		A:       ev.A,
		B:       ev.B,
		At:      time.Now().UTC(),
	}
}

func addrString(a book.Addr) string {
	return hex.EncodeToString(a[:])
}
