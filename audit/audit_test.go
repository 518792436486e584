package audit

import (
	"testing"

	"github.com/anomi-labs/clob/core/book"
	"github.com/anomi-labs/clob/core/engine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRecordStampsIdentityAndTime(t *testing.T) {
	ev := engine.AuditEvent{
		Kind:    engine.KindOrder,
		Addr:    book.Addr{0xab},
		OID:     7,
		IsBuy:   true,
		LimitPx: 10,
		Sz:      3,
	}

	rec := newRecord(ev)
	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.At.IsZero())
	assert.Equal(t, "order", rec.Kind)
	assert.Equal(t, uint64(7), rec.OID)
	assert.Equal(t, "ab00000000000000000000000000000000000000", rec.Addr)
}

func TestKvDBRoundTrip(t *testing.T) {
	kv, err := NewKvDB(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer kv.Close()

	rec := newRecord(engine.AuditEvent{Kind: engine.KindDeposit, A: 5, B: 9})
	require.NoError(t, kv.PutRecord(rec))

	got, err := kv.GetRecord(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, uint64(5), got.A)
	assert.Equal(t, uint64(9), got.B)
}

func TestKvDBRejectsInvalidID(t *testing.T) {
	kv, err := NewKvDB(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer kv.Close()

	rec := newRecord(engine.AuditEvent{Kind: engine.KindCancel})
	rec.ID = ""
	assert.ErrorIs(t, kv.PutRecord(rec), ErrInvalidID)

	_, err = kv.GetRecord("")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestKvDBZeroValueIsClosed(t *testing.T) {
	var kv KvDB
	assert.ErrorIs(t, kv.PutRecord(Record{ID: "x"}), ErrDatabaseClosed)
	_, err := kv.GetRecord("x")
	assert.ErrorIs(t, err, ErrDatabaseClosed)
}

func TestSinkDrainsOnClose(t *testing.T) {
	kv, err := NewKvDB(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer kv.Close()

	s := NewSink(zap.NewNop(), WithKvDB(kv))
	s.Publish(engine.AuditEvent{Kind: engine.KindOrder, OID: 1})
	s.Publish(engine.AuditEvent{Kind: engine.KindCancel, OID: 1})
	s.Publish("not an audit event") // ignored
	s.Close()
}
