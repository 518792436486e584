package audit

import (
	"context"
	"database/sql"

	"github.com/anomi-labs/clob/audit/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// PgSink mirrors audit Records into Postgres via bun, creating the
// events table and its index on first connect.
type PgSink struct {
	db     *bun.DB
	repo   repositories.EventRepository
	logger *zap.Logger
}

func NewPgSink(dsn string, logger *zap.Logger) (*PgSink, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	sink := &PgSink{
		db:     db,
		repo:   repositories.NewEventRepository(db),
		logger: logger,
	}
	if err := sink.migrate(context.Background()); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *PgSink) migrate(ctx context.Context) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().Model((*repositories.EventModel)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewCreateIndex().Model((*repositories.EventModel)(nil)).
			Index("idx_audit_events_addr").Column("addr").IfNotExists().Exec(ctx)
		return err
	})
}

func (s *PgSink) store(ctx context.Context, r Record) error {
	return s.repo.Create(ctx, repositories.EventModel{
		ID: r.ID, Kind: r.Kind, Addr: r.Addr, OID: r.OID,
		IsBuy: r.IsBuy, LimitPx: r.LimitPx, Sz: r.Sz, A: r.A, B: r.B, At: r.At,
	})
}

func (s *PgSink) Close() error {
	return s.db.Close()
}
