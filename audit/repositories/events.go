// Package repositories provides the bun-backed audit event repository.
package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// EventModel is the Postgres row shape for a mirrored audit event.
type EventModel struct {
	bun.BaseModel `bun:"table:audit_events"`

	ID      string    `bun:"id,pk"`
	Kind    string    `bun:"kind,notnull"`
	Addr    string    `bun:"addr,notnull"`
	OID     uint64    `bun:"oid"`
	IsBuy   bool      `bun:"is_buy"`
	LimitPx uint64    `bun:"limit_px"`
	Sz      uint64    `bun:"sz"`
	A       uint64    `bun:"a"`
	B       uint64    `bun:"b"`
	At      time.Time `bun:"at,notnull"`
}

// EventRepository is the narrowed CRUD surface this domain exercises.
type EventRepository interface {
	Create(ctx context.Context, ev EventModel) error
	GetByID(ctx context.Context, id string) (EventModel, error)
	List(ctx context.Context, limit, offset int) ([]EventModel, error)
}

type eventRepository struct {
	db *bun.DB
}

func NewEventRepository(db *bun.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, ev EventModel) error {
	_, err := r.db.NewInsert().Model(&ev).Exec(ctx)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (EventModel, error) {
	var ev EventModel
	err := r.db.NewSelect().Model(&ev).Where("id = ?", id).Scan(ctx)
	return ev, err
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]EventModel, error) {
	var evs []EventModel
	q := r.db.NewSelect().Model(&evs)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Order("at DESC").Scan(ctx)
	return evs, err
}
