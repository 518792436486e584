package audit

import (
	"encoding/json"
	"errors"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

var (
	ErrInvalidID      = errors.New("audit: invalid id")
	ErrDatabaseClosed = errors.New("audit: database is closed")
)

const MaxIDLength = 255

// KvDB mirrors committed audit Records into an embedded Pebble store,
// keyed by record ID. It is a write-mostly side table: nothing in the
// engine or API layer ever reads back through it.
type KvDB struct {
	db     *pebble.DB
	logger *zap.Logger
}

func NewKvDB(path string, logger *zap.Logger) (*KvDB, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("failed to open audit kvdb", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	logger.Info("audit kvdb initialized", zap.String("path", path))
	return &KvDB{db: db, logger: logger}, nil
}

func (kv *KvDB) Close() error {
	if kv.db == nil {
		return ErrDatabaseClosed
	}
	return kv.db.Close()
}

func (kv *KvDB) PutRecord(r Record) error {
	if kv.db == nil {
		return ErrDatabaseClosed
	}
	if r.ID == "" || len(r.ID) > MaxIDLength {
		return ErrInvalidID
	}

	data, err := json.Marshal(r)
	if err != nil {
		kv.logger.Error("failed to marshal audit record", zap.String("id", r.ID), zap.Error(err))
		return err
	}

	key := []byte("event:" + r.ID)
	if err := kv.db.Set(key, data, pebble.Sync); err != nil {
		kv.logger.Error("failed to store audit record", zap.String("id", r.ID), zap.Error(err))
		return err
	}
	kv.logger.Debug("audit record stored", zap.String("id", r.ID), zap.String("kind", r.Kind))
	return nil
}

func (kv *KvDB) GetRecord(id string) (Record, error) {
	var rec Record
	if kv.db == nil {
		return rec, ErrDatabaseClosed
	}
	if id == "" || len(id) > MaxIDLength {
		return rec, ErrInvalidID
	}

	data, closer, err := kv.db.Get([]byte("event:" + id))
	if err != nil {
		return rec, err
	}
	defer closer.Close()

	if err := json.Unmarshal(data, &rec); err != nil {
		kv.logger.Error("failed to unmarshal audit record", zap.String("id", id), zap.Error(err))
		return rec, err
	}
	return rec, nil
}
