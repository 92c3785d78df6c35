package httpcache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/z3c0/vistos-legacy/internal/components/assert"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("vistos/httpcache")

type diskEntry struct {
	Body      []byte
	ExpiresAt int64
}

// Disk persists entries in a badger database so they survive between runs.
type Disk struct {
	db   *badger.DB
	ttl  time.Duration
	time chrono.TimeAPI
}

// OpenDisk opens (or creates) a cache in dir. An empty dir keeps the database in memory.
func OpenDisk(dir string, ttl time.Duration, clock chrono.TimeAPI) (Disk, error) {
	assert.NotNil(clock)

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return Disk{}, err
	}
	return Disk{db: db, ttl: ttl, time: clock}, nil
}

func (d Disk) Close() error {
	return d.db.Close()
}

func (d Disk) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_, span := tracer.Start(ctx, "get")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key))

	var serialized []byte
	err := d.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		serialized, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return nil, false, err
	}

	var cached diskEntry
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return nil, false, err
	}

	if cached.ExpiresAt != 0 && d.time.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key")
		err = d.db.Update(func(tx *badger.Txn) error {
			return tx.Delete([]byte(key))
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return nil, false, err
	}

	span.SetAttributes(attribute.Int("content_length", len(cached.Body)))
	return cached.Body, true, nil
}

func (d Disk) Set(ctx context.Context, key string, body []byte) error {
	_, span := tracer.Start(ctx, "set")
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key))

	entry := diskEntry{Body: body}
	if d.ttl > 0 {
		entry.ExpiresAt = d.time.Now().Add(d.ttl).Unix()
	}

	serialized := bytes.NewBuffer(nil)
	err := gob.NewEncoder(serialized).Encode(entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize entry")
		return err
	}

	err = d.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), serialized.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
	}
	return err
}
