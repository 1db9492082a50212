// Package store is the record store: named collections of JSON documents with
// list/get/insert/update by identifier.
//
// Every write is a whole-collection read-modify-write cycle executed while the
// collection's lock is held. Guards passed to Mutate and InsertIf run inside
// that region, so a precondition they check cannot be invalidated by a
// concurrent writer before the write lands.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/idgen"
	"equipment-portal/pkg/metrics"
)

// Record is one stored document. Field names are the JSON field names.
type Record map[string]interface{}

const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// ID returns the record identifier or "" if it has none.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type Option func(*Store)

func WithLocker(l Locker) Option {
	return func(s *Store) { s.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(g *idgen.Generator) Option {
	return func(s *Store) { s.ids = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithCloser registers fn to run after the backend is closed.
func WithCloser(fn func() error) Option {
	return func(s *Store) { s.closers = append(s.closers, fn) }
}

type Store struct {
	backend Backend
	locker  Locker
	ids     *idgen.Generator
	now     func() time.Time
	logger  *zap.Logger
	closers []func() error
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		locker:  NewLocalLocker(),
		ids:     idgen.New(idgen.StrategyCounter),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the store clock. Services use it so audit timestamps and store
// stamps agree.
func (s *Store) Now() time.Time {
	return s.now().UTC()
}

func (s *Store) Close() error {
	err := s.backend.Close()
	for _, fn := range s.closers {
		if cerr := fn(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// List returns the full collection in insertion order.
func (s *Store) List(ctx context.Context, collection string) ([]Record, error) {
	records, err := s.backend.Load(ctx, collection)
	if err != nil {
		return nil, apperrors.NewStoreError("load", collection, err)
	}
	return records, nil
}

// Get scans the collection for id.
func (s *Store) Get(ctx context.Context, collection, id string) (Record, error) {
	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	if idx := indexOf(records, id); idx >= 0 {
		return records[idx], nil
	}
	return nil, apperrors.NewNotFoundError("%s %q not found", collection, id)
}

// Filter returns the records for which keep is true.
func (s *Store) Filter(ctx context.Context, collection string, keep func(Record) bool) ([]Record, error) {
	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Insert appends rec, assigning an identifier when rec has none, and returns
// the identifier.
func (s *Store) Insert(ctx context.Context, collection string, rec Record) (string, error) {
	return s.InsertIf(ctx, collection, rec, nil)
}

// InsertIf is Insert with a guard evaluated against the current collection
// inside the write lock. A guard error aborts the insert and is returned as is.
func (s *Store) InsertIf(ctx context.Context, collection string, rec Record, guard func(existing []Record) error) (string, error) {
	doc, err := normalize(rec)
	if err != nil {
		return "", apperrors.NewStoreError("encode", collection, err)
	}

	var id string
	err = s.write(ctx, collection, "insert", func(records []Record) ([]Record, error) {
		if guard != nil {
			if err := guard(records); err != nil {
				return nil, err
			}
		}
		id = doc.ID()
		if id == "" {
			existing := make([]string, 0, len(records))
			for _, r := range records {
				existing = append(existing, r.ID())
			}
			id = s.ids.Next(collection, existing, s.Now())
		} else if indexOf(records, id) >= 0 {
			return nil, apperrors.NewConflictError("%s %q already exists", collection, id)
		}
		doc[FieldID] = id
		doc[FieldCreatedAt] = s.Now()
		return append(records, doc), nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update merges partial into the record with the given id (shallow field
// overwrite) and stamps updated_at.
func (s *Store) Update(ctx context.Context, collection, id string, partial Record) error {
	_, err := s.Mutate(ctx, collection, id, func(Record) (Record, error) {
		return partial, nil
	})
	return err
}

// Mutate loads the record with the given id inside the write lock, hands a
// copy to fn and merges the partial record fn returns. If fn fails nothing is
// written. The merged record is returned.
func (s *Store) Mutate(ctx context.Context, collection, id string, fn func(current Record) (Record, error)) (Record, error) {
	return s.MutateWith(ctx, collection, id, func(current Record, _ []Record) (Record, error) {
		return fn(current)
	})
}

// MutateWith is Mutate for guards that also need the rest of the collection,
// such as a date-range check against sibling records. others excludes the
// record being mutated.
func (s *Store) MutateWith(ctx context.Context, collection, id string, fn func(current Record, others []Record) (Record, error)) (Record, error) {
	var merged Record
	err := s.write(ctx, collection, "update", func(records []Record) ([]Record, error) {
		idx := indexOf(records, id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError("%s %q not found", collection, id)
		}
		others := make([]Record, 0, len(records)-1)
		others = append(others, records[:idx]...)
		others = append(others, records[idx+1:]...)

		partial, err := fn(records[idx].clone(), others)
		if err != nil {
			return nil, err
		}
		merged, err = s.merge(collection, records[idx], partial)
		if err != nil {
			return nil, err
		}
		records[idx] = merged
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// UpdateWhere merges partial into every record matching match in a single
// write and returns how many records changed.
func (s *Store) UpdateWhere(ctx context.Context, collection string, match func(Record) bool, partial Record) (int, error) {
	var n int
	err := s.write(ctx, collection, "update_many", func(records []Record) ([]Record, error) {
		n = 0
		for i, r := range records {
			if !match(r) {
				continue
			}
			merged, err := s.merge(collection, r, partial)
			if err != nil {
				return nil, err
			}
			records[i] = merged
			n++
		}
		return records, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) merge(collection string, current, partial Record) (Record, error) {
	patch, err := normalize(partial)
	if err != nil {
		return nil, apperrors.NewStoreError("encode", collection, err)
	}
	merged := current.clone()
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		merged[k] = v
	}
	merged[FieldUpdatedAt] = s.Now()
	return merged, nil
}

func (s *Store) write(ctx context.Context, collection, op string, fn func([]Record) ([]Record, error)) (err error) {
	unlock, err := s.locker.Lock(ctx, collection)
	if err != nil {
		return apperrors.NewStoreError("lock", collection, err)
	}
	defer unlock()

	started := time.Now()
	defer func() { metrics.ObserveStoreWrite(collection, op, started, err) }()

	records, err := s.backend.Load(ctx, collection)
	if err != nil {
		return apperrors.NewStoreError("load", collection, err)
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	if err = s.backend.Save(ctx, collection, next); err != nil {
		s.logger.Error("record store write failed",
			zap.String("collection", collection),
			zap.String("op", op),
			zap.Error(err),
		)
		return apperrors.NewStoreError("save", collection, err)
	}
	return nil
}

func indexOf(records []Record, id string) int {
	for i, r := range records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

// normalize converts rec into its canonical JSON document form so in-memory
// values look exactly like values read back from a backend.
func normalize(rec Record) (Record, error) {
	if rec == nil {
		return Record{}, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out Record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
