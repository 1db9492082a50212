package store

import (
	"context"
	"errors"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerBackend stores each collection under the key "collection:<name>".
type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(filepath.Clean(path))
	opts.Logger = nil
	opts = opts.WithValueLogFileSize(1 << 20)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{db: db}, nil
}

func collectionKey(name string) []byte {
	return []byte("collection:" + name)
}

func (b *BadgerBackend) Load(_ context.Context, collection string) ([]Record, error) {
	var records []Record
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(collectionKey(collection))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				records = []Record{}
				return nil
			}
			return err
		}
		return item.Value(func(v []byte) error {
			var decodeErr error
			records, decodeErr = decodeRecords(v)
			return decodeErr
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *BadgerBackend) Save(_ context.Context, collection string, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(collectionKey(collection), data)
	})
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
