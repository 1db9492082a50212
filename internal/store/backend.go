package store

import (
	"bytes"
	"context"
	"encoding/json"
)

// Backend persists whole collections. Load must return an empty slice for a
// collection that has never been written. Save replaces the collection.
type Backend interface {
	Load(ctx context.Context, collection string) ([]Record, error)
	Save(ctx context.Context, collection string, records []Record) error
	Close() error
}

func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

func decodeRecords(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
