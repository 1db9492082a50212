package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// JSONFileBackend stores every collection as <dir>/<collection>.json. Saves go
// through a temp file and a rename, so readers always see a complete file.
type JSONFileBackend struct {
	dir string
}

func NewJSONFileBackend(dir string) (*JSONFileBackend, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONFileBackend{dir: dir}, nil
}

func (b *JSONFileBackend) path(collection string) (string, error) {
	if collection == "" || strings.ContainsAny(collection, `/\`) || strings.Contains(collection, "..") {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	return filepath.Join(b.dir, collection+".json"), nil
}

func (b *JSONFileBackend) Load(_ context.Context, collection string) ([]Record, error) {
	path, err := b.path(collection)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

func (b *JSONFileBackend) Save(_ context.Context, collection string, records []Record) (err error) {
	path, err := b.path(collection)
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, collection+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (b *JSONFileBackend) Close() error { return nil }
