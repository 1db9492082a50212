package repositories

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"equipment-portal/internal/store"
	apperrors "equipment-portal/pkg/errors"
)

// toRecord flattens an entity into the document form kept by the store.
// Codec failures are store errors, never domain ones.
func toRecord(collection string, v interface{}) (store.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.NewStoreError("encode", collection, err)
	}
	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.NewStoreError("encode", collection, err)
	}
	return rec, nil
}

func fromRecord[T any](collection string, rec store.Record) (*T, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, apperrors.NewStoreError("decode", collection, err)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, apperrors.NewStoreError("decode", collection, fmt.Errorf("record %s: %w", rec.ID(), err))
	}
	return out, nil
}

func fromRecords[T any](collection string, recs []store.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := fromRecord[T](collection, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// splitList parses a comma separated filter value.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(value string, raw string) bool {
	for _, want := range splitList(raw) {
		if want == value {
			return true
		}
	}
	return false
}

func matchesUserID(value *uint64, raw string) bool {
	if value == nil {
		return false
	}
	return matchesAny(strconv.FormatUint(*value, 10), raw)
}
