// Package idgen produces human readable record identifiers of the form
// PREFIX-YYYYMMDD-SUFFIX.
//
// With the counter strategy the suffix is a per-collection monotonic sequence
// derived from the identifiers already present in the collection. The caller
// must hold the collection's write lock while calling Next, which is what
// makes the sequence collision-free.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Strategy string

const (
	StrategyCounter Strategy = "counter"
	StrategyUUID    Strategy = "uuid"
)

const counterWidth = 6

var defaultPrefixes = map[string]string{
	"equipment":      "EQ",
	"categories":     "CAT",
	"defect_reports": "DR",
	"reservations":   "RES",
	"notifications":  "NTF",
}

type Generator struct {
	strategy Strategy
	prefixes map[string]string
}

func New(strategy Strategy) *Generator {
	if strategy == "" {
		strategy = StrategyCounter
	}
	prefixes := make(map[string]string, len(defaultPrefixes))
	for k, v := range defaultPrefixes {
		prefixes[k] = v
	}
	return &Generator{strategy: strategy, prefixes: prefixes}
}

// SetPrefix overrides the prefix used for a collection.
func (g *Generator) SetPrefix(collection, prefix string) {
	g.prefixes[collection] = prefix
}

func (g *Generator) Prefix(collection string) string {
	if p, ok := g.prefixes[collection]; ok {
		return p
	}
	return strings.ToUpper(collection)
}

// Next returns a fresh identifier for collection. existing holds every
// identifier currently stored in the collection.
func (g *Generator) Next(collection string, existing []string, now time.Time) string {
	prefix := g.Prefix(collection)
	date := now.UTC().Format("20060102")

	if g.strategy == StrategyUUID {
		return fmt.Sprintf("%s-%s-%s", prefix, date, uuid.NewString())
	}

	var max uint64
	for _, id := range existing {
		if n, ok := parseCounter(prefix, id); ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%s-%0*d", prefix, date, counterWidth, max+1)
}

// parseCounter extracts the numeric suffix of an identifier generated with
// prefix. Identifiers from other schemes are ignored.
func parseCounter(prefix, id string) (uint64, bool) {
	if !strings.HasPrefix(id, prefix+"-") {
		return 0, false
	}
	parts := strings.Split(id[len(prefix)+1:], "-")
	if len(parts) != 2 || len(parts[0]) != 8 {
		return 0, false
	}
	n, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
