package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func TestGenerator_CounterStartsAtOne(t *testing.T) {
	g := New(StrategyCounter)
	assert.Equal(t, "DR-20260301-000001", g.Next("defect_reports", nil, day))
}

func TestGenerator_CounterIsMonotonicAcrossDays(t *testing.T) {
	g := New(StrategyCounter)
	existing := []string{"RES-20260227-000007", "RES-20260301-000003", "legacy-id", "DR-20260301-000099"}

	next := g.Next("reservations", existing, day.Add(48*time.Hour))
	assert.Equal(t, "RES-20260303-000008", next)
}

func TestGenerator_CounterNeverRepeats(t *testing.T) {
	g := New(StrategyCounter)
	var ids []string
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := g.Next("notifications", ids, day)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		ids = append(ids, id)
	}
}

func TestGenerator_UUIDStrategy(t *testing.T) {
	g := New(StrategyUUID)
	a := g.Next("equipment", nil, day)
	b := g.Next("equipment", nil, day)

	assert.True(t, strings.HasPrefix(a, "EQ-20260301-"))
	assert.NotEqual(t, a, b)
}

func TestGenerator_UnknownCollectionAndOverride(t *testing.T) {
	g := New("")
	assert.Equal(t, "WIDGETS-20260301-000001", g.Next("widgets", nil, day))

	g.SetPrefix("widgets", "W")
	assert.Equal(t, "W-20260301-000001", g.Next("widgets", nil, day))
}
