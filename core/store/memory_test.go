package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var got payload
	ok, err := m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, 0))

	ok, err = m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload{Name: "a", Count: 2}, got)

	require.NoError(t, m.Delete(ctx, "k"))
	ok, err = m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.SetClock(func() time.Time { return now })

	require.NoError(t, m.SetJSON(ctx, "k", payload{Name: "a"}, time.Minute))

	var got payload
	ok, err := m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, err = m.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, ok, "expired record must read as absent")
}

func TestMemorySetIfAbsent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.SetClock(func() time.Time { return now })

	first, err := m.SetIfAbsent(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, first)

	second, err := m.SetIfAbsent(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, second)

	// A dead record no longer blocks creation.
	now = now.Add(2 * time.Minute)
	third, err := m.SetIfAbsent(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, third)
}

func TestKeysNamespace(t *testing.T) {
	k := NewKeys(-100200)

	require.Equal(t, "sb:v2:dedup:42", k.Dedup(42))
	require.Equal(t, "sb:v2:lang:7", k.Lang(7))
	require.Equal(t, "sb:v2:flow:7", k.Flow(7))
	require.Equal(t, "sb:v2:pending:7", k.Pending(7))
	require.Equal(t, "sb:v2:ticket:7", k.Ticket(7))
	require.Equal(t, "sb:v2:thread:-100200:99", k.Thread(99))
}
