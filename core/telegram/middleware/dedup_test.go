package middleware

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/logger"
	"github.com/m3rciful/supportbot/core/store"
)

func TestMain(m *testing.M) {
	logger.InitForTest(io.Discard)
	os.Exit(m.Run())
}

func TestDedupDropsRedelivery(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	gate := store.NewDedup(store.NewMemory(), store.NewKeys(-100))
	calls := 0
	handler := Dedup(gate)(func(c tele.Context) error {
		calls++
		return nil
	})

	update := tele.Update{ID: 42, Message: &tele.Message{Text: "hi"}}
	require.NoError(t, handler(b.NewContext(update)))
	require.NoError(t, handler(b.NewContext(update)))
	require.Equal(t, 1, calls, "the second delivery of the same update must be dropped")

	require.NoError(t, handler(b.NewContext(tele.Update{ID: 43})))
	require.Equal(t, 2, calls)
}

func TestDedupPassesUpdatesWithoutID(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	gate := store.NewDedup(store.NewMemory(), store.NewKeys(-100))
	calls := 0
	handler := Dedup(gate)(func(c tele.Context) error {
		calls++
		return nil
	})

	require.NoError(t, handler(b.NewContext(tele.Update{})))
	require.NoError(t, handler(b.NewContext(tele.Update{})))
	require.Equal(t, 2, calls)
}
