package event

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b
}

func TestUserDisplay(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full", User{ID: 1, FirstName: "Ivan", LastName: "Petrov", Username: "ivan"}, "Ivan Petrov (@ivan)"},
		{"first only", User{ID: 1, FirstName: "Ivan"}, "Ivan"},
		{"username only", User{ID: 99, Username: "ghost"}, "id:99 (@ghost)"},
		{"nothing", User{ID: 99}, "id:99"},
		{"whitespace names", User{ID: 5, FirstName: "  ", LastName: " "}, "id:5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.Display())
		})
	}
}

func TestIsStartCommand(t *testing.T) {
	require.True(t, IsStartCommand("/start"))
	require.True(t, IsStartCommand("/START"))
	require.True(t, IsStartCommand("/start@SupportBot"))
	require.True(t, IsStartCommand("/start deep-link-arg"))
	require.False(t, IsStartCommand("/started"))
	require.False(t, IsStartCommand("say /start"))
	require.False(t, IsStartCommand(""))
}

func TestActionUniqueRoundTrip(t *testing.T) {
	actions := []Action{
		ActionSetLang, ActionHome, ActionFAQ, ActionContacts, ActionStatus,
		ActionLangMenu, ActionOpenTicket, ActionCategory, ActionCloseTicket,
		ActionAdminClose,
	}
	for _, a := range actions {
		u := a.Unique()
		require.NotEmpty(t, u)
		require.Equal(t, a, actionByUnique[u])
	}
	require.Empty(t, ActionUnknown.Unique())
}

func TestCallbackFrom(t *testing.T) {
	b := offlineBot(t)
	c := b.NewContext(tele.Update{
		Callback: &tele.Callback{
			Sender:  &tele.User{ID: 7, FirstName: "Ann"},
			Data:    "\faclose|42",
			Message: &tele.Message{ThreadID: 314},
		},
	})

	ev := CallbackFrom(c)
	require.Equal(t, ActionAdminClose, ev.Action)
	require.Equal(t, "42", ev.Payload)
	require.Equal(t, int64(7), ev.Actor.ID)
	require.Equal(t, 314, ev.ThreadID)
}

func TestCallbackFromForeignData(t *testing.T) {
	b := offlineBot(t)
	c := b.NewContext(tele.Update{
		Callback: &tele.Callback{
			Sender: &tele.User{ID: 7},
			Data:   "\fsome_other_bot|x",
		},
	})

	require.Equal(t, ActionUnknown, CallbackFrom(c).Action)
}

func TestMessageFrom(t *testing.T) {
	b := offlineBot(t)
	c := b.NewContext(tele.Update{
		Message: &tele.Message{
			ID:       1001,
			ThreadID: 22,
			Text:     "help me",
			Sender:   &tele.User{ID: 7, Username: "ann"},
			Chat:     &tele.Chat{ID: 7, Type: tele.ChatPrivate},
		},
	})

	ev := MessageFrom(c)
	require.Equal(t, int64(7), ev.Sender.ID)
	require.Equal(t, int64(7), ev.ChatID)
	require.Equal(t, 1001, ev.MessageID)
	require.Equal(t, 22, ev.ThreadID)
	require.Equal(t, "help me", ev.Text)
	require.True(t, ev.Private)
	require.False(t, ev.FromBot)
}
