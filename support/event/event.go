// Package event turns raw Telegram updates into the tagged variants consumed
// by the conversation engine. All wire-format knowledge (callback uniques,
// the /start pattern) lives here; the engine only sees decoded events.
package event

import (
	"fmt"
	"regexp"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/telegram/callbacks"
)

// Action identifies a pressed inline button.
type Action int

const (
	// ActionUnknown marks callback data this bot did not produce.
	ActionUnknown Action = iota
	// ActionSetLang selects a language; payload is the language code.
	ActionSetLang
	// ActionHome renders the main menu.
	ActionHome
	// ActionFAQ renders the FAQ screen.
	ActionFAQ
	// ActionContacts renders the contacts screen.
	ActionContacts
	// ActionStatus renders the ticket status screen.
	ActionStatus
	// ActionLangMenu re-opens the language picker from the menu.
	ActionLangMenu
	// ActionOpenTicket starts ticket creation.
	ActionOpenTicket
	// ActionCategory picks a ticket category; payload is the category name.
	ActionCategory
	// ActionCloseTicket closes the user's own ticket.
	ActionCloseTicket
	// ActionAdminClose closes a ticket from inside its staff thread; payload
	// is the target user id.
	ActionAdminClose
)

// Wire values of the callback uniques. Changing one invalidates buttons on
// already-sent keyboards.
const (
	uniqSetLang     = "lang"
	uniqHome        = "home"
	uniqFAQ         = "faq"
	uniqContacts    = "contacts"
	uniqStatus      = "status"
	uniqLangMenu    = "langmenu"
	uniqOpenTicket  = "open"
	uniqCategory    = "cat"
	uniqCloseTicket = "close"
	uniqAdminClose  = "aclose"
)

var actionByUnique = map[string]Action{
	uniqSetLang:     ActionSetLang,
	uniqHome:        ActionHome,
	uniqFAQ:         ActionFAQ,
	uniqContacts:    ActionContacts,
	uniqStatus:      ActionStatus,
	uniqLangMenu:    ActionLangMenu,
	uniqOpenTicket:  ActionOpenTicket,
	uniqCategory:    ActionCategory,
	uniqCloseTicket: ActionCloseTicket,
	uniqAdminClose:  ActionAdminClose,
}

var uniqueByAction = func() map[Action]string {
	m := make(map[Action]string, len(actionByUnique))
	for u, a := range actionByUnique {
		m[a] = u
	}
	return m
}()

// Unique returns the wire value for building keyboards.
func (a Action) Unique() string {
	return uniqueByAction[a]
}

// User carries the sender fields the engine needs.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Display renders the name shown in thread titles and announcements:
// "First Last (@username)", falling back to "id:<uid>".
func (u User) Display() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = fmt.Sprintf("id:%d", u.ID)
	}
	if u.Username != "" {
		return fmt.Sprintf("%s (@%s)", name, u.Username)
	}
	return name
}

// Callback is one decoded button press.
type Callback struct {
	Actor   User
	Action  Action
	Payload string
	// ThreadID is the topic of the message that carried the button; non-zero
	// only for buttons inside the staff channel.
	ThreadID int
}

// Message is one decoded incoming message.
type Message struct {
	Sender    User
	ChatID    int64
	MessageID int
	ThreadID  int
	Text      string
	FromBot   bool
	Private   bool
}

func userFrom(u *tele.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}

// CallbackFrom decodes the callback carried by c.
func CallbackFrom(c tele.Context) Callback {
	unique, payload := callbacks.Parse(c.Callback())
	ev := Callback{
		Actor:   userFrom(c.Sender()),
		Action:  actionByUnique[unique],
		Payload: payload,
	}
	if cb := c.Callback(); cb != nil && cb.Message != nil {
		ev.ThreadID = cb.Message.ThreadID
	}
	return ev
}

// MessageFrom decodes the message carried by c.
func MessageFrom(c tele.Context) Message {
	ev := Message{
		Sender: userFrom(c.Sender()),
		Text:   c.Text(),
	}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
		ev.Private = chat.Type == tele.ChatPrivate
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
		ev.ThreadID = msg.ThreadID
	}
	if sender := c.Sender(); sender != nil {
		ev.FromBot = sender.IsBot
	}
	return ev
}

// startRe matches /start and /start@BotName, case-insensitively, as the
// original bot did with bot.hears.
var startRe = regexp.MustCompile(`(?i)^/start(?:@\w+)?(?:\s|$)`)

// IsStartCommand reports whether text is a /start invocation.
func IsStartCommand(text string) bool {
	return startRe.MatchString(text)
}
