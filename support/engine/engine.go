// Package engine implements the per-user conversational state machine and
// the ticket lifecycle. It consumes decoded events and talks to the world
// only through the state store and the gateway, which keeps every transition
// testable without Telegram.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/supportbot/core/config"
	"github.com/m3rciful/supportbot/core/logger"
	"github.com/m3rciful/supportbot/core/store"
	"github.com/m3rciful/supportbot/support/event"
	"github.com/m3rciful/supportbot/support/gateway"
	"github.com/m3rciful/supportbot/support/i18n"
	"github.com/m3rciful/supportbot/support/ui"
)

// titleLimit bounds thread titles before the remote channel-creation call.
const titleLimit = 120

// Replier delivers responses to the user who triggered the current event.
// EditOrSend edits the message carrying the pressed button when possible and
// falls back to sending a new message.
type Replier interface {
	Send(text string, markup *tele.ReplyMarkup) error
	EditOrSend(text string, markup *tele.ReplyMarkup) error
}

// Engine drives the conversation state machine.
type Engine struct {
	store   store.Store
	keys    store.Keys
	gw      gateway.Gateway
	support coreconfig.SupportConfig
	now     func() time.Time
}

// New wires the engine to its store and gateway.
func New(s store.Store, keys store.Keys, gw gateway.Gateway, support coreconfig.SupportConfig) *Engine {
	return &Engine{
		store:   s,
		keys:    keys,
		gw:      gw,
		support: support,
		now:     time.Now,
	}
}

// SetClock overrides the time source used for ticket timestamps. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// HandleStart processes /start in a private chat: any half-finished flow is
// abandoned and the user re-enters through the language picker.
func (e *Engine) HandleStart(ctx context.Context, ev event.Message, r Replier) error {
	if !ev.Private {
		return nil
	}
	uid := ev.Sender.ID
	if err := e.store.Delete(ctx, e.keys.Flow(uid)); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.keys.Pending(uid)); err != nil {
		return err
	}
	return e.showLangPicker(ctx, uid, Pending{Screen: ScreenMenu}, r, false)
}

// HandleCallback dispatches one decoded button press.
func (e *Engine) HandleCallback(ctx context.Context, ev event.Callback, r Replier) error {
	uid := ev.Actor.ID

	if ev.Action == event.ActionSetLang {
		return e.selectLanguage(ctx, ev, r)
	}
	if ev.Action == event.ActionAdminClose {
		return e.adminClose(ctx, ev)
	}

	lang, err := e.language(ctx, uid)
	if err != nil {
		return err
	}
	if lang == "" {
		// Redirect into the language picker, preserving the intended
		// destination so the user lands where they were going.
		pending := Pending{Screen: ScreenMenu}
		if ev.Action == event.ActionCategory {
			pending = Pending{Screen: ScreenAskOne, Category: normalizeCategory(ev.Payload)}
		}
		return e.showLangPicker(ctx, uid, pending, r, true)
	}

	t := i18n.T(lang)
	switch ev.Action {
	case event.ActionHome:
		return r.EditOrSend(t.MenuHeader, ui.Menu(lang))

	case event.ActionLangMenu:
		return r.EditOrSend(t.ChooseLangTitle+"\n"+t.ChooseLangHint, ui.LangPicker())

	case event.ActionFAQ:
		return r.EditOrSend(t.FAQText, ui.Back(lang))

	case event.ActionContacts:
		return r.EditOrSend(t.ContactsText, ui.Back(lang))

	case event.ActionStatus:
		ticket, err := e.openTicket(ctx, uid)
		if err != nil {
			return err
		}
		text := t.StatusNone
		if ticket != nil {
			text = t.StatusOpen(ticket.Category)
		}
		return r.EditOrSend(text, ui.Back(lang))

	case event.ActionOpenTicket:
		ticket, err := e.openTicket(ctx, uid)
		if err != nil {
			return err
		}
		if ticket != nil {
			// Double-click on "create": just re-show the ticket controls.
			return r.Send(t.AlreadyOpen, ui.Ticket(lang))
		}
		return r.EditOrSend(t.PickCategory, ui.Categories(lang))

	case event.ActionCategory:
		ticket, err := e.openTicket(ctx, uid)
		if err != nil {
			return err
		}
		if ticket != nil {
			return r.Send(t.AlreadyOpen, ui.Ticket(lang))
		}
		category := normalizeCategory(ev.Payload)
		if err := e.store.SetJSON(ctx, e.keys.Flow(uid), awaitFlow(category), store.TTLFlow); err != nil {
			return err
		}
		logger.Debug(ctx, "engine", "flow.await",
			slog.Int64("user_id", uid),
			slog.String("category", category),
		)
		return r.EditOrSend(t.AskOne, ui.Cancel(lang))

	case event.ActionCloseTicket:
		return e.userClose(ctx, uid, lang, r)

	case event.ActionSetLang, event.ActionAdminClose:
		// Handled above; unreachable.
		return nil

	case event.ActionUnknown:
		return nil
	}
	return nil
}

// HandleUserMessage processes a freeform private message.
func (e *Engine) HandleUserMessage(ctx context.Context, ev event.Message, r Replier) error {
	if !ev.Private {
		return nil
	}
	if event.IsStartCommand(ev.Text) {
		return e.HandleStart(ctx, ev, r)
	}
	uid := ev.Sender.ID

	lang, err := e.language(ctx, uid)
	if err != nil {
		return err
	}
	if lang == "" {
		// A mid-flow user without a language re-enters through the picker
		// and resumes exactly where they were.
		var flow Flow
		if _, err := e.store.GetJSON(ctx, e.keys.Flow(uid), &flow); err != nil {
			return err
		}
		pending := Pending{Screen: ScreenMenu}
		if flow.Awaiting() {
			pending = Pending{Screen: ScreenAskOne, Category: normalizeCategory(flow.Category)}
		}
		return e.showLangPicker(ctx, uid, pending, r, false)
	}
	t := i18n.T(lang)

	var flow Flow
	if _, err := e.store.GetJSON(ctx, e.keys.Flow(uid), &flow); err != nil {
		return err
	}
	if flow.Awaiting() {
		return e.createTicket(ctx, ev, lang, normalizeCategory(flow.Category), r)
	}

	ticket, err := e.openTicket(ctx, uid)
	if err != nil {
		return err
	}
	if ticket != nil {
		// Forwarding is the user's primary intent here: a failure is
		// reported as a retry prompt and the ticket stays open.
		if err := e.gw.CopyToThread(ctx, ticket.ThreadID, ev.ChatID, ev.MessageID); err != nil {
			logger.Warn(ctx, "engine", "forward.failed",
				slog.Int64("user_id", uid),
				slog.Int("thread_id", ticket.ThreadID),
				slog.String("err", err.Error()),
			)
			return r.Send(t.SendFail, ui.Ticket(lang))
		}
		return r.Send(t.Sent, ui.Ticket(lang))
	}

	// Stray message: fall back to the menu.
	return r.Send(t.MenuHeader, ui.Menu(lang))
}

// HandleStaffMessage forwards an admin's reply inside a ticket thread to the
// ticket owner. Everything else in the staff channel is ignored.
func (e *Engine) HandleStaffMessage(ctx context.Context, ev event.Message) error {
	if ev.ThreadID == 0 || ev.FromBot {
		return nil
	}
	if !e.IsAdmin(ctx, ev.Sender.ID) {
		return nil
	}

	var ref ThreadRef
	ok, err := e.store.GetJSON(ctx, e.keys.Thread(ev.ThreadID), &ref)
	if err != nil {
		return err
	}
	if !ok || ref.UserID == 0 {
		return nil
	}

	if err := e.gw.CopyToUser(ctx, ref.UserID, ev.ChatID, ev.MessageID); err != nil {
		// Best-effort by contract: the ticket is never auto-closed because a
		// forward to the user failed.
		logger.Warn(ctx, "engine", "staff.forward_failed",
			slog.Int64("user_id", ref.UserID),
			slog.Int("thread_id", ev.ThreadID),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// selectLanguage persists the chosen language and resumes the pending flow.
func (e *Engine) selectLanguage(ctx context.Context, ev event.Callback, r Replier) error {
	uid := ev.Actor.ID
	chosen := i18n.LangRU
	if i18n.Lang(ev.Payload) == i18n.LangEN {
		chosen = i18n.LangEN
	}
	if err := e.store.SetJSON(ctx, e.keys.Lang(uid), langRecord{Lang: chosen}, store.TTLLang); err != nil {
		return err
	}

	var pending Pending
	if _, err := e.store.GetJSON(ctx, e.keys.Pending(uid), &pending); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.keys.Pending(uid)); err != nil {
		return err
	}

	t := i18n.T(chosen)
	if pending.Screen == ScreenAskOne {
		category := normalizeCategory(pending.Category)
		if err := e.store.SetJSON(ctx, e.keys.Flow(uid), awaitFlow(category), store.TTLFlow); err != nil {
			return err
		}
		return r.EditOrSend(t.AskOne, ui.Cancel(chosen))
	}
	return r.EditOrSend(t.MenuHeader, ui.Menu(chosen))
}

// createTicket consumes the flow marker and opens the ticket. The ticket
// record is written with SetIfAbsent, so of two racing submissions exactly
// one creates; the loser closes its orphan thread and is told a ticket is
// already open.
func (e *Engine) createTicket(ctx context.Context, ev event.Message, lang i18n.Lang, category string, r Replier) error {
	uid := ev.Sender.ID
	t := i18n.T(lang)

	if err := e.store.Delete(ctx, e.keys.Flow(uid)); err != nil {
		return err
	}

	title := ThreadTitle(uid, ev.Sender.Display(), category)
	threadID, err := e.gw.CreateThread(ctx, title)
	if err != nil {
		return fmt.Errorf("create thread: %w", err)
	}

	ticket := Ticket{
		Status:    ticketOpen,
		UserID:    uid,
		ThreadID:  threadID,
		Category:  category,
		Lang:      lang,
		CreatedAt: e.now().UnixMilli(),
	}
	created, err := e.store.SetIfAbsent(ctx, e.keys.Ticket(uid), ticket, store.TTLTicket)
	if err != nil {
		return err
	}
	if !created {
		if err := e.gw.CloseThread(ctx, threadID); err != nil {
			logger.Warn(ctx, "engine", "orphan_thread.close_failed",
				slog.Int("thread_id", threadID),
				slog.String("err", err.Error()),
			)
		}
		return r.Send(t.AlreadyOpen, ui.Ticket(lang))
	}

	if err := e.store.SetJSON(ctx, e.keys.Thread(threadID), ThreadRef{UserID: uid}, store.TTLTicket); err != nil {
		return err
	}
	logger.Eng.Info("ticket created",
		slog.String("event", "ticket.created"),
		slog.Int64("user_id", uid),
		slog.Int("thread_id", threadID),
		slog.String("category", category),
		slog.String("lang", string(lang)),
	)

	announce := fmt.Sprintf(
		"🆕 Новый тикет\n👤 %s\n🧾 #%d\n📂 %s\n🌐 %s\n\nОтвечайте в ЭТОЙ теме — бот перешлёт пользователю.",
		ev.Sender.Display(), uid, category, lang,
	)
	if err := e.gw.SendToThread(ctx, threadID, announce, ui.AdminClose(uid, lang)); err != nil {
		return fmt.Errorf("announce ticket: %w", err)
	}

	if err := e.gw.CopyToThread(ctx, threadID, ev.ChatID, ev.MessageID); err != nil {
		logger.Warn(ctx, "engine", "first_message.copy_failed",
			slog.Int("thread_id", threadID),
			slog.String("err", err.Error()),
		)
	}
	return r.Send(t.Created, ui.Ticket(lang))
}

// userClose closes the caller's own ticket.
func (e *Engine) userClose(ctx context.Context, uid int64, lang i18n.Lang, r Replier) error {
	t := i18n.T(lang)
	ticket, err := e.openTicket(ctx, uid)
	if err != nil {
		return err
	}
	if ticket == nil {
		return r.Send(t.StatusNone, ui.Menu(lang))
	}
	if err := e.closeTicket(ctx, uid, ticket.ThreadID); err != nil {
		return err
	}
	return r.Send(t.Closed, ui.Menu(lang))
}

// adminClose closes a ticket from inside its staff thread. Unauthorized
// actors and unresolvable targets are ignored silently.
func (e *Engine) adminClose(ctx context.Context, ev event.Callback) error {
	if !e.IsAdmin(ctx, ev.Actor.ID) {
		return nil
	}
	targetID, err := strconv.ParseInt(ev.Payload, 10, 64)
	if err != nil || targetID == 0 || ev.ThreadID == 0 {
		return nil
	}

	if err := e.closeTicket(ctx, targetID, ev.ThreadID); err != nil {
		return err
	}

	userLang, err := e.language(ctx, targetID)
	if err != nil || userLang == "" {
		userLang = i18n.LangRU
	}
	t := i18n.T(userLang)
	if err := e.gw.SendToUser(ctx, targetID, t.Closed, ui.Menu(userLang)); err != nil {
		logger.Warn(ctx, "engine", "close.notify_failed",
			slog.Int64("user_id", targetID),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// closeTicket deletes the ticket and its thread mapping together, then tries
// to close the remote thread. The mapping deletion is the source of truth;
// the remote close is best effort.
func (e *Engine) closeTicket(ctx context.Context, uid int64, threadID int) error {
	if err := e.store.Delete(ctx, e.keys.Ticket(uid)); err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.keys.Thread(threadID)); err != nil {
		return err
	}
	if err := e.gw.CloseThread(ctx, threadID); err != nil {
		logger.Warn(ctx, "engine", "thread.close_failed",
			slog.Int("thread_id", threadID),
			slog.String("err", err.Error()),
		)
	}
	logger.Eng.Info("ticket closed",
		slog.String("event", "ticket.closed"),
		slog.Int64("user_id", uid),
		slog.Int("thread_id", threadID),
	)
	return nil
}

// showLangPicker stores the pending destination and renders the picker. The
// picker text is always English: the user has no language yet.
func (e *Engine) showLangPicker(ctx context.Context, uid int64, pending Pending, r Replier, edit bool) error {
	if pending.Screen != "" {
		if err := e.store.SetJSON(ctx, e.keys.Pending(uid), pending, store.TTLFlow); err != nil {
			return err
		}
	}
	t := i18n.T(i18n.LangEN)
	text := t.ChooseLangTitle + "\n" + t.ChooseLangHint
	if edit {
		return r.EditOrSend(text, ui.LangPicker())
	}
	return r.Send(text, ui.LangPicker())
}

// language resolves the user's stored preference; "" means unset.
func (e *Engine) language(ctx context.Context, uid int64) (i18n.Lang, error) {
	var rec langRecord
	ok, err := e.store.GetJSON(ctx, e.keys.Lang(uid), &rec)
	if err != nil || !ok {
		return "", err
	}
	if !rec.Lang.Valid() {
		return "", nil
	}
	return rec.Lang, nil
}

// openTicket returns the user's open ticket, or nil.
func (e *Engine) openTicket(ctx context.Context, uid int64) (*Ticket, error) {
	var ticket Ticket
	ok, err := e.store.GetJSON(ctx, e.keys.Ticket(uid), &ticket)
	if err != nil {
		return nil, err
	}
	if !ok || !ticket.Open() {
		return nil, nil
	}
	return &ticket, nil
}

func normalizeCategory(name string) string {
	if i18n.KnownCategory(name) {
		return name
	}
	return "other"
}

// ThreadTitle builds the staff thread title, whitespace-collapsed and
// truncated with an ellipsis marker.
func ThreadTitle(uid int64, display, category string) string {
	title := fmt.Sprintf("Ticket #%d — %s — %s", uid, display, category)
	title = strings.Join(strings.Fields(title), " ")
	runes := []rune(title)
	if len(runes) <= titleLimit {
		return title
	}
	return string(runes[:titleLimit]) + "…"
}
