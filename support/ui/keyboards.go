// Package ui assembles the inline keyboards of every screen.
package ui

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/telegram/keyboard"
	"github.com/m3rciful/supportbot/support/event"
	"github.com/m3rciful/supportbot/support/i18n"
)

// LangPicker offers the two supported languages side by side.
func LangPicker() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Русский", Unique: event.ActionSetLang.Unique(), Data: string(i18n.LangRU)},
		{Text: "English", Unique: event.ActionSetLang.Unique(), Data: string(i18n.LangEN)},
	})
}

// Menu is the main menu keyboard.
func Menu(lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: t.Create, Unique: event.ActionOpenTicket.Unique()}},
		[]keyboard.InlineBtn{
			{Text: t.FAQ, Unique: event.ActionFAQ.Unique()},
			{Text: t.Status, Unique: event.ActionStatus.Unique()},
		},
		[]keyboard.InlineBtn{{Text: t.Contacts, Unique: event.ActionContacts.Unique()}},
		[]keyboard.InlineBtn{{Text: t.Lang, Unique: event.ActionLangMenu.Unique()}},
	)
}

// Categories is the ticket category picker.
func Categories(lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	rows := make([][]keyboard.InlineBtn, 0, len(i18n.Categories())+1)
	for _, cat := range i18n.Categories() {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: t.Category(cat), Unique: event.ActionCategory.Unique(), Data: cat},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: t.Back, Unique: event.ActionHome.Unique()}})
	return keyboard.InlineButtonsRows(rows...)
}

// Ticket shows the controls of an open ticket.
func Ticket(lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: t.Close, Unique: event.ActionCloseTicket.Unique()}},
		[]keyboard.InlineBtn{{Text: t.Back, Unique: event.ActionHome.Unique()}},
	)
}

// Cancel offers the single way out of the "send one message" prompt.
func Cancel(lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: t.Cancel, Unique: event.ActionHome.Unique()},
	})
}

// Back is a single back-to-menu button used under render-only screens.
func Back(lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: t.Back, Unique: event.ActionHome.Unique()},
	})
}

// AdminClose is attached to the ticket announcement inside the staff thread;
// the payload carries the ticket owner's user id.
func AdminClose(userID int64, lang i18n.Lang) *tele.ReplyMarkup {
	t := i18n.T(lang)
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: t.CloseAdmin, Unique: event.ActionAdminClose.Unique(), Data: strconv.FormatInt(userID, 10)},
	})
}
