// Package i18n holds the localized string tables of the support bot.
package i18n

import "fmt"

// Lang is a supported interface language.
type Lang string

const (
	// LangRU is Russian, the fallback language.
	LangRU Lang = "ru"
	// LangEN is English.
	LangEN Lang = "en"
)

// Valid reports whether l is one of the supported languages.
func (l Lang) Valid() bool {
	return l == LangRU || l == LangEN
}

// Pack is one language's string table.
type Pack struct {
	MenuHeader      string
	ChooseLangTitle string
	ChooseLangHint  string
	Create          string
	FAQ             string
	Status          string
	Contacts        string
	Lang            string
	Back            string
	Cancel          string
	Close           string
	CloseAdmin      string
	PickCategory    string
	AskOne          string
	AlreadyOpen     string
	Sent            string
	SendFail        string
	Created         string
	Closed          string
	StatusNone      string
	FAQText         string
	ContactsText    string

	statusOpen string
	categories map[string]string
}

// StatusOpen renders the open-ticket status line for the given category.
func (p Pack) StatusOpen(category string) string {
	if category == "" {
		category = "—"
	}
	return fmt.Sprintf(p.statusOpen, category)
}

// Category returns the localized label of a ticket category, falling back to
// the raw name for unknown categories.
func (p Pack) Category(name string) string {
	if label, ok := p.categories[name]; ok {
		return label
	}
	return name
}

var packs = map[Lang]Pack{
	LangRU: {
		MenuHeader:      "Это бот поддержки @CalculatorTraderBot\n\nВыберите действие:",
		ChooseLangTitle: "Выберите язык:",
		ChooseLangHint:  "Язык можно сменить позже в меню.",
		Create:          "🆘 Создать обращение",
		FAQ:             "📌 FAQ",
		Status:          "ℹ️ Статус",
		Contacts:        "✉️ Контакты",
		Lang:            "🌐 Язык",
		Back:            "⬅️ В меню",
		Cancel:          "↩️ Отмена",
		Close:           "✅ Закрыть обращение",
		CloseAdmin:      "✅ Закрыть тикет",
		PickCategory:    "Выберите категорию:",
		AskOne:          "Ок. Отправьте ОДНО сообщение с описанием проблемы (текст/фото/файл).",
		AlreadyOpen:     "У вас уже есть открытое обращение. Просто пишите сообщением — я пересылаю в поддержку.",
		Sent:            "✅ Отправлено в поддержку.",
		SendFail:        "⚠️ Не удалось отправить. Попробуйте ещё раз.",
		Created:         "✅ Обращение создано. Пишите сюда — я пересылаю в поддержку.",
		Closed:          "✅ Обращение закрыто.",
		StatusNone:      "ℹ️ Открытых обращений нет.",
		FAQText:         "FAQ:\n• Опиши проблему конкретно\n• Скрины/логи помогают\n• Ответ придёт сюда",
		ContactsText:    "Контакты:\n• Поддержка — через этого бота",
		statusOpen:      "ℹ️ Статус: ОТКРЫТО\nКатегория: %s",
		categories: map[string]string{
			"bug":   "🐞 Баг / Ошибка",
			"pay":   "💳 Оплата",
			"biz":   "🤝 Партнёрство",
			"other": "❓ Другое",
		},
	},
	LangEN: {
		MenuHeader:      "This is a support bot @CalculatorTraderBot\n\nChoose an action:",
		ChooseLangTitle: "Choose language:",
		ChooseLangHint:  "You can change it later in the menu.",
		Create:          "🆘 Create ticket",
		FAQ:             "📌 FAQ",
		Status:          "ℹ️ Status",
		Contacts:        "✉️ Contacts",
		Lang:            "🌐 Language",
		Back:            "⬅️ Back",
		Cancel:          "↩️ Cancel",
		Close:           "✅ Close ticket",
		CloseAdmin:      "✅ Close ticket",
		PickCategory:    "Choose a category:",
		AskOne:          "OK. Send ONE message describing the issue (text/photo/file).",
		AlreadyOpen:     "You already have an open ticket. Just message me — I'll forward it to support.",
		Sent:            "✅ Sent to support.",
		SendFail:        "⚠️ Failed to send. Please try again.",
		Created:         "✅ Ticket created. Message me here — I will forward to support.",
		Closed:          "✅ Ticket closed.",
		StatusNone:      "ℹ️ No open tickets.",
		FAQText:         "FAQ:\n• Describe the issue clearly\n• Screenshots/logs help\n• We'll reply here",
		ContactsText:    "Contacts:\n• Support — via this bot",
		statusOpen:      "ℹ️ Status: OPEN\nCategory: %s",
		categories: map[string]string{
			"bug":   "🐞 Bug / Error",
			"pay":   "💳 Payments",
			"biz":   "🤝 Partnership",
			"other": "❓ Other",
		},
	},
}

// T returns the string table for lang, falling back to Russian for anything
// unknown.
func T(lang Lang) Pack {
	if p, ok := packs[lang]; ok {
		return p
	}
	return packs[LangRU]
}

// Categories lists the fixed ticket category names in display order.
func Categories() []string {
	return []string{"bug", "pay", "biz", "other"}
}

// KnownCategory reports whether name is one of the fixed categories.
func KnownCategory(name string) bool {
	_, ok := packs[LangRU].categories[name]
	return ok
}
