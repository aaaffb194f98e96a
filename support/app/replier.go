package app

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/supportbot/core/telegram/helpers"
)

// teleReplier adapts tele.Context to the engine's Replier.
type teleReplier struct {
	c tele.Context
}

func (r teleReplier) Send(text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return r.c.Send(text)
	}
	return r.c.Send(text, markup)
}

func (r teleReplier) EditOrSend(text string, markup *tele.ReplyMarkup) error {
	if markup == nil {
		return r.c.EditOrSend(text)
	}
	return r.c.EditOrSend(text, markup)
}

func contextOf(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}
