package gateway

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/logger"
)

// Telebot implements Gateway on the Telegram Bot API via telebot's
// forum-topic calls.
type Telebot struct {
	bot  *tele.Bot
	chat *tele.Chat
}

// NewTelebot binds a bot to the staff channel.
func NewTelebot(bot *tele.Bot, staffChatID int64) *Telebot {
	return &Telebot{
		bot:  bot,
		chat: &tele.Chat{ID: staffChatID},
	}
}

// CreateThread creates a forum topic named title.
func (g *Telebot) CreateThread(ctx context.Context, title string) (int, error) {
	topic, err := g.bot.CreateTopic(g.chat, &tele.Topic{Name: title})
	if err != nil {
		return 0, fmt.Errorf("create topic: %w", err)
	}
	logger.Debug(ctx, "tg", "thread.created")
	return topic.ThreadID, nil
}

// CloseThread closes the forum topic.
func (g *Telebot) CloseThread(ctx context.Context, threadID int) error {
	if err := g.bot.CloseTopic(g.chat, &tele.Topic{ThreadID: threadID}); err != nil {
		return fmt.Errorf("close topic %d: %w", threadID, err)
	}
	return nil
}

// SendToThread posts text into the topic.
func (g *Telebot) SendToThread(ctx context.Context, threadID int, text string, markup *tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ThreadID: threadID, ReplyMarkup: markup}
	if _, err := g.bot.Send(g.chat, text, opts); err != nil {
		return fmt.Errorf("send to thread %d: %w", threadID, err)
	}
	return nil
}

// CopyToThread copies a message into the topic, preserving any media.
func (g *Telebot) CopyToThread(ctx context.Context, threadID int, fromChat int64, messageID int) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: fromChat}
	if _, err := g.bot.Copy(g.chat, msg, &tele.SendOptions{ThreadID: threadID}); err != nil {
		return fmt.Errorf("copy to thread %d: %w", threadID, err)
	}
	return nil
}

// CopyToUser copies a message to the user's private chat.
func (g *Telebot) CopyToUser(ctx context.Context, userID, fromChat int64, messageID int) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: fromChat}
	if _, err := g.bot.Copy(tele.ChatID(userID), msg); err != nil {
		return fmt.Errorf("copy to user %d: %w", userID, err)
	}
	return nil
}

// SendToUser sends text to the user's private chat.
func (g *Telebot) SendToUser(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ReplyMarkup: markup}
	if _, err := g.bot.Send(tele.ChatID(userID), text, opts); err != nil {
		return fmt.Errorf("send to user %d: %w", userID, err)
	}
	return nil
}

// MemberRole queries the user's membership role in the staff channel.
func (g *Telebot) MemberRole(ctx context.Context, userID int64) (Role, error) {
	member, err := g.bot.ChatMemberOf(g.chat, &tele.User{ID: userID})
	if err != nil {
		return "", fmt.Errorf("chat member of %d: %w", userID, err)
	}
	return Role(member.Role), nil
}
