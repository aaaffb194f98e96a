// Package gateway is the thread router's view of the messaging platform: one
// discussion thread per open ticket inside the staff channel, plus direct
// sends to end users. Every operation returns an explicit error; the caller
// decides per call whether a failure is fatal to the flow or ignorable.
package gateway

import (
	"context"

	tele "gopkg.in/telebot.v4"
)

// Role is a member role inside the staff channel.
type Role string

const (
	// RoleAdministrator authorizes admin actions.
	RoleAdministrator Role = "administrator"
	// RoleCreator authorizes admin actions.
	RoleCreator Role = "creator"
)

// Authorizes reports whether the role may act on behalf of staff.
func (r Role) Authorizes() bool {
	return r == RoleAdministrator || r == RoleCreator
}

// Gateway routes content between end users and staff-channel threads.
type Gateway interface {
	// CreateThread opens a new discussion thread and returns its id.
	CreateThread(ctx context.Context, title string) (int, error)

	// CloseThread closes a thread. Callers treat failure as non-fatal: the
	// local mapping deletion is the source of truth.
	CloseThread(ctx context.Context, threadID int) error

	// SendToThread posts text (with optional controls) into a thread.
	SendToThread(ctx context.Context, threadID int, text string, markup *tele.ReplyMarkup) error

	// CopyToThread copies a user's message into a thread.
	CopyToThread(ctx context.Context, threadID int, fromChat int64, messageID int) error

	// CopyToUser copies a staff message to the end user.
	CopyToUser(ctx context.Context, userID, fromChat int64, messageID int) error

	// SendToUser sends text (with optional controls) directly to a user.
	SendToUser(ctx context.Context, userID int64, text string, markup *tele.ReplyMarkup) error

	// MemberRole resolves the user's role in the staff channel.
	MemberRole(ctx context.Context, userID int64) (Role, error)
}
