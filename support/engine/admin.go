package engine

import (
	"context"

	"log/slog"

	"github.com/m3rciful/supportbot/core/logger"
)

// IsAdmin reports whether the actor may close tickets and speak for staff:
// either a member of the static allow-list or an administrator/creator of
// the staff channel. Lookups are never cached and any failure resolves to
// not-authorized.
func (e *Engine) IsAdmin(ctx context.Context, userID int64) bool {
	if e.support.IsAdminListed(userID) {
		return true
	}
	role, err := e.gw.MemberRole(ctx, userID)
	if err != nil {
		logger.Debug(ctx, "admin", "role.lookup_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return role.Authorizes()
}
