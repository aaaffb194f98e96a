package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/logger"
	"github.com/m3rciful/supportbot/core/store"
	tghelpers "github.com/m3rciful/supportbot/core/telegram/helpers"
)

// Dedup drops redelivered updates before any handler runs. Updates without an
// id pass through. A store failure propagates: the update is lost, but the
// transport boundary still acks the delivery.
func Dedup(gate *store.Dedup) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			id := c.Update().ID
			if id == 0 {
				return next(c)
			}
			ctx := tghelpers.BuildContext(c)
			first, err := gate.Claim(ctx, id)
			if err != nil {
				return err
			}
			if !first {
				logger.Debug(ctx, "tg", "update.duplicate",
					slog.Int("update_id", id),
				)
				return nil
			}
			return next(c)
		}
	}
}
