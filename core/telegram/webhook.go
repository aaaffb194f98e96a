// Package telegram hosts the inbound webhook transport adapter.
package telegram

import (
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/supportbot/core/buildinfo"
	"github.com/m3rciful/supportbot/core/logger"
)

// secretHeader is set by Telegram when the webhook was registered with a
// secret token.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateSink consumes one parsed update. *tele.Bot satisfies it.
type UpdateSink interface {
	ProcessUpdate(u tele.Update)
}

// WebhookHandler receives Telegram webhook deliveries. A successfully parsed
// request is always acknowledged with 200, even when processing fails, so the
// upstream delivery system never enters a retry storm; idempotent state-store
// backed processing makes the occasional silently lost event acceptable.
type WebhookHandler struct {
	Sink   UpdateSink
	Secret string
}

// ServeHTTP implements the transport contract: GET answers a health/version
// probe, only POST carries updates, a configured secret must match, and a
// malformed body is the only client error.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok "+buildinfo.Short())
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.Secret != "" && r.Header.Get(secretHeader) != h.Secret {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update tele.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.process(update)

	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (h *WebhookHandler) process(update tele.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.TG.Error("webhook processing failed",
				slog.String("event", "webhook.fatal"),
				slog.Int("update_id", update.ID),
				slog.String("build", buildinfo.Short()),
				slog.Any("err", r),
			)
		}
	}()
	h.Sink.ProcessUpdate(update)
}
