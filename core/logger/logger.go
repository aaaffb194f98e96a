package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"log/slog"

	"github.com/m3rciful/supportbot/core/buildinfo"
	coreconfig "github.com/m3rciful/supportbot/core/config"
)

var (
	initOnce sync.Once
	levelVar slog.LevelVar

	// L is the base logger shared by all components.
	L *slog.Logger

	// TG logs Telegram transport events.
	TG *slog.Logger
	// Store logs state-store operations.
	Store *slog.Logger
	// DB logs Postgres connection and migration events.
	DB *slog.Logger
	// Eng logs conversation engine transitions.
	Eng *slog.Logger
	// Adm logs admin authorization checks.
	Adm *slog.Logger
	// App logs application lifecycle events.
	App *slog.Logger
)

const (
	formatKV   = "kv"
	formatJSON = "json"
)

// InitLogger configures the global structured logger. It may be called only
// once; later calls are no-ops.
func InitLogger(cfg *coreconfig.Config) error {
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		var handler slog.Handler
		opts := &slog.HandlerOptions{Level: &levelVar}
		switch selectFormat(cfg) {
		case formatJSON:
			handler = slog.NewJSONHandler(os.Stderr, opts)
		default:
			handler = slog.NewTextHandler(os.Stderr, opts)
		}

		L = slog.New(handler)
		slog.SetDefault(L)
		wireComponents()

		App.Info("logger ready",
			slog.String("event", "logger.init"),
			slog.String("level", levelVar.Level().String()),
			slog.String("build", buildinfo.Short()),
		)
	})
	return nil
}

// InitForTest points all component loggers at the provided writer with debug
// level. Intended for package tests only.
func InitForTest(w io.Writer) {
	levelVar.Set(slog.LevelDebug)
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar}))
	wireComponents()
}

func wireComponents() {
	TG = L.With("component", "tg")
	Store = L.With("component", "store")
	DB = L.With("component", "db")
	Eng = L.With("component", "engine")
	Adm = L.With("component", "admin")
	App = L.With("component", "app")
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	level := ""
	if cfg != nil {
		level = cfg.Logging.Level
		if level == "" && strings.EqualFold(cfg.Logging.Profile, "debug") {
			level = "debug"
		}
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(cfg *coreconfig.Config) string {
	if cfg == nil {
		return formatKV
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Logging.Format), formatJSON) {
		return formatJSON
	}
	return formatKV
}

// Shutdown flushes logger resources. The current handlers write synchronously
// so this only exists to keep the runner's lifecycle hooks symmetrical.
func Shutdown() error { return nil }

// Background returns a fresh context for log propagation helpers.
func Background() context.Context { return context.Background() }

// LogEvent emits an event line through log, appending correlation attributes
// stored in ctx (rid, update/user/chat ids) after the caller's attrs.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if log == nil {
		log = fallbackLogger()
	}
	all := make([]slog.Attr, 0, len(attrs)+2)
	all = append(all, slog.String("event", event))
	all = append(all, attrs...)
	if rid := RIDFrom(ctx); rid != "" {
		all = append(all, slog.String("rid", rid))
	}
	log.LogAttrs(ctx, level, event, all...)
}

// Debug logs a debug event for the named component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Warn logs a warning event for the named component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for the named component, tagging the build so
// failed updates can be traced to a deploy.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("build", buildinfo.Short()))
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// Component returns a logger scoped to the named component.
func Component(name string) *slog.Logger {
	return fallbackLogger().With("component", name)
}

func fallbackLogger() *slog.Logger {
	if L != nil {
		return L
	}
	return slog.Default()
}
