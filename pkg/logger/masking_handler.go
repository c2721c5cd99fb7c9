package logger

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

var sensitiveKeys = []string{
	"password",
	"token",
	"bot_token",
	"redis_password",
	"secret",
	"api_key",
	"authorization",
	"dsn",
}

// botTokenPattern matches Telegram bot tokens, which otherwise leak through
// API URLs embedded in transport error messages.
var botTokenPattern = regexp.MustCompile(`\d{6,}:[A-Za-z0-9_-]{30,}`)

const maskedValue = "***"

// MaskingHandler wraps a slog.Handler and masks sensitive attributes before
// delegating. Both attribute keys and token-shaped string values are masked.
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler creates a handler that masks sensitive fields before passing records downstream.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

// Enabled reports whether the handler handles records at the given level.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// WithAttrs returns a new handler with additional attributes, masked the same
// way as per-record attributes.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		masked = append(masked, maskAttr(attr))
	}

	return &MaskingHandler{next: h.next.WithAttrs(masked)}
}

// WithGroup returns a new handler with an appended group name.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

// Handle applies masking to the message and attributes and delegates to the
// wrapped handler.
func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, scrubTokens(record.Message), record.PC)

	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func maskAttr(attr slog.Attr) slog.Attr {
	if isSensitiveKey(attr.Key) {
		attr.Value = slog.StringValue(maskedValue)
		return attr
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		attr.Value = slog.StringValue(scrubTokens(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		masked := make([]slog.Attr, 0, len(members))
		for _, member := range members {
			masked = append(masked, maskAttr(member))
		}
		attr.Value = slog.GroupValue(masked...)
	}

	return attr
}

func scrubTokens(s string) string {
	if !strings.ContainsRune(s, ':') {
		return s
	}

	return botTokenPattern.ReplaceAllString(s, maskedValue)
}

func isSensitiveKey(key string) bool {
	for _, sensitive := range sensitiveKeys {
		if strings.EqualFold(key, sensitive) {
			return true
		}
	}
	return false
}
