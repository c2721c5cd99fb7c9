package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := NewMaskingHandler(slog.NewJSONHandler(&buf, nil))
	return slog.New(handler), &buf
}

func TestMaskingHandlerMasksSensitiveKeys(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Info("connecting",
		slog.String("password", "hunter2"),
		slog.String("dsn", "https://key@sentry.example/1"),
		slog.String("addr", "localhost:6379"),
	)

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "sentry.example")
	assert.Contains(t, out, `"password":"***"`)
	assert.Contains(t, out, `"dsn":"***"`)
	assert.Contains(t, out, "localhost:6379")
}

func TestMaskingHandlerMasksWithAttrs(t *testing.T) {
	log, buf := newCaptureLogger()

	log.With(slog.String("bot_token", "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw")).
		Info("ready")

	out := buf.String()
	assert.NotContains(t, out, "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw")
	assert.Contains(t, out, `"bot_token":"***"`)
}

func TestMaskingHandlerScrubsTokenShapedValues(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Error("request failed",
		slog.String("url", "https://api.telegram.org/bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw/sendMessage"),
	)

	out := buf.String()
	assert.NotContains(t, out, "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw")
	assert.Contains(t, out, "***")
}

func TestMaskingHandlerScrubsMessage(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Error("telegram: Post https://api.telegram.org/bot123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw/getMe failed")

	assert.NotContains(t, buf.String(), "AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw")
}

func TestMaskingHandlerMasksGroupedAttrs(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Info("configured", slog.Group("redis",
		slog.String("addr", "localhost:6379"),
		slog.String("password", "s3cret"),
	))

	out := buf.String()
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "localhost:6379")
}
