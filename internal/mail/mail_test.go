package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_PasswordReset(t *testing.T) {
	r := NewRenderer()

	msg, err := r.Render(TemplatePasswordReset, "Alice", "https://academy.example/user/reset-password?token=abc", "24h0m0s")
	require.NoError(t, err)

	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Contains(t, msg.Body, "Hello Alice")
	assert.Contains(t, msg.Body, `href="https://academy.example/user/reset-password?token=abc"`)
	assert.Contains(t, msg.Body, "24h0m0s")
}

func TestRenderer_OAuthHasNoLink(t *testing.T) {
	r := NewRenderer()

	msg, err := r.Render(TemplatePasswordResetOAuth, "Bob", "google")
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "google")
	assert.NotContains(t, msg.Body, "href")
}

func TestRenderer_EscapesSubstitutions(t *testing.T) {
	r := NewRenderer()

	msg, err := r.Render(TemplateEmailConfirm, "<script>x</script>", "https://academy.example/c", "1h")
	require.NoError(t, err)

	assert.NotContains(t, msg.Body, "<script>")
	assert.Contains(t, msg.Body, "&lt;script&gt;")
}

func TestRenderer_Errors(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render("missing")
	assert.Error(t, err)

	_, err = r.Render(TemplatePasswordReset, "only-one-arg")
	assert.Error(t, err)

	assert.Error(t, r.Add("broken", "s", "{{index . 0"))
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender("no-reply@academy.example", slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), "alice@x.com", "Hi", "<p>?token=secret</p>"))

	assert.Contains(t, buf.String(), `"to":"alice@x.com"`)
	assert.Contains(t, buf.String(), `"subject":"Hi"`)
	assert.NotContains(t, buf.String(), "secret")
}

func TestLogSender_SendLogsBodyAtDebug(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	s := NewLogSender("no-reply@academy.example", slog.New(handler))

	require.NoError(t, s.Send(context.Background(), "alice@x.com", "Hi", "<p>?token=secret</p>"))

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), "secret")
}
