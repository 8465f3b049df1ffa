package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"academy/internal/mail"
	"academy/internal/model"
)

// notifier renders account emails and hands them to the mail sender.
// Delivery failures are logged and never surfaced to callers.
type notifier struct {
	sender   mail.Sender
	renderer *mail.Renderer
	baseURL  string
	logger   *slog.Logger
}

func (n *notifier) link(path, token string) string {
	return n.baseURL + path + "?token=" + url.QueryEscape(token)
}

func (n *notifier) send(ctx context.Context, user *model.User, templateID string, args ...string) {
	msg, err := n.renderer.Render(templateID, args...)
	if err != nil {
		n.logger.ErrorContext(ctx, "render email", "template", templateID, "error", err)
		return
	}
	if err := n.sender.Send(ctx, user.Email, msg.Subject, msg.Body); err != nil {
		n.logger.ErrorContext(ctx, "send email", "template", templateID, "user_id", user.ID, "error", err)
	}
}

// formatValidity renders a token lifetime for humans, e.g. "24 hours".
func formatValidity(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
