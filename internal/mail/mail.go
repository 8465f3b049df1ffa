// Package mail renders and dispatches account notification emails.
// Transport is pluggable; the default Sender only logs.
package mail

import (
	"context"
	"log/slog"
)

// Sender delivers a pre-rendered HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}

// LogSender writes every message to the structured log instead of delivering it.
type LogSender struct {
	from   string
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a LogSender.
func NewLogSender(from string, logger *slog.Logger) *LogSender {
	return &LogSender{from: from, logger: logger}
}

// Send logs the message and always succeeds. Bodies carry live tokens, so
// they are only logged at debug level.
func (s *LogSender) Send(ctx context.Context, to, subject, bodyHTML string) error {
	s.logger.InfoContext(ctx, "email dispatched",
		"from", s.from,
		"to", to,
		"subject", subject,
	)
	s.logger.DebugContext(ctx, "email body", "to", to, "body", bodyHTML)
	return nil
}
