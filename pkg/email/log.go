package email

import (
	"context"
	"log/slog"
	"sync"
)

// LogSender only logs. Used when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCaseNotification(ctx context.Context, to string, n CaseNotification) error {
	subject, _, err := Render(n)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "case notification email",
		"to", to,
		"subject", subject,
		"case_link", n.CaseLink,
	)
	return nil
}

// Message is one mail captured by an Outbox.
type Message struct {
	To           string
	Notification CaseNotification
}

// Outbox records every mail instead of sending it.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
}

func (o *Outbox) SendCaseNotification(_ context.Context, to string, n CaseNotification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, Message{To: to, Notification: n})
	return nil
}

// Sent returns a copy of the recorded mails.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}
