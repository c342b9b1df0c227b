package notify

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Sender is the transport behind the notifier: whatever actually carries
// the message to the user.
type Sender interface {
	Send(ctx context.Context, userID kernel.UUID, title, message string) error
}

// LogSender writes notifications to the log instead of a real channel.
// Used in local runs where no push transport is wired.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a sender that logs every notification.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log.With("component", "notifications")}
}

// Send logs the notification.
func (s *LogSender) Send(ctx context.Context, userID kernel.UUID, title, message string) error {
	s.log.InfoContext(ctx, "notification sent",
		"user_id", userID.String(),
		"title", title,
		"message", message)
	return nil
}

// Notifier delivers user notifications through a Sender, retrying transient
// failures. Callers treat notification as fire-and-forget, so the retry
// budget here is the only delivery effort a message gets.
type Notifier struct {
	sender      Sender
	log         *slog.Logger
	maxAttempts int
	delay       time.Duration
}

// NewNotifier wraps sender with a small retry budget.
func NewNotifier(sender Sender, log *slog.Logger, maxAttempts int, delay time.Duration) *Notifier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Notifier{
		sender:      sender,
		log:         log.With("component", "notifier"),
		maxAttempts: maxAttempts,
		delay:       delay,
	}
}

// Notify sends the message, retrying up to the configured attempt budget.
// The last error is returned when every attempt fails.
func (n *Notifier) Notify(ctx context.Context, userID kernel.UUID, title, message string) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}

	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		err := n.sender.Send(ctx, userID, title, message)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == n.maxAttempts {
			break
		}
		n.log.WarnContext(ctx, "notification send failed, retrying",
			"user_id", userID.String(),
			"attempt", attempt,
			"error", err)

		t := time.NewTimer(n.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return lastErr
		case <-t.C:
		}
	}
	return lastErr
}
