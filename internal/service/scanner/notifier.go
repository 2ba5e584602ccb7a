package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongpc-foren/EMA-tool/internal/service/notification"
)

const mailAttempts = 3

var _ Notifier = (*EmailNotifier)(nil)

// EmailNotifier delivers cross signals through an EmailService, retrying up
// to mailAttempts times with attempt*1s backoff between tries. Exhaustion is
// returned as a value for the caller to log and move on.
type EmailNotifier struct {
	emailSvc notification.EmailService
	to       string

	sleep func(time.Duration)
}

func NewEmailNotifier(emailSvc notification.EmailService, to string) *EmailNotifier {
	return &EmailNotifier{
		emailSvc: emailSvc,
		to:       to,
		sleep:    time.Sleep,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, signal CrossSignal) error {
	subject, body := formatSignal(signal)

	var err error
	for attempt := 1; attempt <= mailAttempts; attempt++ {
		err = n.emailSvc.SendText(ctx, n.to, subject, body)
		if err == nil {
			slog.Info("email sent", "to", n.to, "subject", subject)
			return nil
		}
		if attempt < mailAttempts {
			slog.Warn("email send failed, retrying", "attempt", attempt, "error", err)
			n.sleep(time.Duration(attempt) * time.Second)
		}
	}
	slog.Error("email send failed, giving up", "attempts", mailAttempts, "error", err)
	return fmt.Errorf("send cross alert to %s: %w", n.to, err)
}

func formatSignal(signal CrossSignal) (subject, body string) {
	name := "Golden Cross"
	if signal.Type == CrossDeath {
		name = "Death Cross"
	}
	subject = fmt.Sprintf("[%s] %s", name, signal.Symbol.ToString())
	body = fmt.Sprintf("%s on %s (%s)\nPrice: %s\nEMA%d prev: %s -> now: %s\nEMA%d prev: %s -> now: %s\n",
		name, signal.Symbol.ToString(), signal.Interval.ToString(),
		signal.Price,
		signal.ShortPeriod, signal.ShortPrev, signal.ShortNow,
		signal.LongPeriod, signal.LongPrev, signal.LongNow)
	return subject, body
}
