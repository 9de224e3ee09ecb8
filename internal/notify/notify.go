// Package notify abstracts the outbound messaging gateway (WhatsApp/SMS
// provider). Delivery is best-effort: callers fire a send in the background
// and the parent operation never depends on the outcome.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// sendTimeout bounds a single background delivery attempt.
const sendTimeout = 10 * time.Second

// Delivery is the gateway verdict for one message. Gateways report failure
// through Delivered/Reason instead of returning errors.
type Delivery struct {
	Delivered bool
	Reason    string
}

// Notifier sends a message to a normalized phone number.
type Notifier interface {
	Send(ctx context.Context, normalizedPhone, message string) Delivery
}

// Dispatch delivers the message on a background goroutine. Failures are
// logged and otherwise swallowed; the caller has already moved on.
func Dispatch(n Notifier, normalizedPhone, message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		res := n.Send(ctx, normalizedPhone, message)
		if !res.Delivered {
			log.Warn().Str("phone", normalizedPhone).Str("reason", res.Reason).Msg("notify: delivery failed")
			return
		}
		log.Debug().Str("phone", normalizedPhone).Msg("notify: message delivered")
	}()
}

// LogNotifier is the in-process stand-in for a real messaging gateway: it
// writes the message to the log and reports it delivered.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Send(_ context.Context, normalizedPhone, message string) Delivery {
	log.Info().Str("phone", normalizedPhone).Str("message", message).Msg("notify: outbound message")
	return Delivery{Delivered: true}
}
