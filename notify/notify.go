// Package notify tells the site owners about new contact messages and
// waitlist sign-ups. Delivery is fire-and-forget: it never blocks or fails
// the request that triggered it.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/buildsite-backend/config"
	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/models"
)

const sendTimeout = 15 * time.Second

type Message struct {
	Subject string
	HTML    string
	Text    string
}

type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Notifier fans a message out to every configured channel in the
// background. The zero value and a nil *Notifier are valid and do nothing.
type Notifier struct {
	channels []Channel
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

func New(channels ...Channel) *Notifier {
	return &Notifier{
		channels: channels,
		logger:   log.With().Str("component", "notify").Logger(),
	}
}

// FromSettings builds the channels whose credentials are present.
func FromSettings(s config.NotifySettings) (*Notifier, error) {
	var channels []Channel
	if s.EmailEnabled() {
		email, err := NewEmailChannel(s.ResendBaseURL, s.ResendAPIKey, s.ResendFromEmail, s.Emails)
		if err != nil {
			return nil, err
		}
		channels = append(channels, email)
	}
	if s.SMSEnabled() {
		sms, err := NewSMSChannel(s.TwilioAccountSID, s.TwilioAuthToken, s.TwilioFromNumber, s.Phone)
		if err != nil {
			return nil, err
		}
		channels = append(channels, sms)
	}
	n := New(channels...)
	n.logger.Info().Int("channels", len(channels)).Msg("notifications configured")
	return n, nil
}

func (n *Notifier) Enabled() bool {
	return n != nil && len(n.channels) > 0
}

func (n *Notifier) ContactReceived(m models.ContactMessage) {
	phone := ""
	if m.Phone != nil {
		phone = *m.Phone
	}
	n.dispatch(Message{
		Subject: fmt.Sprintf("New contact message: %s", m.Subject),
		HTML: fmt.Sprintf(
			"<h2>New contact message</h2><p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Phone:</strong> %s</p><p><strong>Subject:</strong> %s</p><p>%s</p>",
			html.EscapeString(m.Name), html.EscapeString(m.Email), html.EscapeString(phone),
			html.EscapeString(m.Subject), strings.ReplaceAll(html.EscapeString(m.Message), "\n", "<br>"),
		),
		Text: fmt.Sprintf("New contact from %s (%s): %s", m.Name, m.Email, m.Subject),
	})
}

func (n *Notifier) WaitlistJoined(e models.WaitlistEntry) {
	company := ""
	if e.Company != nil {
		company = *e.Company
	}
	n.dispatch(Message{
		Subject: fmt.Sprintf("New waitlist sign-up: %s", e.Name),
		HTML: fmt.Sprintf(
			"<h2>New waitlist sign-up</h2><p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p><strong>Company:</strong> %s</p>",
			html.EscapeString(e.Name), html.EscapeString(e.Email), html.EscapeString(company),
		),
		Text: fmt.Sprintf("New waitlist sign-up: %s (%s)", e.Name, e.Email),
	})
}

func (n *Notifier) dispatch(msg Message) {
	if !n.Enabled() {
		return
	}
	for _, ch := range n.channels {
		n.wg.Add(1)
		go func(ch Channel) {
			defer n.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()

			err := ch.Send(ctx, msg)
			metrics.RecordNotification(ch.Name(), err == nil)
			if err != nil {
				n.logger.Error().Err(err).Str("channel", ch.Name()).Str("subject", msg.Subject).Msg("notification failed")
			}
		}(ch)
	}
}

// Wait blocks until in-flight notifications finish, or ctx is done.
func (n *Notifier) Wait(ctx context.Context) {
	if n == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		n.logger.Warn().Msg("gave up waiting for notifications")
	}
}
