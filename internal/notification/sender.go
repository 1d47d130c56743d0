package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v3"

	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
)

// Message is one outbound notification. Body is rendered into the shared
// email layout under Title.
type Message struct {
	To      string
	Subject string
	Title   string
	Body    string
	At      time.Time
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendSender delivers notifications through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

func NewResendSender(apiKey, from string, log *logger.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	at := msg.At
	if at.IsZero() {
		at = time.Now()
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Sleepr <%s>", s.from),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    renderEmail(msg.Title, at.UTC().Format("Jan 2, 2006 15:04 UTC"), msg.Body),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email_id": sent.Id,
		"subject":  msg.Subject,
		"action":   "notification_sent",
	}).Debug("notification email delivered")

	return nil
}

// LoginAlerter adapts a Sender to the session manager's login hook.
type LoginAlerter struct {
	sender Sender
}

func NewLoginAlerter(sender Sender) *LoginAlerter {
	return &LoginAlerter{sender: sender}
}

func (a *LoginAlerter) SendLoginAlert(ctx context.Context, email string, at time.Time) error {
	return a.sender.Send(ctx, Message{
		To:      email,
		Subject: "New login to your Sleepr account",
		Title:   "New login detected",
		Body: fmt.Sprintf(
			"A new login to the account <strong>%s</strong> was recorded at %s.",
			email, at.UTC().Format("Jan 2, 2006 15:04 UTC"),
		),
		At: at,
	})
}
