package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/joshua-takyi/tower15/internal/config"
	"github.com/joshua-takyi/tower15/internal/models"
	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	brand  func(ctx context.Context) string
	sender Sender
	logger *slog.Logger
}

// NewMailer dials SMTP when a host is configured; otherwise emails are only logged.
func NewMailer(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	m := &Mailer{from: cfg.From, logger: logger}
	if cfg.Host != "" {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

func NewMailerWithSender(from string, sender Sender, logger *slog.Logger) *Mailer {
	return &Mailer{from: from, sender: sender, logger: logger}
}

// WithBrand resolves the brand name per email, typically from the CMS settings row.
func (m *Mailer) WithBrand(brand func(ctx context.Context) string) *Mailer {
	m.brand = brand
	return m
}

func (m *Mailer) brandName(ctx context.Context) string {
	if m.brand == nil {
		return models.DefaultBrandName
	}
	if name := m.brand(ctx); name != "" {
		return name
	}
	return models.DefaultBrandName
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`Dear {{.GuestName}},

Thank you for choosing {{.Brand}}.
We are thrilled to confirm your reservation.

RESERVATION DETAILS
-------------------
Property: {{.Property.Title}}
Location: {{.Property.Location}}

Check-in:  {{.Booking.CheckIn}} (from 15:00)
Check-out: {{.Booking.CheckOut}} (by 11:00)

Confirmation Code: {{.Booking.ID}}
Total Paid: €{{printf "%.2f" .Booking.Amount}}

Next Steps:
You will receive a separate email 24 hours before your arrival containing:
- Electronic Door Codes
- WiFi Credentials
- Google Maps Directions

If you have any special requests, simply reply to this email.

Warm regards,
The {{.Brand}} Team
`))

// SendConfirmation emails the guest their confirmation code and stay details.
func (m *Mailer) SendConfirmation(ctx context.Context, booking *models.BookingRecord, property *models.Property, guestName string) error {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, struct {
		GuestName string
		Brand     string
		Property  *models.Property
		Booking   *models.BookingRecord
	}{guestName, m.brandName(ctx), property, booking})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %v", err)
	}

	subject := fmt.Sprintf("Confirmation: Your stay at %s", property.Title)
	if m.sender == nil {
		m.logger.Info("Email not sent, no SMTP configured",
			"to", booking.GuestEmail,
			"subject", subject,
			"booking_id", booking.ID,
		)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", booking.GuestEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body.String())

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("could not send email to %s: %w", booking.GuestEmail, err)
	}
	m.logger.Info("Confirmation email sent", "to", booking.GuestEmail, "booking_id", booking.ID)
	return nil
}

// send returns when the SMTP exchange finishes or ctx is done, whichever comes first.
// An abandoned exchange runs to completion in the background.
func (m *Mailer) send(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- m.sender.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
