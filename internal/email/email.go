package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/kafka"
	"github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"
)

const qrSize = 256

// Dialer is the part of gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	dialer Dialer
	from   string
}

func NewSender(cfg config.MailConfig) *Sender {
	return NewSenderWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewSenderWithDialer(dialer Dialer, from string) *Sender {
	return &Sender{dialer: dialer, from: from}
}

// Send mails the guest about event. Events without an address or without a
// template are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return nil
	}
	m, err := s.Compose(event)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s mail for booking %d: %w", event.Type, event.BookingID, err)
	}
	log.Printf("sent %s mail for booking %d to %s", event.Type, event.BookingID, event.Email)
	return nil
}

// Compose renders the message for event, nil when the event type has no mail.
func (s *Sender) Compose(event kafka.BookingEvent) (*gomail.Message, error) {
	tmpl, ok := templates[event.Type]
	if !ok {
		return nil, nil
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, event); err != nil {
		return nil, fmt.Errorf("render %s mail: %w", event.Type, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", event.Email)
	m.SetHeader("Subject", fmt.Sprintf(tmpl.subject, event.BookingID))
	m.SetBody("text/html", body.String())

	if event.Type == kafka.EventBookingConfirmed {
		qr, err := BookingQRCode(event.BookingID, event.CheckIn)
		if err != nil {
			log.Printf("WARNING: qr code for booking %d: %v", event.BookingID, err)
			return m, nil
		}
		filename := fmt.Sprintf("booking_%d.png", event.BookingID)
		m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(qr)
			return err
		}))
	}
	return m, nil
}

// BookingQRCode encodes the booking reference shown at the front desk.
func BookingQRCode(bookingID int64, checkIn string) ([]byte, error) {
	return qrcode.Encode(fmt.Sprintf("booking:%d:%s", bookingID, checkIn), qrcode.Medium, qrSize)
}
