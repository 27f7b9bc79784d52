package notifier

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/bde-apps/event-booking-api/internal/config"
	"github.com/bde-apps/event-booking-api/internal/models"
)

// MailNotifier emails the booking user on every reservation transition.
type MailNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

func NewMailNotifier(cfg *config.Config) (*MailNotifier, error) {
	host, _, err := net.SplitHostPort(cfg.SMTPAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP address %q: %w", cfg.SMTPAddr, err)
	}
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, host)
	}
	return &MailNotifier{addr: cfg.SMTPAddr, from: cfg.MailFrom, auth: auth}, nil
}

func (n *MailNotifier) NotifyReservation(user models.User, event models.Event, reservation models.Reservation, action Action) error {
	mail := mailyak.New(n.addr, n.auth)
	mail.From(n.from)
	mail.To(user.Email)

	switch action {
	case ReservationCancelled:
		mail.Subject(fmt.Sprintf("Reservation cancelled: %s", event.Title))
		mail.Plain().Set(fmt.Sprintf(
			"Hi %s,\n\nYour reservation %s for %s (%s) has been cancelled.\n",
			user.FirstName, reservation.Code, event.Title, event.Date.Format("2006-01-02")))
	case ReservationUpdated:
		mail.Subject(fmt.Sprintf("Reservation updated: %s", event.Title))
		mail.Plain().Set(fmt.Sprintf(
			"Hi %s,\n\nYour reservation %s for %s has been updated. New price: %s.\n",
			user.FirstName, reservation.Code, event.Title, reservation.Price.StringFixed(2)))
	default:
		mail.Subject(fmt.Sprintf("Reservation confirmed: %s", event.Title))
		mail.Plain().Set(fmt.Sprintf(
			"Hi %s,\n\nYou are booked for %s on %s. Your reservation code is %s. Price: %s.\n",
			user.FirstName, event.Title, event.Date.Format("2006-01-02"), reservation.Code, reservation.Price.StringFixed(2)))
	}

	return mail.Send()
}
