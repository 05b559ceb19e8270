package mailer

import (
	"fmt"
	"html"

	"ticket-marketplace-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBookingConfirmation(toEmail string, data BookingEmail) error
	SendNotification(toEmail, title, message string) error
}

// BookingEmail is the data rendered into the confirmation email.
type BookingEmail struct {
	FullName   string
	EventTitle string
	Venue      string
	StartsAt   string
	Quantity   int
	Total      string
	BookingId  string
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	if s.dialer.Host == "" {
		s.logger.Warn("MAILER", "SMTP not configured, skipping email", map[string]interface{}{"to": toEmail, "subject": subject})
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send email", map[string]interface{}{"to": toEmail, "subject": subject, "error": err.Error()})
		return err
	}
	s.logger.Info("MAILER", "Email sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}

func (s *emailService) SendBookingConfirmation(toEmail string, data BookingEmail) error {
	link := fmt.Sprintf("%s/bookings/%s", s.frontendURL, data.BookingId)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>You're going to %s!</h2>
			<p>Hi %s, your booking is confirmed.</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;">Venue</td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Starts</td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Tickets</td><td>%d</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;">Total paid</td><td>%s</td></tr>
			</table>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View booking</a></p>
		</div>
	`, html.EscapeString(data.EventTitle), html.EscapeString(data.FullName), html.EscapeString(data.Venue),
		html.EscapeString(data.StartsAt), data.Quantity, html.EscapeString(data.Total), link)

	return s.send(toEmail, "Booking confirmed: "+data.EventTitle, body)
}

func (s *emailService) SendNotification(toEmail, title, message string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
			<p><a href="%s/notifications">Open notifications</a></p>
		</div>
	`, html.EscapeString(title), html.EscapeString(message), s.frontendURL)

	return s.send(toEmail, title, body)
}
