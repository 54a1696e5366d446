package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, reference string, total int64) error {
	body := fmt.Sprintf("Hello,\n\nWe received your rental order %s.\n\nTotal: %d\n\nOur staff will review and approve it shortly.\n\nBest regards,\nThe FleetRent Team", reference, total)
	return s.send(email, fmt.Sprintf("Order %s received", reference), body)
}

func (s *emailService) SendOrderStarted(ctx context.Context, email, reference string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental order %s has been approved and is now active.\n\nBest regards,\nThe FleetRent Team", reference)
	return s.send(email, fmt.Sprintf("Order %s approved", reference), body)
}

func (s *emailService) SendOrderCompleted(ctx context.Context, email, reference string, total int64) error {
	body := fmt.Sprintf("Hello,\n\nYour rental order %s is complete. Total charged: %d.\n\nThank you for renting with us.\n\nBest regards,\nThe FleetRent Team", reference, total)
	return s.send(email, fmt.Sprintf("Order %s completed", reference), body)
}

func (s *emailService) SendOrderCancelled(ctx context.Context, email, reference, reason string) error {
	body := fmt.Sprintf("Hello,\n\nYour rental order %s has been cancelled.", reference)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe FleetRent Team"
	return s.send(email, fmt.Sprintf("Order %s cancelled", reference), body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, email, reference string, endAt time.Time) error {
	body := fmt.Sprintf("Hello,\n\nYour rental order %s ended on %s and the vehicle has not been returned yet. Please return it as soon as possible.\n\nBest regards,\nThe FleetRent Team", reference, endAt.Format("2006-01-02"))
	return s.send(email, fmt.Sprintf("Order %s return reminder", reference), body)
}
