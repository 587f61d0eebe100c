package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"volunteerhub-backend/internal/config"
	"volunteerhub-backend/internal/domain"
	"volunteerhub-backend/internal/logger"
)

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, toName, toEmail, subject, plain, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}
	logger.Debug("Email sent", "to", toEmail, "subject", subject, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendTaskAssignmentEmail(ctx context.Context, p TaskAssignmentEmail) error {
	subject := fmt.Sprintf("Task Assignment: %s", p.TaskTitle)

	plain := fmt.Sprintf(
		"Hi %s,\n\nYou have been assigned the task \"%s\" for %s.\n\n%s\nDeadline: %s\n\nAccept: %s\nDecline: %s\n\nPlease respond by %s.\n",
		p.ToName, p.TaskTitle, p.EventTitle, p.TaskDescription, p.Deadline,
		p.AcceptURL, p.RejectURL, p.ResponseDeadline)

	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have been assigned the task <strong>%s</strong> for <strong>%s</strong>.</p>
		<p>%s</p>
		<p>Deadline: %s</p>
		<p>
			<a href="%s" style="background-color:#22c55e;color:#ffffff;padding:10px 20px;text-decoration:none;border-radius:4px;">Accept</a>
			&nbsp;
			<a href="%s" style="background-color:#ef4444;color:#ffffff;padding:10px 20px;text-decoration:none;border-radius:4px;">Decline</a>
		</p>
		<p>Please respond by %s. After that the invitation expires and the task may be reassigned.</p>`,
		p.ToName, p.TaskTitle, p.EventTitle, p.TaskDescription, p.Deadline,
		p.AcceptURL, p.RejectURL, p.ResponseDeadline)

	return s.send(ctx, p.ToName, p.ToEmail, subject, plain, html)
}

func (s *emailService) SendTaskResponseEmail(ctx context.Context, p TaskResponseEmail) error {
	verb := "accepted"
	if p.Action == domain.ResponseActionReject {
		verb = "declined"
	}
	subject := fmt.Sprintf("Task %s: %s", verb, p.TaskTitle)

	plain := fmt.Sprintf("%s has %s the task \"%s\" for %s.\n",
		p.VolunteerName, verb, p.TaskTitle, p.EventTitle)
	html := fmt.Sprintf("<p><strong>%s</strong> has %s the task <strong>%s</strong> for <strong>%s</strong>.</p>",
		p.VolunteerName, verb, p.TaskTitle, p.EventTitle)

	return s.send(ctx, "", p.ToEmail, subject, plain, html)
}

func (s *emailService) SendResponseReminderEmail(ctx context.Context, toEmail, toName, taskTitle, eventTitle, acceptURL, rejectURL string) error {
	subject := fmt.Sprintf("Reminder: please respond to your task assignment for %s", taskTitle)

	plain := fmt.Sprintf(
		"Hi %s,\n\nYou have not yet responded to your assignment \"%s\" for %s.\n\nAccept: %s\nDecline: %s\n",
		toName, taskTitle, eventTitle, acceptURL, rejectURL)
	html := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have not yet responded to your assignment <strong>%s</strong> for <strong>%s</strong>.</p>
		<p><a href="%s">Accept</a> &nbsp; <a href="%s">Decline</a></p>`,
		toName, taskTitle, eventTitle, acceptURL, rejectURL)

	return s.send(ctx, toName, toEmail, subject, plain, html)
}
