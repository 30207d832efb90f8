// Package notification delivers approval requests to admins by email.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrNotConfigured is returned by the sender built without an API key.
var ErrNotConfigured = errors.New("email sender not configured")

// mailClient is the part of *sendgrid.Client we use.
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier sends approval requests through the SendGrid v3 mail API.
type SendGridNotifier struct {
	client mailClient
	from   *mail.Email
	logger *slog.Logger
}

// NewNotifier returns a SendGrid sender, or a sender that only logs and fails
// with ErrNotConfigured when apiKey is empty.
func NewNotifier(apiKey, fromEmail, fromName string, logger *slog.Logger) portssvc.Notifier {
	if apiKey == "" {
		logger.Warn("SENDGRID_API_KEY not set; approval emails will not be sent")
		return unconfiguredNotifier{logger: logger}
	}
	return newSendGridNotifier(sendgrid.NewSendClient(apiKey), fromEmail, fromName, logger)
}

func newSendGridNotifier(client mailClient, fromEmail, fromName string, logger *slog.Logger) *SendGridNotifier {
	return &SendGridNotifier{
		client: client,
		from:   mail.NewEmail(fromName, fromEmail),
		logger: logger,
	}
}

var _ portssvc.Notifier = (*SendGridNotifier)(nil)

// SendApprovalRequest sends one email with approve and reject links to every recipient.
func (s *SendGridNotifier) SendApprovalRequest(ctx context.Context, n domain.ApprovalNotification) error {
	if len(n.Recipients) == 0 {
		return errors.New("no recipients")
	}
	body, err := renderApprovalEmail(n)
	if err != nil {
		return err
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(s.from)
	msg.Subject = approvalSubject
	p := mail.NewPersonalization()
	for _, to := range n.Recipients {
		p.AddTos(mail.NewEmail("", to))
	}
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/html", body))

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}

	s.logger.InfoContext(ctx, "Approval email sent",
		slog.Int64("pending_id", n.Expense.ID),
		slog.Int("recipients", len(n.Recipients)))
	return nil
}

type unconfiguredNotifier struct {
	logger *slog.Logger
}

func (u unconfiguredNotifier) SendApprovalRequest(ctx context.Context, n domain.ApprovalNotification) error {
	u.logger.WarnContext(ctx, "Approval email skipped", slog.Int64("pending_id", n.Expense.ID))
	return ErrNotConfigured
}
