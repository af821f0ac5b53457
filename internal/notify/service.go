package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/upeo/website-backend/internal/leads"
	"github.com/upeo/website-backend/pkg/logging"
)

// Service sends "new lead" notifications to the firm's staff. Notification
// failures are reported to the caller for logging but must never fail the
// submission that triggered them.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. If email is nil or no recipients
// are configured, notifications are skipped.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// NotifyNewLead emails every configured recipient about the lead.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: email not configured, skipping lead notification")
		return nil
	}

	subject := fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Organization)
	body := formatLeadBody(lead)

	var failed []string
	for _, to := range s.recipients {
		msg := EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: lead email failed", "error", err, "to", to, "lead_id", lead.ID)
			failed = append(failed, to)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify: lead email failed for %s", strings.Join(failed, ", "))
	}

	s.logger.Info("lead notification sent", "lead_id", lead.ID, "recipients", len(s.recipients))
	return nil
}

func formatLeadBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead was submitted through the website.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Organization: %s\n", lead.Organization)
	if lead.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", lead.Role)
	}
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	phone := lead.Phone
	if lead.CountryCode != "" && !strings.HasPrefix(phone, "+") {
		phone = lead.CountryCode + " " + phone
	}
	fmt.Fprintf(&b, "Phone: %s\n", phone)
	fmt.Fprintf(&b, "Interested in: %s\n", lead.InterestedIn)
	if lead.OtherService != "" {
		fmt.Fprintf(&b, "Other service: %s\n", lead.OtherService)
	}
	if lead.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", lead.Budget)
	}
	fmt.Fprintf(&b, "Timeframe: %s\n", lead.Timeframe)
	if lead.FilePath != "" {
		fmt.Fprintf(&b, "Attachment: %s\n", lead.FilePath)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", lead.Message)
	return b.String()
}
