package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
)

// Mailer sends email notifications about analysis outcomes
type Mailer interface {
	SendCriticalIssues(ctx context.Context, result *scoring.AnalysisResult) error
}

// EmailNotifier sends notifications through SendGrid. Disabled
// configuration turns every send into a no-op.
type EmailNotifier struct {
	cfg    config.EmailConfig
	client *sendgrid.Client
	logger *slog.Logger
}

// NewEmailNotifier creates a SendGrid-backed notifier
func NewEmailNotifier(cfg config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		logger: logger,
	}
}

// SendCriticalIssues emails a summary of critical issues found in a
// run. Nothing is sent when notifications are disabled or the run is
// clean.
func (n *EmailNotifier) SendCriticalIssues(ctx context.Context, result *scoring.AnalysisResult) error {
	if !n.cfg.EnabledOnCritical || n.cfg.SendGridAPIKey == "" || n.cfg.ToAddress == "" {
		return nil
	}
	if result.CriticalIssueCount() == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d critical issue(s) found for %s", result.CriticalIssueCount(), result.SiteName)
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromAddress)
	to := mail.NewEmail("", n.cfg.ToAddress)
	message := mail.NewSingleEmail(from, subject, to, n.plainBody(result), "")

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send critical issue email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email with status %d", resp.StatusCode)
	}

	n.logger.Info("Critical issue email sent", "to", n.cfg.ToAddress, "issues", result.CriticalIssueCount())
	return nil
}

func (n *EmailNotifier) plainBody(result *scoring.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business analysis for %s (%s) scored %d/100.\n\n", result.SiteName, result.SiteURL, result.OverallScore)
	b.WriteString("Critical issues:\n\n")
	for _, dept := range scoring.DepartmentOrder {
		for _, issue := range result.Departments[dept].CriticalIssues() {
			fmt.Fprintf(&b, "- [%s] %s\n  %s\n  Action: %s\n\n", dept, issue.Title, issue.Description, issue.Action)
		}
	}
	return b.String()
}
