package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	config "github.com/avatarctic/realestate-crm/configs"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hello {{.UserName}},</p>
  <p>We received a request to reset your {{.ProjectName}} password.</p>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>This link expires in {{.ExpiresIn}}. If you did not ask for a reset you can ignore this email.</p>
</body>
</html>`

// sender is the subset of the SendGrid client the service calls.
type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailService sends transactional email through SendGrid. Without an API key
// it only logs what would have been sent.
type EmailService struct {
	config      *config.EmailConfig
	projectName string
	logger      *logrus.Logger
	client      sender
	templates   map[string]*template.Template
}

// PasswordResetData holds data for the password reset template
type PasswordResetData struct {
	ProjectName string
	UserName    string
	ResetURL    string
	ExpiresIn   string
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig, projectName string, logger *logrus.Logger) (ports.EmailService, error) {
	tmpl, err := template.New("password_reset").Parse(passwordResetTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	svc := &EmailService{
		config:      cfg,
		projectName: projectName,
		logger:      logger,
		templates:   map[string]*template.Template{"password_reset": tmpl},
	}
	if cfg.SendGridAPIKey != "" {
		svc.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return svc, nil
}

// sendEmail sends an email using SendGrid
func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	if e.client == nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
			}).Warn("SendGrid API key not configured; email not sent")
		}
		return nil
	}

	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
			}).WithError(err).Error("Failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid status %d", response.StatusCode)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"to":          to,
			"subject":     subject,
			"status_code": response.StatusCode,
		}).Info("Email sent successfully")
	}
	return nil
}

// renderTemplate renders an email template with the provided data
func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// SendPasswordResetEmail mails the reset link for token to email.
func (e *EmailService) SendPasswordResetEmail(ctx context.Context, email, token, userName string) error {
	data := PasswordResetData{
		ProjectName: e.projectName,
		UserName:    userName,
		ResetURL:    fmt.Sprintf("%s/reset-password?token=%s", e.config.BaseURL, url.QueryEscape(token)),
		ExpiresIn:   e.config.PasswordResetTTL.String(),
	}

	htmlContent, err := e.renderTemplate("password_reset", data)
	if err != nil {
		return fmt.Errorf("failed to render password reset template: %w", err)
	}

	subject := fmt.Sprintf("Reset Your Password - %s", e.projectName)
	return e.sendEmail(email, subject, htmlContent)
}
