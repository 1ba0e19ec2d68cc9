// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and loads HTML
// templates from the filesystem to render email bodies.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/icangrow/icangrow-api/internal/config"
)

// Client wraps the Resend client and a logger.
//
// When no API key is configured (local development), sends degrade
// into log lines instead of provider calls.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	var client *resend.Client
	if cfg.Integration.ResendAPIKey != "" {
		client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}

	from := cfg.Integration.EmailFrom
	if from == "" {
		from = "icangrow <onboarding@resend.dev>"
	}

	return &Client{
		client: client,
		from:   from,
		logger: logger,
	}
}

// SendEmail renders an HTML template and sends it via Resend.
//
// Steps:
//   - load templates/emails/<name>.html from disk
//   - execute it with `data`
//   - call the Resend API (or log the email when unconfigured)
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	tmplPath := fmt.Sprintf("%s/%s.html", "templates/emails", templateName)

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	if c.client == nil {
		c.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Str("template", string(templateName)).
			Msg("email provider not configured, skipping send")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
