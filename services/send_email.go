package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for the Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from the Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from the Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendSink delivers notifications as email through the Resend API. It
// implements NotificationSink; send failures are returned to the notifier
// for per-recipient logging and go no further.
type ResendSink struct {
	apiKey    string
	fromEmail string
	client    *http.Client
	logger    zerolog.Logger
}

func NewResendSink(apiKey, fromEmail string) *ResendSink {
	return &ResendSink{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    log.With().Str("service", "resendSink").Logger(),
	}
}

// Send renders the template kind for the payload and posts it to Resend.
func (s *ResendSink) Send(ctx context.Context, toEmail, templateKind string, payload NotificationPayload) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not configured")
	}
	if s.fromEmail == "" {
		return fmt.Errorf("RESEND_FROM_EMAIL is not configured")
	}

	subject, body, err := renderTemplate(templateKind, payload)
	if err != nil {
		return err
	}

	request := ResendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Html:    body,
	}
	jsonPayload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		s.logger.Info().Str("emailId", emailResponse.ID).Str("to", toEmail).Msg("Successfully sent email via Resend")
	}

	return nil
}

func renderTemplate(templateKind string, p NotificationPayload) (subject, body string, err error) {
	switch templateKind {
	case TemplateProjectCompleted:
		subject = fmt.Sprintf("Project Completed: %s", p.ProjectTitle)
		body = fmt.Sprintf(
			`<h2>Project Completed</h2>
<p><strong>%s</strong> (%s) has been marked as completed.</p>
<table>
<tr><td>Client</td><td>%s</td></tr>
<tr><td>Timeline</td><td>%s &ndash; %s</td></tr>
<tr><td>Progress</td><td>%d%%</td></tr>
<tr><td>Assigned by</td><td>%s</td></tr>
<tr><td>Assigned to</td><td>%s (%s)</td></tr>
</table>`,
			html.EscapeString(p.ProjectTitle),
			html.EscapeString(p.ProjectCode),
			html.EscapeString(p.Client),
			html.EscapeString(p.StartDate),
			html.EscapeString(p.EndDate),
			p.Progress,
			html.EscapeString(p.AssignerName),
			html.EscapeString(p.AssigneeName),
			html.EscapeString(p.AssigneeCode),
		)
		return subject, body, nil
	default:
		return "", "", fmt.Errorf("unknown notification template %q", templateKind)
	}
}
