package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender   `json:"sender"`
	To          []BrevoTo     `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
	ReplyTo     *BrevoReplyTo `json:"replyTo,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BrevoReplyTo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Sender sends transactional emails. Nil = no-op.
type Sender interface {
	SendContactNotification(ctx context.Context, toEmail, fromName, fromEmail, subject, message string) error
	SendApplicationStatus(ctx context.Context, toEmail, applicantName, position, status string) error
	SendWelcome(ctx context.Context, toEmail, firstName string) error
}

// BrevoClient sends emails via the Brevo API (BREVO_API_KEY, MAIL_FROM).
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@nexoratech.in"
}

// send sends one email via Brevo API.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Nexora Technologies"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendContactNotification notifies the operations inbox about a new contact submission.
func (c *BrevoClient) SendContactNotification(ctx context.Context, toEmail, fromName, fromEmail, subject, message string) error {
	if c.APIKey == "" {
		return nil
	}
	if subject == "" {
		subject = "(no subject)"
	}
	content := fmt.Sprintf(`
    <h1>New Contact Submission</h1>
    <p><strong>From:</strong> %s &lt;%s&gt;</p>
    <p><strong>Subject:</strong> %s</p>
    <p>%s</p>
    <p>— Nexora Dashboard</p>
`, EscapeHTML(fromName), EscapeHTML(fromEmail), EscapeHTML(subject), EscapeHTML(message))
	return c.send(ctx, toEmail, "New contact submission: "+subject, EmailLayout(content))
}

// SendApplicationStatus notifies an applicant that their application moved.
func (c *BrevoClient) SendApplicationStatus(ctx context.Context, toEmail, applicantName, position, status string) error {
	if c.APIKey == "" {
		return nil
	}
	if applicantName == "" {
		applicantName = "there"
	}
	content := fmt.Sprintf(`
    <h1>Application Update</h1>
    <p>Hi %s,</p>
    <p>Your application for <strong>%s</strong> at Nexora Technologies has been updated to: <strong>%s</strong>.</p>
    <p>We will reach out if any next steps are needed from your side.</p>
    <p>— The Nexora Team</p>
`, EscapeHTML(applicantName), EscapeHTML(position), EscapeHTML(status))
	return c.send(ctx, toEmail, "Your Nexora application status changed", EmailLayout(content))
}

// SendWelcome sends the welcome email after a dashboard account is created.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, firstName string) error {
	if c.APIKey == "" {
		return nil
	}
	if firstName == "" {
		firstName = "there"
	}
	content := fmt.Sprintf(`
    <h1>Welcome aboard, %s!</h1>
    <p>Your <strong>Nexora Technologies</strong> dashboard account has been created.</p>
    <p>You can now sign in and manage projects, quotations and submissions.</p>
    <p>— The Nexora Team</p>
`, EscapeHTML(firstName))
	return c.send(ctx, toEmail, "Welcome to the Nexora Dashboard", EmailLayout(content))
}
