// Package mailer delivers transactional email through the Postmark HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const postmarkAPIURL = "https://api.postmarkapp.com/email"

// ErrNotConfigured is returned when no server token is set.
var ErrNotConfigured = errors.New("mailer not configured: missing server token")

// Client sends email via Postmark.
type Client struct {
	serverToken string
	fromEmail   string
	apiURL      string
	httpClient  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL points the client at another endpoint.
func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

// NewClient builds a Postmark client.
func NewClient(serverToken, fromEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		apiURL:      postmarkAPIURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
	Tag      string `json:"Tag,omitempty"`
}

// SendPasswordReset mails the reset link to toEmail.
func (c *Client) SendPasswordReset(ctx context.Context, toEmail, resetURL string, expiresIn time.Duration) error {
	minutes := int(expiresIn.Minutes())
	textBody := fmt.Sprintf(
		"We received a request to reset your password.\n\nOpen the link below to choose a new one:\n\n%s\n\nThis link expires in %d minutes. If you did not ask for a reset, ignore this email.",
		resetURL, minutes,
	)
	htmlBody := fmt.Sprintf(
		`<p>We received a request to reset your password.</p><p><a href="%s">Choose a new password</a></p><p>This link expires in %d minutes. If you did not ask for a reset, ignore this email.</p>`,
		resetURL, minutes,
	)

	return c.send(ctx, postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  "Reset your password",
		HtmlBody: htmlBody,
		TextBody: textBody,
		Tag:      "password-reset",
	})
}

func (c *Client) send(ctx context.Context, payload postmarkEmail) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}
	return nil
}
