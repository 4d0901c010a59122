package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailChannel delivers notifications to a fixed list of recipients through
// the Resend HTTP API.
type EmailChannel struct {
	client     *resty.Client
	from       string
	recipients []string
}

func NewEmailChannel(baseURL, apiKey, from string, recipients []string) (*EmailChannel, error) {
	if apiKey == "" {
		return nil, errors.New("RESEND_API_KEY is required")
	}
	if from == "" {
		return nil, errors.New("RESEND_FROM_EMAIL is required")
	}
	if len(recipients) == 0 {
		return nil, errors.New("at least one recipient is required")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &EmailChannel{client: client, from: from, recipients: recipients}, nil
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, msg Message) error {
	payload := ResendEmailRequest{
		From:    c.from,
		To:      c.recipients,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	var result ResendEmailResponse
	var apiErr ResendErrorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	if resp.IsError() {
		if apiErr.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode(), apiErr.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	log.Info().Str("emailId", result.ID).Str("subject", msg.Subject).Msg("Successfully sent email via Resend")
	return nil
}
