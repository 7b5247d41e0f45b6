// Package mailer relays contact-form messages through an HTTP mail API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailAddress `json:"email_address"`
}

type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HTMLBody string        `json:"htmlbody"`
}

// Mailer posts messages to a ZeptoMail-compatible API.
type Mailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// New returns a Mailer, or nil when the API settings are incomplete.
func New(apiURL, apiKey, from string) *Mailer {
	if apiURL == "" || apiKey == "" || from == "" {
		return nil
	}
	return &Mailer{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one HTML email to the mail API.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := emailRequest{
		From:     emailAddress{Address: m.from},
		To:       []toRecipient{{Email: emailAddress{Address: to}}},
		Subject:  subject,
		HTMLBody: htmlBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail api responded %d", resp.StatusCode)
	}
	return nil
}

var _ Sender = (*Mailer)(nil)
