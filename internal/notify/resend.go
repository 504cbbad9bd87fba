package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/resend/resend-go/v2"
)

const resendRequestTimeout = 10 * time.Second

const freeWashSubject = "Your next wash is on us!"

var freeWashHTML = template.Must(template.New("free-wash").Parse(
	`<p>Hi {{.Name}},</p><p>You have collected {{.Threshold}} washes. Your next wash is free, just mention it at the counter.</p>`,
))

// ResendMailer sends notifications through Resend email API
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(httpClient *http.Client, baseURL string, apiKey string, from string) (*ResendMailer, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: resendRequestTimeout}
	}

	client := resend.NewCustomClient(httpClient, apiKey)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url %q - %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &ResendMailer{client: client, from: from}, nil
}

func (m *ResendMailer) FreeWashEarned(ctx context.Context, c *model.Customer) error {
	if c.Email == "" {
		return nil
	}

	var html bytes.Buffer
	err := freeWashHTML.Execute(&html, struct {
		Name      string
		Threshold int
	}{Name: c.Name, Threshold: model.FreeWashThreshold})
	if err != nil {
		return fmt.Errorf("failed to render free wash email - %w", err)
	}

	_, err = m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{c.Email},
		Subject: freeWashSubject,
		Html:    html.String(),
		Text:    fmt.Sprintf("Hi %s, you have collected %d washes. Your next wash is free!", c.Name, model.FreeWashThreshold),
	})
	if err != nil {
		return fmt.Errorf("failed to send free wash email - %w", err)
	}
	return nil
}
