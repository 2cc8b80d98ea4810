package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailerClient talks to the transactional email provider used for
// manager-invite mail
type MailerClient struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

type MailerConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

type SendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type SendEmailResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

func NewMailerClient(cfg MailerConfig) *MailerClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &MailerClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		sender:  cfg.Sender,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendInvite emails a manager invitation with its accept code
func (mc *MailerClient) SendInvite(to, operatorName, inviteCode string, expiresAt time.Time) error {
	body := fmt.Sprintf(
		"%s has invited you to help manage their parking spaces on EPark.\n\n"+
			"Your invite code is: %s\n\n"+
			"The invite expires on %s.",
		operatorName, inviteCode, expiresAt.Format("2 Jan 2006"))

	return mc.send(SendEmailRequest{
		From:    mc.sender,
		To:      to,
		Subject: "You have been invited to manage parking spaces",
		Body:    body,
	})
}

func (mc *MailerClient) send(req SendEmailRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, mc.baseURL+"/v1/messages", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if mc.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+mc.apiKey)
	}

	resp, err := mc.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}

	var sendResp SendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return fmt.Errorf("failed to decode mailer response: %w", err)
	}

	if !sendResp.Success {
		return fmt.Errorf("mailer rejected message")
	}

	return nil
}
