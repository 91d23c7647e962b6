// Package email sends transactional mail through Postmark.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const postmarkURL = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	httpClient  *http.Client
	apiURL      string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithAPIURL overrides the Postmark endpoint, for tests.
func WithAPIURL(url string) Option {
	return func(cl *Client) {
		cl.apiURL = url
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		httpClient:  http.DefaultClient,
		apiURL:      postmarkURL,
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
}

// SendAuthCode sends the 6-digit verification code for login or
// registration.
func (c *Client) SendAuthCode(toEmail, code, purpose string) error {
	var subject string
	switch purpose {
	case "register":
		subject = "Bem-vindo ao Estoque — confirme seu cadastro"
	default:
		subject = "Seu código de acesso ao Estoque"
	}

	textBody := fmt.Sprintf("Seu código de verificação é: %s\n\nEle expira em 15 minutos.", code)
	htmlBody := fmt.Sprintf(
		`<p>Seu código de verificação é:</p><p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p><p>Ele expira em 15 minutos.</p>`,
		code,
	)
	return c.send(toEmail, subject, htmlBody, textBody)
}

// SendInviteLink mails an invite link so the recipient can connect to the
// owner's inventory as a helper.
func (c *Client) SendInviteLink(toEmail, token, ownerName string) error {
	link := fmt.Sprintf("%s/convite/%s", c.baseURL, token)
	subject := fmt.Sprintf("%s convidou você para ajudar no estoque de publicações", ownerName)
	textBody := fmt.Sprintf("Acesse o link abaixo para aceitar o convite:\n\n%s", link)
	htmlBody := fmt.Sprintf(
		`<p>%s convidou você para ajudar no estoque de publicações.</p><p><a href="%s">Aceitar convite</a></p>`,
		ownerName, link,
	)
	return c.send(toEmail, subject, htmlBody, textBody)
}

func (c *Client) send(toEmail, subject, htmlBody, textBody string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewReader(body))
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
