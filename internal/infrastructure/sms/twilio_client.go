// Package sms implementa el puerto SMSSender contra la API REST de Twilio.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/ServiCampo-api/internal/application/ports"
)

var _ ports.SMSSender = (*TwilioClient)(nil)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioClient adaptador de SMS salientes (recordatorios de visita).
// Usa net/http directo contra el endpoint Messages; no requiere el SDK.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string // E.164
	httpClient *http.Client
}

// NewTwilioClient construye el adaptador.
func NewTwilioClient(accountSID, authToken, fromNumber string) *TwilioClient {
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send envía un SMS. to en E.164.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	if c.accountSID == "" || c.authToken == "" {
		return fmt.Errorf("sms: Twilio no configurado")
	}
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, c.accountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: crear HTTP request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	var terr twilioError
	if err := json.Unmarshal(raw, &terr); err == nil && terr.Message != "" {
		return fmt.Errorf("sms: Twilio %d (código %d): %s", resp.StatusCode, terr.Code, terr.Message)
	}
	return fmt.Errorf("sms: Twilio respondió HTTP %d", resp.StatusCode)
}
