// Package otp delivers and checks phone verification codes through Twilio
// Verify. The Verifier interface is what the auth service depends on.
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier sends and checks one-time codes for E.164 phone numbers.
type Verifier interface {
	SendVerification(ctx context.Context, phoneE164 string) error
	CheckVerification(ctx context.Context, phoneE164, code string) (bool, error)
}

const verifyBaseURL = "https://verify.twilio.com/v2/Services"

type TwilioClient struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	serviceSID string
}

func NewTwilioClient(accountSID, authToken, serviceSID string) *TwilioClient {
	return &TwilioClient{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    verifyBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		serviceSID: serviceSID,
	}
}

// SendVerification asks Twilio to deliver an SMS code to phoneE164, which
// must already be a normalized E.164 number.
func (t *TwilioClient) SendVerification(ctx context.Context, phoneE164 string) error {
	form := url.Values{}
	form.Set("To", phoneE164)
	form.Set("Channel", "sms")

	status, body, err := t.post(ctx, fmt.Sprintf("%s/%s/Verifications", t.baseURL, t.serviceSID), form)
	if err != nil {
		return fmt.Errorf("twilio send request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("twilio send error %d: %s", status, body)
	}
	return nil
}

// CheckVerification verifies a code. Twilio reports success either as
// status "approved" or with a true "valid" flag.
func (t *TwilioClient) CheckVerification(ctx context.Context, phoneE164, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phoneE164)
	form.Set("Code", code)

	status, body, err := t.post(ctx, fmt.Sprintf("%s/%s/VerificationCheck", t.baseURL, t.serviceSID), form)
	if err != nil {
		return false, fmt.Errorf("twilio check request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return false, fmt.Errorf("twilio check error %d: %s", status, body)
	}

	var result struct {
		Status string `json:"status"`
		Valid  bool   `json:"valid"`
	}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return false, fmt.Errorf("twilio check response parse error: %w", err)
	}
	return result.Status == "approved" || result.Valid, nil
}

func (t *TwilioClient) post(ctx context.Context, endpoint string, form url.Values) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}
