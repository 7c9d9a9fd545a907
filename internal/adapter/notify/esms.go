package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"eduassist/internal/config"
	"eduassist/internal/domain"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone converts a local Vietnamese number (0xxxxxxxxx) to the
// international form 84xxxxxxxxx expected by eSMS.
func NormalizePhone(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "84" + cleaned[1:]
	}
	return cleaned
}

// FormatPhone is the display form of a stored number.
func FormatPhone(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "84") {
		cleaned = "0" + cleaned[2:]
	}
	return cleaned
}

type esmsResponse struct {
	CodeResult   string `json:"CodeResult"`
	ErrorMessage string `json:"ErrorMessage"`
	SMSID        string `json:"SMSID"`
}

// ESMSNotifier sends SMS through the eSMS.vn REST API.
type ESMSNotifier struct {
	baseURL   string
	apiKey    string
	secretKey string
	brandName string
	client    *http.Client
}

var _ domain.Notifier = (*ESMSNotifier)(nil)

func NewESMSNotifier(cfg config.SMSConfig, client *http.Client) *ESMSNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &ESMSNotifier{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		brandName: cfg.BrandName,
		client:    client,
	}
}

func (e *ESMSNotifier) Channel() domain.Channel {
	return domain.ChannelSMS
}

func (e *ESMSNotifier) Send(ctx context.Context, n domain.Notification) error {
	if e.apiKey == "" || e.secretKey == "" {
		return domain.NewConfigurationMissingError("eSMS credentials are not configured")
	}
	phone := NormalizePhone(n.To)
	if phone == "" {
		return domain.NewInvalidInputError("SMS notification requires a phone number")
	}

	params := url.Values{}
	params.Set("ApiKey", e.apiKey)
	params.Set("SecretKey", e.secretKey)
	params.Set("Phone", phone)
	params.Set("Content", n.Body)
	params.Set("SmsType", "2")
	params.Set("Brandname", e.brandName)
	params.Set("IsUnicode", "1")
	params.Set("Sandbox", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.NewTransportFailureError("building SMS request failed", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.NewTransportFailureError("sending SMS failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewTransportFailureError("sending SMS failed",
			fmt.Errorf("esms status %d", resp.StatusCode)).
			WithContext("status", resp.StatusCode)
	}

	var result esmsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.NewTransportFailureError("reading SMS response failed", err)
	}
	if result.CodeResult != "100" {
		return domain.NewTransportFailureError("SMS was rejected by the provider",
			fmt.Errorf("esms code %s: %s", result.CodeResult, result.ErrorMessage)).
			WithContext("code_result", result.CodeResult)
	}
	return nil
}
