package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduassist/internal/config"
	"eduassist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndFormatPhone(t *testing.T) {
	assert.Equal(t, "84912345678", NormalizePhone("0912 345 678"))
	assert.Equal(t, "84912345678", NormalizePhone("+84-912-345-678"))
	assert.Equal(t, "", NormalizePhone("n/a"))
	assert.Equal(t, "0912345678", FormatPhone("84912345678"))
	assert.Equal(t, "0912345678", FormatPhone("0912345678"))
}

func TestESMSNotifier_Send(t *testing.T) {
	var query map[string][]string
	code := "100"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_ = json.NewEncoder(w).Encode(esmsResponse{CodeResult: code, SMSID: "abc"})
	}))
	defer server.Close()

	n := NewESMSNotifier(config.SMSConfig{
		BaseURL:   server.URL,
		APIKey:    "key",
		SecretKey: "secret",
		BrandName: "Baotrixemay",
	}, server.Client())

	err := n.Send(context.Background(), domain.Notification{To: "0912345678", Body: "Em An vắng mặt"})
	require.NoError(t, err)
	assert.Equal(t, "84912345678", query["Phone"][0])
	assert.Equal(t, "Em An vắng mặt", query["Content"][0])
	assert.Equal(t, "2", query["SmsType"][0])
	assert.Equal(t, "1", query["IsUnicode"][0])
	assert.Equal(t, "Baotrixemay", query["Brandname"][0])

	code = "99"
	err = n.Send(context.Background(), domain.Notification{To: "0912345678", Body: "x"})
	assert.True(t, domain.IsCode(err, domain.CodeTransportFailure))
}

func TestESMSNotifier_Validation(t *testing.T) {
	n := NewESMSNotifier(config.SMSConfig{}, nil)
	err := n.Send(context.Background(), domain.Notification{To: "0912345678"})
	assert.True(t, domain.IsCode(err, domain.CodeConfigurationMissing))

	n = NewESMSNotifier(config.SMSConfig{APIKey: "k", SecretKey: "s"}, nil)
	err = n.Send(context.Background(), domain.Notification{To: ""})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}

func TestSendgridNotifier_Send(t *testing.T) {
	var body map[string]interface{}
	var auth string
	status := http.StatusAccepted
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.WriteHeader(status)
	}))
	defer server.Close()

	n := NewSendgridNotifier(config.EmailConfig{
		SendgridAPIKey: "SG.key",
		FromName:       "EduAssist",
		FromAddress:    "no-reply@eduassist.local",
		SubjectPrefix:  "[EduAssist] ",
	})
	n.host = server.URL

	err := n.Send(context.Background(), domain.Notification{
		RecipientName: "Phụ huynh An",
		To:            "parent@example.com",
		Subject:       "Thông báo vắng mặt",
		Body:          "Em An vắng mặt hôm nay",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer SG.key", auth)

	personalizations := body["personalizations"].([]interface{})
	first := personalizations[0].(map[string]interface{})
	assert.Equal(t, "[EduAssist] Thông báo vắng mặt", first["subject"])

	status = http.StatusUnauthorized
	err = n.Send(context.Background(), domain.Notification{To: "parent@example.com", Body: "x"})
	assert.True(t, domain.IsCode(err, domain.CodeTransportFailure))
}

func TestSendgridNotifier_Validation(t *testing.T) {
	n := NewSendgridNotifier(config.EmailConfig{})
	err := n.Send(context.Background(), domain.Notification{To: "a@b.c"})
	assert.True(t, domain.IsCode(err, domain.CodeConfigurationMissing))

	n = NewSendgridNotifier(config.EmailConfig{SendgridAPIKey: "k"})
	err = n.Send(context.Background(), domain.Notification{})
	assert.True(t, domain.IsCode(err, domain.CodeInvalidInput))
}

func TestConsoleNotifier(t *testing.T) {
	n := NewConsoleNotifier(domain.ChannelEmail)
	require.NoError(t, n.Send(context.Background(), domain.Notification{To: "a@b.c", Body: "hi"}))
	assert.Error(t, n.Send(context.Background(), domain.Notification{}))
	assert.Len(t, n.Sent(), 1)
	assert.Equal(t, domain.ChannelEmail, n.Channel())
}
