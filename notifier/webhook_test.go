package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSenderPostsMessage(t *testing.T) {
	var (
		got    webhookPayload
		idem   string
		method string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		idem = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	msg, err := Render(sample(TemplateEnrollmentConfirmation))
	require.NoError(t, err)

	sender := NewWebhookSender(srv.URL, time.Second)
	require.NoError(t, sender.Send(context.Background(), msg))

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, msg.NotificationID, idem)
	assert.Equal(t, msg.Subject, got.Subject)
	assert.Equal(t, "ada@example.com", got.To.Email)
	assert.Equal(t, TemplateEnrollmentConfirmation, got.Template)
}

func TestWebhookSenderReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	msg, err := Render(sample(TemplateEnrollmentConfirmation))
	require.NoError(t, err)

	err = NewWebhookSender(srv.URL, time.Second).Send(context.Background(), msg)
	assert.ErrorContains(t, err, "status 503")
}
