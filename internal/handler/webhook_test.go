package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-fashion/sales-agent/internal/messenger"
	"github.com/urban-fashion/sales-agent/internal/model"
)

func (ts *testServer) postWebhook(t *testing.T, body string, sign bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		req.Header.Set(messenger.SignatureHeader, messenger.Sign(testAppSecret, []byte(body)))
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_VerifyChallenge(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/webhook?hub.mode=subscribe&hub.verify_token="+testVerifyToken+"&hub.challenge=12345", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	rec = ts.do(t, http.MethodGet, "/api/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/webhook?hub.verify_token="+testVerifyToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhook_ReceiveMessage(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"page","entry":[{"id":"page-1","time":1,"messaging":[
		{"sender":{"id":"psid-1"},"recipient":{"id":"page-1"},"timestamp":1,"message":{"mid":"m1","text":"Namaste"}}
	]}]}`

	rec := ts.postWebhook(t, body, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	conv, err := ts.conversations.FindByCustomer(context.Background(), "psid-1")
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, []string{"Namaste! K herna mann chha?"}, ts.messenger.sent())
}

func TestWebhook_SameCustomerEventsInOneDelivery(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"page","entry":[{"id":"page-1","time":1,"messaging":[
		{"sender":{"id":"psid-1"},"message":{"mid":"m1","text":"Namaste"}},
		{"sender":{"id":"psid-1"},"message":{"mid":"m2","text":"Kurta chha?"}}
	]}]}`

	rec := ts.postWebhook(t, body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	conv, err := ts.conversations.FindByCustomer(context.Background(), "psid-1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, "Namaste", conv.Messages[0].Text)
	assert.Equal(t, "Kurta chha?", conv.Messages[2].Text)
}

func TestWebhook_DeliveryOrderPerCustomer(t *testing.T) {
	body := `{"object":"page","entry":[{"id":"page-1","messaging":[
		{"sender":{"id":"psid-a"},"message":{"mid":"a1","text":"first"}},
		{"sender":{"id":"psid-b"},"message":{"mid":"b1","text":"first"}},
		{"sender":{"id":"psid-a"},"message":{"mid":"a2","text":"second"}}
	]},{"id":"page-1","messaging":[
		{"sender":{"id":"psid-b"},"message":{"mid":"b2","text":"second"}},
		{"sender":{"id":"psid-a"},"message":{"mid":"a3","text":"third"}}
	]}]}`

	for i := 0; i < 20; i++ {
		ts := newTestServer(t)
		rec := ts.postWebhook(t, body, true)
		require.Equal(t, http.StatusOK, rec.Code)

		a, err := ts.conversations.FindByCustomer(context.Background(), "psid-a")
		require.NoError(t, err)
		require.Len(t, a.Messages, 6)
		assert.Equal(t, "first", a.Messages[0].Text)
		assert.Equal(t, "second", a.Messages[2].Text)
		assert.Equal(t, "third", a.Messages[4].Text)

		b, err := ts.conversations.FindByCustomer(context.Background(), "psid-b")
		require.NoError(t, err)
		require.Len(t, b.Messages, 4)
		assert.Equal(t, "first", b.Messages[0].Text)
		assert.Equal(t, "second", b.Messages[2].Text)
	}
}

func TestGroupBySender(t *testing.T) {
	payload := model.WebhookPayload{
		Object: "page",
		Entry: []model.WebhookEntry{
			{Messaging: []model.MessagingEvent{
				{Sender: model.Participant{ID: "a"}, Message: &model.InboundMessage{Text: "a1"}},
				{Sender: model.Participant{ID: "b"}, Message: &model.InboundMessage{Text: "b1"}},
			}},
			{Messaging: []model.MessagingEvent{
				{Sender: model.Participant{ID: "a"}, Message: &model.InboundMessage{Text: "a2"}},
			}},
		},
	}

	groups := groupBySender(payload)
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2)
	assert.Equal(t, "a1", groups[0][0].Message.Text)
	assert.Equal(t, "a2", groups[0][1].Message.Text)
	require.Len(t, groups[1], 1)
	assert.Equal(t, "b1", groups[1][0].Message.Text)
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"page","entry":[],"pad":"` + strings.Repeat("x", maxWebhookBody) + `"}`

	rec := ts.postWebhook(t, body, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWebhook_MediaQueued(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"page","entry":[{"messaging":[
		{"sender":{"id":"psid-1"},"message":{"mid":"m1","attachments":[{"type":"image","payload":{"url":"https://cdn/pay.png"}}]}}
	]}]}`

	rec := ts.postWebhook(t, body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	pending, err := ts.media.List(context.Background(), model.MediaStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Empty(t, ts.messenger.sent())
}

func TestWebhook_SignatureRequired(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"page","entry":[]}`

	rec := ts.postWebhook(t, body, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewBufferString(body))
	req.Header.Set(messenger.SignatureHeader, messenger.Sign("wrong-secret", []byte(body)))
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhook_MalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postWebhook(t, `{"object":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_NonPageObjectIgnored(t *testing.T) {
	ts := newTestServer(t)
	body := `{"object":"instagram","entry":[{"messaging":[{"sender":{"id":"psid-1"},"message":{"text":"hi"}}]}]}`

	rec := ts.postWebhook(t, body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := ts.conversations.FindByCustomer(context.Background(), "psid-1")
	assert.Error(t, err)
}
