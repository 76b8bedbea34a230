package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lightmail/lightmail/internal/auth"
	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/mail"
	"github.com/lightmail/lightmail/internal/models"
	"github.com/lightmail/lightmail/internal/session"
	"github.com/lightmail/lightmail/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmailsHandler(t *testing.T) (*EmailsHandler, *session.Session, *testutil.FakeJMAPServer) {
	t.Helper()

	fake := testutil.NewFakeJMAPServer(t)
	sess := &session.Session{
		ID:          "test-session",
		Credentials: models.Credentials{Username: fake.Username, Secret: fake.Password},
		Endpoint:    fake.APIURL(),
		AccountID:   fake.AccountID,
	}
	return NewEmailsHandler(mail.NewService(jmap.NewClient(5 * time.Second))), sess, fake
}

func requestWithSession(method, target string, sess *session.Session) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(r.Context(), auth.SessionKey, sess)
	return r.WithContext(ctx)
}

func TestEmailsHandlerGetEmails(t *testing.T) {
	handler, sess, fake := newTestEmailsHandler(t)
	fake.AddEmail(map[string]any{
		"id":         "m1",
		"mailboxIds": map[string]any{"inbox": true},
		"subject":    "Hello",
		"receivedAt": "2026-08-01T08:00:00Z",
	})

	t.Run("lists emails for the mailbox", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmails(w, requestWithSession(http.MethodGet, "/api/v1/mailboxes/inbox/emails", sess))

		require.Equal(t, http.StatusOK, w.Code)

		var summaries []models.EmailSummary
		require.NoError(t, json.NewDecoder(w.Body).Decode(&summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "m1", summaries[0].ID)
		assert.Equal(t, "Hello", summaries[0].Subject)
	})

	t.Run("missing mailbox id yields 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmails(w, requestWithSession(http.MethodGet, "/api/v1/mailboxes//emails", sess))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no session in context yields 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmails(w, httptest.NewRequest(http.MethodGet, "/api/v1/mailboxes/inbox/emails", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEmailsHandlerGetEmail(t *testing.T) {
	handler, sess, fake := newTestEmailsHandler(t)
	fake.AddEmail(map[string]any{
		"id":         "m1",
		"mailboxIds": map[string]any{"inbox": true},
		"subject":    "Hello",
		"receivedAt": "2026-08-01T08:00:00Z",
		"textBody":   []map[string]any{{"partId": "1", "type": "text/plain"}},
		"bodyValues": map[string]any{"1": map[string]any{"value": "body text"}},
	})

	t.Run("returns the email detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmail(w, requestWithSession(http.MethodGet, "/api/v1/emails/m1", sess))

		require.Equal(t, http.StatusOK, w.Code)

		var detail models.EmailDetail
		require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
		assert.Equal(t, "m1", detail.ID)
		assert.Equal(t, "body text", detail.BodyText)
	})

	t.Run("raw suffix returns the remote object untouched", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmail(w, requestWithSession(http.MethodGet, "/api/v1/emails/m1/raw", sess))

		require.Equal(t, http.StatusOK, w.Code)

		var object map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&object))
		assert.Equal(t, "m1", object["id"])
		_, hasWireField := object["receivedAt"]
		assert.True(t, hasWireField, "raw response must carry the wire fields")
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetEmail(w, requestWithSession(http.MethodGet, "/api/v1/emails/missing", sess))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("remote failure yields 502", func(t *testing.T) {
		fake.FailMethods["Email/get"] = "serverFail"
		defer delete(fake.FailMethods, "Email/get")

		w := httptest.NewRecorder()
		handler.GetEmail(w, requestWithSession(http.MethodGet, "/api/v1/emails/m1", sess))
		assert.Equal(t, http.StatusBadGateway, w.Code)

		var body errorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "serverFail", body.Error)
	})
}

func TestParseLimitParam(t *testing.T) {
	t.Run("parses a valid limit", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
		assert.Equal(t, 10, ParseLimitParam(r, 50))
	})

	t.Run("falls back on missing or invalid limits", func(t *testing.T) {
		for _, target := range []string{"/", "/?limit=abc", "/?limit=0", "/?limit=-3"} {
			r := httptest.NewRequest(http.MethodGet, target, nil)
			assert.Equal(t, 50, ParseLimitParam(r, 50), "target %s", target)
		}
	})
}
