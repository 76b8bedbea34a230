package api

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/lightmail/lightmail/internal/auth"
	"github.com/lightmail/lightmail/internal/mail"
)

// defaultEmailPageSize bounds a mailbox listing when the UI sends no limit.
const defaultEmailPageSize = 50

type EmailsHandler struct {
	mailService *mail.Service
}

func NewEmailsHandler(mailService *mail.Service) *EmailsHandler {
	return &EmailsHandler{mailService: mailService}
}

// GetEmails serves GET /api/v1/mailboxes/{mailbox_id}/emails.
func (h *EmailsHandler) GetEmails(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.GetSessionFromContext(r.Context())
	if !ok {
		log.Println("EmailsHandler: No session in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/mailboxes/")
	mailboxID := strings.TrimSuffix(rest, "/emails")
	if mailboxID == "" || mailboxID == rest || strings.Contains(mailboxID, "/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mailbox id is required"})
		return
	}
	if decoded, err := url.PathUnescape(mailboxID); err == nil {
		mailboxID = decoded
	}

	limit := ParseLimitParam(r, defaultEmailPageSize)

	summaries, err := h.mailService.ListEmails(r.Context(), sess, mailboxID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GetEmail serves GET /api/v1/emails/{email_id} and, with the /raw suffix,
// the remote service's untouched JSON object for the message.
func (h *EmailsHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.GetSessionFromContext(r.Context())
	if !ok {
		log.Println("EmailsHandler: No session in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	emailID := strings.TrimPrefix(r.URL.Path, "/api/v1/emails/")
	raw := false
	if trimmed := strings.TrimSuffix(emailID, "/raw"); trimmed != emailID {
		emailID = trimmed
		raw = true
	}
	if emailID == "" || strings.Contains(emailID, "/") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email id is required"})
		return
	}
	if decoded, err := url.PathUnescape(emailID); err == nil {
		emailID = decoded
	}

	if raw {
		body, err := h.mailService.GetEmailRaw(r.Context(), sess, emailID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(body); err != nil {
			log.Printf("EmailsHandler: Failed to write raw email: %v", err)
		}
		return
	}

	detail, err := h.mailService.GetEmail(r.Context(), sess, emailID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
