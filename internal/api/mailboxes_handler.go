package api

import (
	"log"
	"net/http"

	"github.com/lightmail/lightmail/internal/auth"
	"github.com/lightmail/lightmail/internal/mail"
)

type MailboxesHandler struct {
	mailService *mail.Service
}

func NewMailboxesHandler(mailService *mail.Service) *MailboxesHandler {
	return &MailboxesHandler{mailService: mailService}
}

// GetMailboxes returns all mailboxes for the session's account in the order
// the remote service reports them.
func (h *MailboxesHandler) GetMailboxes(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.GetSessionFromContext(r.Context())
	if !ok {
		log.Println("MailboxesHandler: No session in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	mailboxes, err := h.mailService.ListMailboxes(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mailboxes)
}
