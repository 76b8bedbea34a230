package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/lightmail/lightmail/internal/auth"
	"github.com/lightmail/lightmail/internal/session"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginResponse struct {
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

// Login validates the submitted form credentials against the remote mail
// service and, on success, sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("AuthHandler: Failed to parse login form: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form data"})
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password required"})
		return
	}

	id, sess, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "service unavailable"})
		return
	}

	http.SetCookie(w, session.Cookie(id))
	writeJSON(w, http.StatusOK, loginResponse{
		Username:  sess.Username,
		AccountID: sess.AccountID,
	})
}

// Logout removes the session if one exists and clears the cookie. Always
// succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := session.FromRequest(r); ok {
		h.authService.Logout(id)
	}
	http.SetCookie(w, session.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}
