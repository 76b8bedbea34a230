package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lightmail/lightmail/internal/api"
	"github.com/lightmail/lightmail/internal/auth"
	"github.com/lightmail/lightmail/internal/config"
	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/mail"
	"github.com/lightmail/lightmail/internal/session"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server := NewServer(cfg)

	address := ":" + cfg.Port
	log.Printf("Lightmail backend server starting on %s (environment: %s)", address, cfg.Environment)
	log.Printf("JMAP well-known URL: %s", cfg.WellKnownURL)

	if err := http.ListenAndServe(address, server); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// NewServer creates and returns a new HTTP handler for the Lightmail API
// server. The session store is the only state shared across requests; it is
// constructed once here and handed to every component that needs it.
func NewServer(cfg *config.Config) http.Handler {
	store := session.NewStore()
	discovery := jmap.NewDiscovery(cfg.WellKnownURL, cfg.RequestTimeout)
	client := jmap.NewClient(cfg.RequestTimeout)

	authService := auth.NewService(discovery, store)
	mailService := mail.NewService(client)

	authHandler := api.NewAuthHandler(authService)
	mailboxesHandler := api.NewMailboxesHandler(mailService)
	emailsHandler := api.NewEmailsHandler(mailService)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)

	mux.Handle("/api/v1/login", postOnly(http.HandlerFunc(authHandler.Login)))
	mux.Handle("/api/v1/logout", postOnly(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("/api/v1/mailboxes", auth.RequireSession(store, http.HandlerFunc(mailboxesHandler.GetMailboxes)))
	// Handles /api/v1/mailboxes/{mailbox_id}/emails.
	mux.Handle("/api/v1/mailboxes/", auth.RequireSession(store, http.HandlerFunc(emailsHandler.GetEmails)))
	// Handles /api/v1/emails/{email_id} and /api/v1/emails/{email_id}/raw.
	mux.Handle("/api/v1/emails/", auth.RequireSession(store, http.HandlerFunc(emailsHandler.GetEmail)))

	return mux
}

func postOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Lightmail API is running")
}
