package auth

import (
	"context"
	"errors"
	"log"

	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/models"
	"github.com/lightmail/lightmail/internal/session"
)

var (
	// ErrInvalidCredentials covers both rejected credentials and a
	// discovery document we cannot use. The two are deliberately collapsed:
	// the user-facing outcome never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrServiceUnavailable means the remote mail service could not be
	// reached at all.
	ErrServiceUnavailable = errors.New("mail service unavailable")
)

// Service validates credentials against the remote mail service and mints
// sessions for the ones that check out.
type Service struct {
	discovery *jmap.Discovery
	store     *session.Store
}

func NewService(discovery *jmap.Discovery, store *session.Store) *Service {
	return &Service{discovery: discovery, store: store}
}

// Login resolves the user's discovery resource and, on success, creates a
// session bound to the resolved API endpoint and primary mail account.
// Returns the session id and the session itself.
func (s *Service) Login(ctx context.Context, username, secret string) (string, *session.Session, error) {
	creds := models.Credentials{Username: username, Secret: secret}

	resource, err := s.discovery.Resolve(ctx, creds)
	if err != nil {
		var discoveryErr *jmap.DiscoveryError
		if errors.As(err, &discoveryErr) && discoveryErr.Kind != jmap.DiscoveryUnreachable {
			log.Printf("Auth: Login rejected for %s: %v", username, err)
			return "", nil, ErrInvalidCredentials
		}
		log.Printf("Auth: Discovery unreachable during login for %s: %v", username, err)
		return "", nil, ErrServiceUnavailable
	}

	// Resolve guarantees a primary mail account is present.
	accountID, _ := resource.MailAccountID()

	id := s.store.Create(creds, resource.APIURL, accountID)
	sess, _ := s.store.Get(id)

	log.Printf("Auth: Login successful for %s (account %s)", username, accountID)
	return id, sess, nil
}

// Logout removes the session unconditionally. Unknown ids are a no-op.
func (s *Service) Logout(id string) {
	s.store.Remove(id)
	log.Printf("Auth: Session %s removed", id)
}
