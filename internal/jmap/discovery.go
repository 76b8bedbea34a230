package jmap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lightmail/lightmail/internal/models"
)

const maxDiscoveryRedirects = 5

// Discovery resolves a user's credentials to their session resource: API
// endpoint, capabilities, and primary mail account id. Results are not
// cached; the resource is credential-specific, so every login attempt
// fetches it fresh. Discovery holds no mutable state and is safe for
// concurrent use.
type Discovery struct {
	wellKnownURL string
	httpClient   *http.Client
}

// NewDiscovery creates a Discovery for the given well-known URL. Redirects
// are followed up to maxDiscoveryRedirects, but the Authorization header
// travels only to the origin the URL names: a cross-origin redirect is
// followed without credentials, which keeps them from leaking to a third
// party and in practice surfaces as an unauthorized result.
func NewDiscovery(wellKnownURL string, timeout time.Duration) *Discovery {
	origin, err := url.Parse(wellKnownURL)
	if err != nil {
		origin = nil
	}

	return &Discovery{
		wellKnownURL: wellKnownURL,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxDiscoveryRedirects {
					return fmt.Errorf("stopped after %d redirects", maxDiscoveryRedirects)
				}
				if origin == nil || req.URL.Scheme != origin.Scheme || req.URL.Host != origin.Host {
					req.Header.Del("Authorization")
				}
				return nil
			},
		},
	}
}

// Resolve fetches and parses the well-known discovery resource using the
// given credentials. Failure kinds are distinguished: transport failures
// are DiscoveryUnreachable, rejected credentials are DiscoveryUnauthorized,
// and a response that does not parse or lacks a primary mail account is
// DiscoveryMalformed.
func (d *Discovery) Resolve(ctx context.Context, creds models.Credentials) (*SessionResource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.wellKnownURL, nil)
	if err != nil {
		return nil, &DiscoveryError{Kind: DiscoveryUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(creds.Username, creds.Secret)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &DiscoveryError{Kind: DiscoveryUnreachable, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &DiscoveryError{Kind: DiscoveryUnauthorized, Err: fmt.Errorf("server returned HTTP %d", resp.StatusCode)}
	case resp.StatusCode >= 500:
		return nil, &DiscoveryError{Kind: DiscoveryUnreachable, Err: fmt.Errorf("server returned HTTP %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &DiscoveryError{Kind: DiscoveryMalformed, Err: fmt.Errorf("unexpected HTTP %d", resp.StatusCode)}
	}

	var resource SessionResource
	if err := json.NewDecoder(resp.Body).Decode(&resource); err != nil {
		return nil, &DiscoveryError{Kind: DiscoveryMalformed, Err: fmt.Errorf("failed to parse session resource: %w", err)}
	}

	if resource.APIURL == "" {
		return nil, &DiscoveryError{Kind: DiscoveryMalformed, Err: fmt.Errorf("session resource has no apiUrl")}
	}
	if _, ok := resource.MailAccountID(); !ok {
		return nil, &DiscoveryError{Kind: DiscoveryMalformed, Err: fmt.Errorf("session resource has no primary account for %s", MailCapability)}
	}

	return &resource, nil
}
