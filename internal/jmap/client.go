package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lightmail/lightmail/internal/models"
)

// Client executes batched method calls against a resolved API endpoint. It
// holds no per-call mutable state and is safe for concurrent use from any
// number of request goroutines.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client whose batch requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ExecuteBatch sends calls as a single request and returns one response per
// call, in submission order. The server may answer in any order, so
// responses are paired with their calls by call id; a response for an
// unknown id, a duplicate response, or a missing response is a protocol
// error. Exactly one attempt is made: methods are not guaranteed idempotent,
// so transport failures are not retried.
func (c *Client) ExecuteBatch(ctx context.Context, endpoint string, creds models.Credentials, calls []MethodCall) ([]MethodResponse, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(calls))
	for i, call := range calls {
		if _, dup := pending[call.CallID]; dup {
			return nil, fmt.Errorf("duplicate call id %q in batch", call.CallID)
		}
		pending[call.CallID] = i
	}

	body, err := json.Marshal(Request{
		Using:       []string{CoreCapability, MailCapability},
		MethodCalls: calls,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(creds.Username, creds.Secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{Reason: fmt.Sprintf("server returned HTTP %d", resp.StatusCode)}
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProtocolError{Reason: fmt.Sprintf("unparseable response body: %v", err)}
	}

	ordered := make([]MethodResponse, len(calls))
	answered := make([]bool, len(calls))
	for _, r := range parsed.MethodResponses {
		i, ok := pending[r.CallID]
		if !ok {
			return nil, &ProtocolError{Reason: fmt.Sprintf("response for unknown call id %q", r.CallID)}
		}
		if answered[i] {
			return nil, &ProtocolError{Reason: fmt.Sprintf("duplicate response for call id %q", r.CallID)}
		}
		answered[i] = true
		ordered[i] = r
	}
	for i, ok := range answered {
		if !ok {
			return nil, &ProtocolError{Reason: fmt.Sprintf("no response for call id %q", calls[i].CallID)}
		}
	}

	return ordered, nil
}
