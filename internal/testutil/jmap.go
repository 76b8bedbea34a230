package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// FakeJMAPServer is an in-process stand-in for a remote JMAP mail service.
// It serves a session resource at a well-known path and a scripted API
// endpoint that understands Mailbox/get, Email/query, and Email/get,
// including server-side resolution of "#"-prefixed result references.
type FakeJMAPServer struct {
	Server    *httptest.Server
	Username  string
	Password  string
	AccountID string

	// FailMethods maps a method name to a JMAP error type; matching calls
	// get an error response instead of a result.
	FailMethods map[string]string

	mu        sync.Mutex
	mailboxes []map[string]any
	emails    []map[string]any
	requests  [][]byte
}

// NewFakeJMAPServer starts a fake JMAP server. It accepts exactly one set
// of Basic auth credentials and is shut down automatically when the test
// finishes.
func NewFakeJMAPServer(t *testing.T) *FakeJMAPServer {
	t.Helper()

	f := &FakeJMAPServer{
		Username:    "user@example.com",
		Password:    "secret",
		AccountID:   "account-1",
		FailMethods: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jmap", f.handleSession)
	mux.HandleFunc("/api", f.handleAPI)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// WellKnownURL returns the discovery URL of the fake server.
func (f *FakeJMAPServer) WellKnownURL() string {
	return f.Server.URL + "/.well-known/jmap"
}

// APIURL returns the batch endpoint of the fake server.
func (f *FakeJMAPServer) APIURL() string {
	return f.Server.URL + "/api"
}

// AddMailbox registers a mailbox object to be served by Mailbox/get, in
// insertion order.
func (f *FakeJMAPServer) AddMailbox(mailbox map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mailboxes = append(f.mailboxes, mailbox)
}

// AddEmail registers an email object to be served by Email/query and
// Email/get. The object should carry at least "id", "mailboxIds", and
// "receivedAt" (RFC 3339).
func (f *FakeJMAPServer) AddEmail(email map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, email)
}

// Requests returns the raw bodies of all batch requests received so far.
func (f *FakeJMAPServer) Requests() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.requests...)
}

func (f *FakeJMAPServer) authorized(r *http.Request) bool {
	username, password, ok := r.BasicAuth()
	return ok && username == f.Username && password == f.Password
}

func (f *FakeJMAPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"username": f.Username,
		"apiUrl":   f.APIURL(),
		"capabilities": map[string]any{
			"urn:ietf:params:jmap:core": map[string]any{},
			"urn:ietf:params:jmap:mail": map[string]any{},
		},
		"primaryAccounts": map[string]string{
			"urn:ietf:params:jmap:mail": f.AccountID,
		},
		"state": "fake-state-1",
	})
}

func (f *FakeJMAPServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, body)
	f.mu.Unlock()

	var request struct {
		Using       []string            `json:"using"`
		MethodCalls [][]json.RawMessage `json:"methodCalls"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Results of earlier calls in this batch, keyed by call id, for
	// resolving result references.
	results := make(map[string]map[string]any)
	names := make(map[string]string)

	var responses []any
	for _, tuple := range request.MethodCalls {
		if len(tuple) != 3 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var name, callID string
		var args map[string]any
		if err := json.Unmarshal(tuple[0], &name); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(tuple[1], &args); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := json.Unmarshal(tuple[2], &callID); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		if errType, fail := f.FailMethods[name]; fail {
			responses = append(responses, []any{"error", map[string]any{"type": errType}, callID})
			continue
		}

		if err := resolveReferences(args, results, names); err != nil {
			responses = append(responses, []any{"error", map[string]any{
				"type":        "invalidResultReference",
				"description": err.Error(),
			}, callID})
			continue
		}

		var result map[string]any
		switch name {
		case "Mailbox/get":
			result = f.mailboxGet()
		case "Email/query":
			result = f.emailQuery(args)
		case "Email/get":
			result = f.emailGet(args)
		default:
			responses = append(responses, []any{"error", map[string]any{"type": "unknownMethod"}, callID})
			continue
		}

		results[callID] = result
		names[callID] = name
		responses = append(responses, []any{name, result, callID})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"methodResponses": responses,
		"sessionState":    "fake-state-1",
	})
}

// resolveReferences replaces "#"-prefixed arguments with the value at the
// referenced call's result path. Only the simple map-key paths used by mail
// clients are supported.
func resolveReferences(args map[string]any, results map[string]map[string]any, names map[string]string) error {
	for key, value := range args {
		if !strings.HasPrefix(key, "#") {
			continue
		}

		ref, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("argument %s is not a result reference", key)
		}
		resultOf, _ := ref["resultOf"].(string)
		name, _ := ref["name"].(string)
		path, _ := ref["path"].(string)

		result, ok := results[resultOf]
		if !ok || names[resultOf] != name {
			return fmt.Errorf("no prior call %q (%s)", resultOf, name)
		}

		resolved, err := walkPath(result, path)
		if err != nil {
			return err
		}

		delete(args, key)
		args[strings.TrimPrefix(key, "#")] = resolved
	}
	return nil
}

func walkPath(data any, path string) (any, error) {
	current := data
	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if segment == "" {
			continue
		}
		object, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("path %s not found", path)
		}
		current, ok = object[segment]
		if !ok {
			return nil, fmt.Errorf("path %s not found", path)
		}
	}
	return current, nil
}

func (f *FakeJMAPServer) mailboxGet() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]any, 0, len(f.mailboxes))
	for _, mailbox := range f.mailboxes {
		list = append(list, mailbox)
	}
	return map[string]any{
		"accountId": f.AccountID,
		"state":     "fake-state-1",
		"list":      list,
		"notFound":  []any{},
	}
}

func (f *FakeJMAPServer) emailQuery(args map[string]any) map[string]any {
	var inMailbox string
	if filter, ok := args["filter"].(map[string]any); ok {
		inMailbox, _ = filter["inMailbox"].(string)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	limit := len(f.emails)
	if v, ok := args["limit"].(float64); ok && int(v) > 0 {
		limit = int(v)
	}

	var matched []map[string]any
	for _, email := range f.emails {
		if inMailbox == "" || emailInMailbox(email, inMailbox) {
			matched = append(matched, email)
		}
	}
	// Newest first, the only sort this fake understands.
	sort.SliceStable(matched, func(i, j int) bool {
		ri, _ := matched[i]["receivedAt"].(string)
		rj, _ := matched[j]["receivedAt"].(string)
		return ri > rj
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	ids := make([]any, 0, len(matched))
	for _, email := range matched {
		ids = append(ids, email["id"])
	}
	return map[string]any{
		"accountId": f.AccountID,
		"ids":       ids,
		"position":  0,
		"total":     len(ids),
	}
}

func (f *FakeJMAPServer) emailGet(args map[string]any) map[string]any {
	ids, _ := args["ids"].([]any)

	f.mu.Lock()
	defer f.mu.Unlock()

	byID := make(map[string]map[string]any, len(f.emails))
	for _, email := range f.emails {
		if id, ok := email["id"].(string); ok {
			byID[id] = email
		}
	}

	list := make([]any, 0, len(ids))
	notFound := make([]any, 0)
	for _, raw := range ids {
		id, _ := raw.(string)
		if email, ok := byID[id]; ok {
			list = append(list, email)
		} else {
			notFound = append(notFound, id)
		}
	}
	return map[string]any{
		"accountId": f.AccountID,
		"state":     "fake-state-1",
		"list":      list,
		"notFound":  notFound,
	}
}

func emailInMailbox(email map[string]any, mailboxID string) bool {
	mailboxIDs, ok := email["mailboxIds"].(map[string]any)
	if !ok {
		return false
	}
	present, _ := mailboxIDs[mailboxID].(bool)
	return present
}
