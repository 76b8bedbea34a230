package jmap

import (
	"encoding/json"
	"fmt"
	"time"
)

// Capability urns declared on every batch this client sends.
const (
	CoreCapability = "urn:ietf:params:jmap:core"
	MailCapability = "urn:ietf:params:jmap:mail"
)

// ResultReference makes an argument depend on the result of an earlier call
// in the same batch (RFC 8620 section 3.7). Path is a JSON Pointer into the
// referenced call's result. The client serializes references verbatim and
// never resolves them; resolution happens server-side once the referenced
// call has completed.
type ResultReference struct {
	ResultOf string `json:"resultOf"`
	Name     string `json:"name"`
	Path     string `json:"path"`
}

// MethodCall is one named operation submitted in a batch. CallID must be
// unique within the batch. An argument value may be a literal or a
// ResultReference; on the wire a reference-valued argument's key gains a
// "#" prefix.
type MethodCall struct {
	Name   string
	Args   map[string]any
	CallID string
}

// MarshalJSON encodes the call as the JMAP invocation tuple
// [name, arguments, callId].
func (c MethodCall) MarshalJSON() ([]byte, error) {
	args := make(map[string]any, len(c.Args))
	for key, value := range c.Args {
		switch ref := value.(type) {
		case ResultReference:
			args["#"+key] = ref
		case *ResultReference:
			args["#"+key] = ref
		default:
			args[key] = value
		}
	}
	return json.Marshal([]any{c.Name, args, c.CallID})
}

// MethodResponse answers exactly one submitted call. Args is kept raw so
// callers can decode it into the response type for the method they issued.
type MethodResponse struct {
	Name   string
	Args   json.RawMessage
	CallID string
}

// UnmarshalJSON decodes the invocation tuple [name, arguments, callId].
func (r *MethodResponse) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("invocation has %d elements, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &r.Name); err != nil {
		return fmt.Errorf("invocation name: %w", err)
	}
	r.Args = parts[1]
	if err := json.Unmarshal(parts[2], &r.CallID); err != nil {
		return fmt.Errorf("invocation call id: %w", err)
	}
	return nil
}

// Err returns the server-reported error for this response, or nil if the
// response is a regular result.
func (r MethodResponse) Err() error {
	if r.Name != "error" {
		return nil
	}
	var methodErr MethodError
	if err := json.Unmarshal(r.Args, &methodErr); err != nil {
		return &ProtocolError{Reason: fmt.Sprintf("unparseable error response for call %q: %v", r.CallID, err)}
	}
	return &methodErr
}

// Decode unmarshals the response arguments into v. A server-reported error
// response is returned as a *MethodError instead.
func (r MethodResponse) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if err := json.Unmarshal(r.Args, v); err != nil {
		return &ProtocolError{Reason: fmt.Sprintf("unparseable result for call %q: %v", r.CallID, err)}
	}
	return nil
}

// Request is the body of one batch execution.
type Request struct {
	Using       []string     `json:"using"`
	MethodCalls []MethodCall `json:"methodCalls"`
}

// Response is the body answering one batch execution. Unknown fields are
// ignored.
type Response struct {
	MethodResponses []MethodResponse `json:"methodResponses"`
	SessionState    string           `json:"sessionState"`
}

// SessionResource is the discovery document served at the well-known URL:
// the user's capabilities, API endpoint, and account ids. It is
// credential-specific and fetched fresh on every login attempt.
type SessionResource struct {
	Username        string                     `json:"username"`
	APIURL          string                     `json:"apiUrl"`
	DownloadURL     string                     `json:"downloadUrl"`
	Capabilities    map[string]json.RawMessage `json:"capabilities"`
	PrimaryAccounts map[string]string          `json:"primaryAccounts"`
	State           string                     `json:"state"`
}

// MailAccountID returns the primary account id under the mail capability.
func (s *SessionResource) MailAccountID() (string, bool) {
	id, ok := s.PrimaryAccounts[MailCapability]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Wire objects for the mail capability (RFC 8621), limited to the fields
// this client reads.

type Mailbox struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentID     string `json:"parentId"`
	Role         string `json:"role"`
	SortOrder    int    `json:"sortOrder"`
	TotalEmails  int    `json:"totalEmails"`
	UnreadEmails int    `json:"unreadEmails"`
}

type EmailAddress struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type EmailBodyPart struct {
	PartID string `json:"partId"`
	Type   string `json:"type"`
}

type EmailBodyValue struct {
	Value       string `json:"value"`
	IsTruncated bool   `json:"isTruncated"`
}

type Email struct {
	ID         string                    `json:"id"`
	MailboxIDs map[string]bool           `json:"mailboxIds"`
	From       []EmailAddress            `json:"from"`
	To         []EmailAddress            `json:"to"`
	CC         []EmailAddress            `json:"cc"`
	Subject    string                    `json:"subject"`
	ReceivedAt time.Time                 `json:"receivedAt"`
	Preview    string                    `json:"preview"`
	TextBody   []EmailBodyPart           `json:"textBody"`
	HTMLBody   []EmailBodyPart           `json:"htmlBody"`
	BodyValues map[string]EmailBodyValue `json:"bodyValues"`
	Keywords   map[string]bool           `json:"keywords"`
}

type MailboxGetResponse struct {
	AccountID string    `json:"accountId"`
	State     string    `json:"state"`
	List      []Mailbox `json:"list"`
	NotFound  []string  `json:"notFound"`
}

type EmailQueryResponse struct {
	AccountID string   `json:"accountId"`
	IDs       []string `json:"ids"`
	Position  int      `json:"position"`
	Total     int      `json:"total"`
}

type EmailGetResponse struct {
	AccountID string   `json:"accountId"`
	State     string   `json:"state"`
	List      []Email  `json:"list"`
	NotFound  []string `json:"notFound"`
}
