package mail

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lightmail/lightmail/internal/jmap"
	"github.com/lightmail/lightmail/internal/models"
	"github.com/lightmail/lightmail/internal/session"
)

// ErrEmailNotFound is returned when the remote service does not know the
// requested email id.
var ErrEmailNotFound = errors.New("email not found")

var summaryProperties = []string{
	"id", "mailboxIds", "from", "to", "cc", "subject", "receivedAt", "preview",
}

var detailProperties = []string{
	"id", "mailboxIds", "from", "to", "cc", "subject", "receivedAt", "preview",
	"textBody", "htmlBody", "bodyValues",
}

// Service retrieves mailboxes and messages for an authenticated session. It
// keeps no state of its own; every operation is one batched exchange made
// with the session's credentials against the session's endpoint.
type Service struct {
	client *jmap.Client
}

func NewService(client *jmap.Client) *Service {
	return &Service{client: client}
}

// ListMailboxes returns all mailboxes for the session's account. The order
// returned by the remote service is the canonical display order and is
// preserved as-is.
func (s *Service) ListMailboxes(ctx context.Context, sess *session.Session) ([]models.Mailbox, error) {
	calls := []jmap.MethodCall{{
		Name: "Mailbox/get",
		Args: map[string]any{
			"accountId": sess.AccountID,
			"ids":       nil,
		},
		CallID: "0",
	}}

	responses, err := s.client.ExecuteBatch(ctx, sess.Endpoint, sess.Credentials, calls)
	if err != nil {
		return nil, err
	}

	var parsed jmap.MailboxGetResponse
	if err := responses[0].Decode(&parsed); err != nil {
		return nil, err
	}

	mailboxes := make([]models.Mailbox, 0, len(parsed.List))
	for _, mb := range parsed.List {
		mailboxes = append(mailboxes, models.Mailbox{
			ID:           mb.ID,
			Name:         mb.Name,
			ParentID:     mb.ParentID,
			Role:         mb.Role,
			UnreadEmails: mb.UnreadEmails,
			TotalEmails:  mb.TotalEmails,
		})
	}
	return mailboxes, nil
}

// ListEmails returns up to limit summaries for the given mailbox, newest
// first. The query and the fetch run as one batch: the fetch's ids argument
// is a back-reference to the query's result, resolved server-side, so the
// two dependent operations cost a single round trip.
func (s *Service) ListEmails(ctx context.Context, sess *session.Session, mailboxID string, limit int) ([]models.EmailSummary, error) {
	calls := []jmap.MethodCall{
		{
			Name: "Email/query",
			Args: map[string]any{
				"accountId": sess.AccountID,
				"filter":    map[string]any{"inMailbox": mailboxID},
				"sort": []map[string]any{{
					"property":    "receivedAt",
					"isAscending": false,
				}},
				"limit": limit,
			},
			CallID: "0",
		},
		{
			Name: "Email/get",
			Args: map[string]any{
				"accountId":  sess.AccountID,
				"ids":        jmap.ResultReference{ResultOf: "0", Name: "Email/query", Path: "/ids"},
				"properties": summaryProperties,
			},
			CallID: "1",
		},
	}

	responses, err := s.client.ExecuteBatch(ctx, sess.Endpoint, sess.Credentials, calls)
	if err != nil {
		return nil, err
	}

	var query jmap.EmailQueryResponse
	if err := responses[0].Decode(&query); err != nil {
		return nil, err
	}

	var fetched jmap.EmailGetResponse
	if err := responses[1].Decode(&fetched); err != nil {
		return nil, err
	}

	summaries := make([]models.EmailSummary, 0, len(fetched.List))
	for _, email := range fetched.List {
		summaries = append(summaries, summaryFromEmail(email))
	}
	return summaries, nil
}

// GetEmail fetches one message with its decoded body values and applies the
// body-selection and quote-tagging policy.
func (s *Service) GetEmail(ctx context.Context, sess *session.Session, emailID string) (*models.EmailDetail, error) {
	responses, err := s.fetchEmail(ctx, sess, emailID)
	if err != nil {
		return nil, err
	}

	var parsed jmap.EmailGetResponse
	if err := responses[0].Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.List) == 0 {
		return nil, ErrEmailNotFound
	}

	detail := detailFromEmail(parsed.List[0])
	detail.BodyText = ExtractBodyText(detail)
	detail.BodyLines = TagQuotedLines(detail.BodyText)
	return detail, nil
}

// GetEmailRaw fetches one message and returns the remote service's JSON
// object for it untouched.
func (s *Service) GetEmailRaw(ctx context.Context, sess *session.Session, emailID string) (json.RawMessage, error) {
	responses, err := s.fetchEmail(ctx, sess, emailID)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		List     []json.RawMessage `json:"list"`
		NotFound []string          `json:"notFound"`
	}
	if err := responses[0].Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.List) == 0 {
		return nil, ErrEmailNotFound
	}
	return parsed.List[0], nil
}

func (s *Service) fetchEmail(ctx context.Context, sess *session.Session, emailID string) ([]jmap.MethodResponse, error) {
	calls := []jmap.MethodCall{{
		Name: "Email/get",
		Args: map[string]any{
			"accountId":           sess.AccountID,
			"ids":                 []string{emailID},
			"properties":          detailProperties,
			"fetchTextBodyValues": true,
			"fetchHTMLBodyValues": true,
		},
		CallID: "0",
	}}

	return s.client.ExecuteBatch(ctx, sess.Endpoint, sess.Credentials, calls)
}
