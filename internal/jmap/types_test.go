package jmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodCallMarshalJSON(t *testing.T) {
	t.Run("encodes the invocation tuple", func(t *testing.T) {
		call := MethodCall{
			Name:   "Mailbox/get",
			Args:   map[string]any{"accountId": "a1", "ids": nil},
			CallID: "0",
		}

		data, err := json.Marshal(call)
		require.NoError(t, err)

		var tuple []json.RawMessage
		require.NoError(t, json.Unmarshal(data, &tuple))
		require.Len(t, tuple, 3)

		assert.JSONEq(t, `"Mailbox/get"`, string(tuple[0]))
		assert.JSONEq(t, `{"accountId":"a1","ids":null}`, string(tuple[1]))
		assert.JSONEq(t, `"0"`, string(tuple[2]))
	})

	t.Run("prefixes reference-valued arguments with #", func(t *testing.T) {
		call := MethodCall{
			Name: "Email/get",
			Args: map[string]any{
				"accountId": "a1",
				"ids":       ResultReference{ResultOf: "0", Name: "Email/query", Path: "/ids"},
			},
			CallID: "1",
		}

		data, err := json.Marshal(call)
		require.NoError(t, err)

		var tuple []json.RawMessage
		require.NoError(t, json.Unmarshal(data, &tuple))
		require.Len(t, tuple, 3)

		assert.JSONEq(t, `{
			"accountId": "a1",
			"#ids": {"resultOf": "0", "name": "Email/query", "path": "/ids"}
		}`, string(tuple[1]))
	})
}

func TestMethodResponseUnmarshalJSON(t *testing.T) {
	t.Run("decodes the invocation tuple", func(t *testing.T) {
		var response MethodResponse
		err := json.Unmarshal([]byte(`["Email/query", {"ids": ["m1", "m2"]}, "0"]`), &response)
		require.NoError(t, err)

		assert.Equal(t, "Email/query", response.Name)
		assert.Equal(t, "0", response.CallID)

		var parsed EmailQueryResponse
		require.NoError(t, response.Decode(&parsed))
		assert.Equal(t, []string{"m1", "m2"}, parsed.IDs)
	})

	t.Run("rejects tuples of the wrong length", func(t *testing.T) {
		var response MethodResponse
		err := json.Unmarshal([]byte(`["Email/query", {}]`), &response)
		assert.Error(t, err)
	})
}

func TestMethodResponseErr(t *testing.T) {
	t.Run("regular responses carry no error", func(t *testing.T) {
		response := MethodResponse{Name: "Mailbox/get", Args: json.RawMessage(`{}`), CallID: "0"}
		assert.NoError(t, response.Err())
	})

	t.Run("error responses decode into MethodError", func(t *testing.T) {
		response := MethodResponse{
			Name:   "error",
			Args:   json.RawMessage(`{"type": "accountNotFound", "description": "gone"}`),
			CallID: "0",
		}

		err := response.Err()
		require.Error(t, err)

		var methodErr *MethodError
		require.ErrorAs(t, err, &methodErr)
		assert.Equal(t, "accountNotFound", methodErr.Type)
		assert.Equal(t, "gone", methodErr.Description)
	})

	t.Run("Decode surfaces the method error", func(t *testing.T) {
		response := MethodResponse{
			Name:   "error",
			Args:   json.RawMessage(`{"type": "serverFail"}`),
			CallID: "0",
		}

		var parsed MailboxGetResponse
		err := response.Decode(&parsed)

		var methodErr *MethodError
		require.ErrorAs(t, err, &methodErr)
		assert.Equal(t, "serverFail", methodErr.Type)
	})
}

func TestSessionResourceMailAccountID(t *testing.T) {
	t.Run("returns the primary mail account", func(t *testing.T) {
		resource := SessionResource{
			PrimaryAccounts: map[string]string{MailCapability: "account-1"},
		}

		id, ok := resource.MailAccountID()
		require.True(t, ok)
		assert.Equal(t, "account-1", id)
	})

	t.Run("returns false when the mail capability is absent", func(t *testing.T) {
		resource := SessionResource{
			PrimaryAccounts: map[string]string{"urn:ietf:params:jmap:contacts": "account-1"},
		}

		_, ok := resource.MailAccountID()
		assert.False(t, ok)
	})
}
