package gmail

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
)

func b64url(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecodeMessageMultipart(t *testing.T) {
	msg := &gmailapi.Message{
		Id:      "msg-1",
		Snippet: "Your Netflix receipt...",
		Payload: &gmailapi.MessagePart{
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Subject", Value: "Your Netflix receipt"},
				{Name: "From", Value: "info@netflix.com"},
				{Name: "Date", Value: "Mon, 1 Sep 2026 10:00:00 +0000"},
			},
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmailapi.MessagePartBody{Data: b64url("<p>html version</p>")},
				},
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: b64url("Thanks for your payment of $15.49")},
				},
			},
		},
	}

	email := decodeMessage(msg)
	assert.Equal(t, "msg-1", email.ID)
	assert.Equal(t, "Your Netflix receipt", email.Subject)
	assert.Equal(t, "info@netflix.com", email.From)
	assert.Equal(t, "Mon, 1 Sep 2026 10:00:00 +0000", email.Date)
	assert.Equal(t, "Thanks for your payment of $15.49", email.Body)
}

func TestDecodeMessageTopLevelBody(t *testing.T) {
	msg := &gmailapi.Message{
		Id: "msg-2",
		Payload: &gmailapi.MessagePart{
			Body: &gmailapi.MessagePartBody{Data: b64url("plain body, no parts")},
		},
	}

	email := decodeMessage(msg)
	assert.Equal(t, "plain body, no parts", email.Body)
	assert.Equal(t, "No Subject", email.Subject)
	assert.Equal(t, "Unknown Sender", email.From)
}

func TestDecodeMessageSnippetFallback(t *testing.T) {
	msg := &gmailapi.Message{
		Id:      "msg-3",
		Snippet: "short preview",
		Payload: &gmailapi.MessagePart{
			Parts: []*gmailapi.MessagePart{
				{MimeType: "image/png", Body: &gmailapi.MessagePartBody{Data: b64url("binary")}},
			},
		},
	}

	email := decodeMessage(msg)
	assert.Equal(t, "short preview", email.Body, "snippet substitutes when no text part decodes")
}

func TestDecodeMessageNilPayload(t *testing.T) {
	email := decodeMessage(&gmailapi.Message{Id: "msg-4", Snippet: "only snippet"})
	assert.Equal(t, "only snippet", email.Body)
	assert.Equal(t, "No Subject", email.Subject)
}

func TestDecodeBase64URLPaddedFallback(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("padded content"))
	decoded, ok := decodeBase64URL(padded)
	require.True(t, ok)
	assert.Equal(t, "padded content", decoded)

	_, ok = decodeBase64URL("!!! not base64 !!!")
	assert.False(t, ok)
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "token.json")
	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
}

func TestLoadTokenMissing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
