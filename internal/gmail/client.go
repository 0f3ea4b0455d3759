// Package gmail implements the mail connector over the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/subwatch-ai/subwatch/internal/model"
)

// DefaultQuery matches receipt-like subject lines within the last year.
const DefaultQuery = "subject:(subscription OR receipt OR invoice OR renew OR payment) newer_than:1y"

// DefaultMaxResults caps how many messages one scan fetches.
const DefaultMaxResults = 10

// Client fetches messages and profile data for the authenticated user.
type Client struct {
	gmail  *gmailapi.Service
	oauth  *oauth2api.Service
	logger *slog.Logger
}

// NewClient builds a Client from an OAuth2 token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger) (*Client, error) {
	gmailSvc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	oauthSvc, err := oauth2api.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	return &Client{
		gmail:  gmailSvc,
		oauth:  oauthSvc,
		logger: logger,
	}, nil
}

// Search lists messages matching the query and fetches each in full.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]model.RawEmail, error) {
	list, err := c.gmail.Users.Messages.List("me").
		Q(query).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("message list failed: %w", err)
	}

	emails := make([]model.RawEmail, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msg, err := c.gmail.Users.Messages.Get("me", ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("message fetch failed for %s: %w", ref.Id, err)
		}

		emails = append(emails, decodeMessage(msg))
	}

	c.logger.Debug("fetched candidate emails", "query", query, "count", len(emails))

	return emails, nil
}

// Profile fetches the signed-in user's identity.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	info, err := c.oauth.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return model.User{}, fmt.Errorf("userinfo fetch failed: %w", err)
	}

	return model.User{
		Name:   info.Name,
		Email:  info.Email,
		Avatar: info.Picture,
	}, nil
}

// decodeMessage flattens a Gmail message into a RawEmail. When no decodable
// text part exists, the snippet stands in for the body.
func decodeMessage(msg *gmailapi.Message) model.RawEmail {
	email := model.RawEmail{
		ID:      msg.Id,
		Snippet: msg.Snippet,
		Subject: "No Subject",
		From:    "Unknown Sender",
		Body:    msg.Snippet,
	}

	if msg.Payload == nil {
		return email
	}

	if v := headerValue(msg.Payload.Headers, "Subject"); v != "" {
		email.Subject = v
	}
	if v := headerValue(msg.Payload.Headers, "From"); v != "" {
		email.From = v
	}
	email.Date = headerValue(msg.Payload.Headers, "Date")

	if body, ok := extractTextBody(msg.Payload); ok {
		email.Body = body
	}

	return email
}

func headerValue(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// extractTextBody finds the first text/plain part and decodes it from
// base64url. Multipart messages are searched one level deep, matching how
// receipt emails are typically structured.
func extractTextBody(payload *gmailapi.MessagePart) (string, bool) {
	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded, ok := decodeBase64URL(part.Body.Data); ok {
				return decoded, true
			}
		}
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, ok := decodeBase64URL(payload.Body.Data); ok {
			return decoded, true
		}
	}

	return "", false
}

func decodeBase64URL(data string) (string, bool) {
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded), true
	}
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded), true
	}
	return "", false
}
