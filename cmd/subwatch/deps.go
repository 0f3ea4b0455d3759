package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/subwatch-ai/subwatch/internal/advisor"
	"github.com/subwatch-ai/subwatch/internal/common"
	"github.com/subwatch-ai/subwatch/internal/engine"
	"github.com/subwatch-ai/subwatch/internal/extract"
	"github.com/subwatch-ai/subwatch/internal/gmail"
	"github.com/subwatch-ai/subwatch/internal/llm"
	"github.com/subwatch-ai/subwatch/internal/model"
)

func llmConfig() llm.Config {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "gemini"
	}

	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		switch provider {
		case "openai":
			apiKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	return llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
	}
}

func newLLMClient() (llm.Client, error) {
	cfg := llmConfig()
	if cfg.APIKey == "" {
		return nil, common.NewUserError(
			fmt.Sprintf("no API key configured for %q; set llm.api_key or the provider's environment variable", cfg.Provider),
			common.ErrMissingConfig)
	}
	return llm.NewClient(cfg)
}

func oauthSettings() (gmail.OAuthConfig, error) {
	clientID := viper.GetString("google.client_id")
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	clientSecret := viper.GetString("google.client_secret")
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return gmail.OAuthConfig{}, common.NewUserError(
			"Google OAuth credentials missing; set google.client_id and google.client_secret",
			common.ErrMissingConfig)
	}

	tokenFile := viper.GetString("google.token_file")
	if tokenFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return gmail.OAuthConfig{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		tokenFile = filepath.Join(home, ".config", "subwatch", "token.json")
	}

	return gmail.OAuthConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
	}, nil
}

func newGmailClient(ctx context.Context) (*gmail.Client, error) {
	cfg, err := oauthSettings()
	if err != nil {
		return nil, err
	}

	ts, err := gmail.TokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return gmail.NewClient(ctx, ts, slog.Default())
}

// deps bundles the wired application components a command needs.
type deps struct {
	session *engine.Session
	engine  *engine.ScanEngine
	advisor *advisor.Advisor
}

// liveDeps signs in with the Gmail profile and wires the live scan pipeline.
func liveDeps(ctx context.Context) (deps, error) {
	mail, err := newGmailClient(ctx)
	if err != nil {
		return deps{}, err
	}

	client, err := newLLMClient()
	if err != nil {
		return deps{}, err
	}

	user, err := mail.Profile(ctx)
	if err != nil {
		return deps{}, fmt.Errorf("failed to fetch Gmail profile: %w", err)
	}

	session := engine.NewSession()
	session.SignIn(user)

	extractor := extract.New(client, llmConfig(), slog.Default())
	eng := engine.New(mail, extractor, session, engine.Config{
		Query:      viper.GetString("scan.query"),
		MaxResults: viper.GetInt64("scan.max_results"),
	}, slog.Default())

	return deps{
		session: session,
		engine:  eng,
		advisor: advisor.New(client, slog.Default()),
	}, nil
}

// demoDeps signs in a local demo user over the seed records. The advisor
// still uses a real client when one is configured, falling back to the
// canned tips otherwise.
func demoDeps() deps {
	session := engine.NewSession()
	session.SignIn(model.User{Name: "Demo User", Email: "demo@subwatch.local"})

	var client llm.Client
	if c, err := newLLMClient(); err == nil {
		client = c
	} else {
		client = llm.Unavailable()
	}

	eng := engine.New(offlineMail{}, offlineExtractor{}, session, engine.Config{}, slog.Default())

	return deps{
		session: session,
		engine:  eng,
		advisor: advisor.New(client, slog.Default()),
	}
}

// offlineMail stands in for Gmail when running without credentials.
type offlineMail struct{}

func (offlineMail) Search(_ context.Context, _ string, _ int64) ([]model.RawEmail, error) {
	return nil, fmt.Errorf("%w: not connected to Gmail, run 'subwatch auth' first", common.ErrMailConnector)
}

type offlineExtractor struct{}

func (offlineExtractor) Extract(_ context.Context, _ model.RawEmail) (model.RawFields, bool, error) {
	return model.RawFields{}, false, nil
}

// scanTimeout bounds a full scan including per-email inference calls.
const scanTimeout = 5 * time.Minute
