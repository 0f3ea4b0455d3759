package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/subwatch-ai/subwatch/internal/common"
)

// NewClient creates an inference backend client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "gemini":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported inference provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}

// ErrNoProvider indicates no inference backend is configured.
var ErrNoProvider = errors.New("no inference provider configured")

// Unavailable returns a Client whose calls always fail with ErrNoProvider.
// Callers with canned fallback content can use it when no provider is set.
func Unavailable() Client {
	return unavailableClient{}
}

type unavailableClient struct{}

func (unavailableClient) Extract(_ context.Context, _ string) (ExtractionResponse, error) {
	return ExtractionResponse{}, ErrNoProvider
}

func (unavailableClient) Generate(_ context.Context, _ string) (string, error) {
	return "", ErrNoProvider
}
