// Package advisor generates savings tips and cancellation-email drafts via
// free-form inference calls. Advisory content is best-effort: every failure
// degrades to fixed fallback text, never to an error the user sees.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/subwatch-ai/subwatch/internal/llm"
	"github.com/subwatch-ai/subwatch/internal/model"
)

// fallbackTips is served whenever tip generation or parsing fails.
var fallbackTips = []string{
	"Review your unused subscriptions.",
	"Consider switching to yearly billing for discounts.",
	"Check for student or family plans.",
}

const fallbackCancellation = "Dear Support,\n\nI would like to cancel my subscription. Please confirm when this is processed.\n\nThank you."

// Advisor produces advisory content from the working set.
type Advisor struct {
	client llm.Client
	logger *slog.Logger
}

// New creates an advisor around an inference client.
func New(client llm.Client, logger *slog.Logger) *Advisor {
	return &Advisor{client: client, logger: logger}
}

// SavingsTips returns short money-saving tips for the given subscriptions.
func (a *Advisor) SavingsTips(ctx context.Context, subs []model.Subscription) []string {
	if len(subs) == 0 {
		return fallbackTips
	}

	var list strings.Builder
	for _, sub := range subs {
		fmt.Fprintf(&list, "%s: %s %.2f (%s)\n", sub.ServiceName, sub.Currency, sub.Amount, sub.BillingCycle)
	}

	prompt := fmt.Sprintf(`Analyze these subscriptions and provide 3 short, punchy tips to save money.
Focus on identifying potential redundancies or expensive recurring costs.
Return a JSON array of strings.

Subscriptions:
%s`, list.String())

	raw, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("tip generation failed, using fallback", "error", err)
		return fallbackTips
	}

	tips, err := llm.DecodeStringArray(raw)
	if err != nil || len(tips) == 0 {
		a.logger.Warn("tip response not parseable, using fallback", "error", err)
		return fallbackTips
	}

	return tips
}

// CancellationDraft writes a cancellation email for one subscription.
func (a *Advisor) CancellationDraft(ctx context.Context, sub model.Subscription, userName string) string {
	prompt := fmt.Sprintf(`Write a polite but firm cancellation email for a subscription service.

Service: %s
My Name: %s
Account Email: [Insert Email Here]

The email should request immediate cancellation and confirmation of the cancellation.
Keep it professional.`, sub.ServiceName, userName)

	draft, err := a.client.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(draft) == "" {
		a.logger.Warn("cancellation draft failed, using fallback",
			"service", sub.ServiceName,
			"error", err)
		return fallbackCancellation
	}

	return draft
}
