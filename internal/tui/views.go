package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/subwatch-ai/subwatch/internal/aggregate"
	"github.com/subwatch-ai/subwatch/internal/cli"
	"github.com/subwatch-ai/subwatch/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(cli.PrimaryColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(cli.SubtleColor).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.PrimaryColor).
			Padding(1, 2)
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateDetail:
		return m.renderDetail()
	case StateHelp:
		return m.renderHelp()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.state == StateSearch {
		b.WriteString(rowStyle.Render("Search: " + m.search.View()))
		b.WriteString("\n")
	}

	if len(m.subs) == 0 {
		b.WriteString(footerStyle.Render("No subscriptions match the current filters."))
		b.WriteString("\n")
	}

	for i, sub := range m.subs {
		line := fmt.Sprintf("%-28s %-14s %9.2f %s/%s",
			truncate(sub.ServiceName, 28),
			truncate(string(sub.Category), 14),
			sub.Amount,
			sub.Currency,
			cycleLabel(sub.BillingCycle),
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.tips) > 0 {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("Tip: " + m.tips[0]))
		b.WriteString("\n")
	}

	if m.lastError != nil {
		b.WriteString(cli.ErrorStyle.Render("Error: " + m.lastError.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) renderHeader() string {
	total := aggregate.TotalMonthly(m.session.Subscriptions().List())
	status := fmt.Sprintf("%d subscriptions · %.2f/mo · category: %s",
		len(m.subs), total, m.category)
	if m.scanning {
		status += " · scanning inbox..."
	}

	title := headerStyle.Render("SubWatch")
	return lipgloss.JoinVertical(lipgloss.Left, title, footerStyle.Render(status))
}

func (m Model) renderDetail() string {
	if m.cursor >= len(m.subs) {
		return m.renderList()
	}
	sub := m.subs[m.cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", headerStyle.UnsetPadding().Render(sub.ServiceName))
	fmt.Fprintf(&b, "Amount:    %.2f %s (%s)\n", sub.Amount, sub.Currency, cycleLabel(sub.BillingCycle))
	fmt.Fprintf(&b, "Category:  %s\n", sub.Category)
	if sub.HasRenewalDate() {
		fmt.Fprintf(&b, "Renews:    %s", sub.NextRenewalDate.Format("Jan 2, 2006"))
		if countdown := renewalCountdown(sub, time.Now()); countdown != "" {
			fmt.Fprintf(&b, " (%s)", countdown)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Renews:    unknown\n")
	}
	if sub.ConfidenceScore != nil {
		fmt.Fprintf(&b, "Detected:  %.0f%% confidence\n", *sub.ConfidenceScore*100)
	}
	if sub.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", sub.Description)
	}
	b.WriteString(footerStyle.UnsetPadding().Render("\nd remove · Esc back"))

	return detailStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	return detailStyle.Render(
		headerStyle.UnsetPadding().Render("Keyboard Shortcuts") + "\n\n" +
			m.help.FullHelpView(m.keymap.FullHelp()),
	)
}

func cycleLabel(cycle model.BillingCycle) string {
	switch cycle {
	case model.CycleYearly:
		return "yr"
	case model.CycleWeekly:
		return "wk"
	default:
		return "mo"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// renewalCountdown describes how soon a subscription renews.
func renewalCountdown(sub model.Subscription, now time.Time) string {
	if !sub.HasRenewalDate() {
		return ""
	}
	days := int(sub.NextRenewalDate.Sub(now).Hours() / 24)
	if days < 0 {
		return ""
	}
	if days == 0 {
		return "renews today"
	}
	return fmt.Sprintf("renews in %dd", days)
}
