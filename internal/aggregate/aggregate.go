// Package aggregate computes read-only financial views over the working
// set. Every function is pure and cheap enough to recompute on each
// working-set mutation.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/subwatch-ai/subwatch/internal/model"
)

// AllCategories is the wildcard for Filter's category argument.
const AllCategories = "All"

// MonthlyCost converts one record's amount to its monthly equivalent.
// Weekly uses a four-week month, an approximation rather than a calendar
// calculation. Unknown cycles are treated like Monthly.
func MonthlyCost(sub model.Subscription) float64 {
	switch sub.BillingCycle {
	case model.CycleYearly:
		return sub.Amount / 12
	case model.CycleWeekly:
		return sub.Amount * 4
	default:
		return sub.Amount
	}
}

// TotalMonthly sums normalized monthly cost over all records.
func TotalMonthly(subs []model.Subscription) float64 {
	total := 0.0
	for _, sub := range subs {
		total += MonthlyCost(sub)
	}
	return total
}

// CategoryTotal pairs a category with its spend.
type CategoryTotal struct {
	Category model.Category `json:"category"`
	Total    float64        `json:"total"`
}

// CategoryTotals sums raw amounts per category, omitting empty categories.
// Raw amounts, not monthly-normalized: this matches the analytics chart's
// historical behavior.
func CategoryTotals(subs []model.Subscription) []CategoryTotal {
	byCategory := make(map[model.Category]float64)
	for _, sub := range subs {
		byCategory[sub.Category] += sub.Amount
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, cat := range model.Categories() {
		if total, ok := byCategory[cat]; ok && total > 0 {
			totals = append(totals, CategoryTotal{Category: cat, Total: total})
		}
	}
	return totals
}

// UpcomingRenewals returns the n records renewing soonest after now,
// ascending by renewal date. Records without a known renewal date are
// excluded rather than treated as renewing immediately.
func UpcomingRenewals(subs []model.Subscription, now time.Time, n int) []model.Subscription {
	upcoming := make([]model.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.HasRenewalDate() && sub.NextRenewalDate.After(now) {
			upcoming = append(upcoming, sub)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextRenewalDate.Before(upcoming[j].NextRenewalDate)
	})

	if n > 0 && len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// Filter returns records whose service name contains the query
// (case-insensitive) and whose category matches exactly, or any category
// when the wildcard is used.
func Filter(subs []model.Subscription, query, category string) []model.Subscription {
	query = strings.ToLower(query)

	matched := make([]model.Subscription, 0, len(subs))
	for _, sub := range subs {
		if query != "" && !strings.Contains(strings.ToLower(sub.ServiceName), query) {
			continue
		}
		if category != "" && category != AllCategories && string(sub.Category) != category {
			continue
		}
		matched = append(matched, sub)
	}
	return matched
}

// MonthPoint is one bar of the projected-spend chart.
type MonthPoint struct {
	Label string  `json:"label"`
	Spend float64 `json:"spend"`
}

// MonthlyProjection projects total monthly spend over the next months,
// starting with the current month. The projection is flat: every month
// carries the same normalized monthly load.
func MonthlyProjection(subs []model.Subscription, now time.Time, months int) []MonthPoint {
	total := math.Round(TotalMonthly(subs)*100) / 100

	points := make([]MonthPoint, 0, months)
	for i := 0; i < months; i++ {
		// Anchor on the first of the month so late-month dates don't skip.
		month := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		points = append(points, MonthPoint{
			Label: month.Format("Jan"),
			Spend: total,
		})
	}
	return points
}
