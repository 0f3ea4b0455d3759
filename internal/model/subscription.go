// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// BillingCycle describes how often a subscription renews.
type BillingCycle string

// Billing cycle constants.
const (
	CycleMonthly BillingCycle = "Monthly"
	CycleYearly  BillingCycle = "Yearly"
	CycleWeekly  BillingCycle = "Weekly"
	CycleUnknown BillingCycle = "Unknown"
)

// Valid reports whether the cycle is a member of the closed set.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleYearly, CycleWeekly, CycleUnknown:
		return true
	}
	return false
}

// Category is a closed set of spending categories.
type Category string

// Category constants.
const (
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategorySaaS          Category = "SaaS"
	CategoryBusiness      Category = "Business"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryEntertainment,
		CategoryUtilities,
		CategorySaaS,
		CategoryBusiness,
		CategoryShopping,
		CategoryHealth,
		CategoryOther,
	}
}

// Valid reports whether the category is a member of the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Subscription is a single detected subscription service.
type Subscription struct {
	NextRenewalDate time.Time    `json:"nextRenewalDate"`
	ID              string       `json:"id"`
	ServiceName     string       `json:"serviceName"`
	Currency        string       `json:"currency"`
	Description     string       `json:"description,omitempty"`
	LogoURL         string       `json:"logoUrl"`
	BillingCycle    BillingCycle `json:"billingCycle"`
	Category        Category     `json:"category"`
	Amount          float64      `json:"amount"`
	ConfidenceScore *float64     `json:"confidenceScore,omitempty"`
}

// HasRenewalDate reports whether a renewal date was extracted for this record.
// Records without one are excluded from upcoming-renewal views.
func (s Subscription) HasRenewalDate() bool {
	return !s.NextRenewalDate.IsZero()
}

// RawFields holds extraction output before normalization. Every field is
// optional; Normalize coerces whatever is missing.
type RawFields struct {
	NextRenewalDate time.Time
	ServiceName     string
	Currency        string
	Description     string
	BillingCycle    BillingCycle
	Category        Category
	Amount          float64
	ConfidenceScore *float64
}

// Normalize builds a well-formed Subscription from raw extraction fields.
// It never fails: malformed or missing fields are coerced to defaults so
// downstream consumers can trust every record.
func Normalize(id string, raw RawFields) Subscription {
	name := strings.TrimSpace(raw.ServiceName)
	if name == "" {
		name = "Unknown Service"
	}

	amount := raw.Amount
	if amount < 0 {
		amount = 0
	}

	currency := strings.TrimSpace(raw.Currency)
	if currency == "" {
		currency = "USD"
	}

	cycle := raw.BillingCycle
	if !cycle.Valid() || cycle == "" {
		cycle = CycleMonthly
	}

	category := raw.Category
	if !category.Valid() {
		category = CategoryOther
	}

	return Subscription{
		ID:              id,
		ServiceName:     name,
		Amount:          amount,
		Currency:        currency,
		BillingCycle:    cycle,
		NextRenewalDate: raw.NextRenewalDate,
		Category:        category,
		Description:     raw.Description,
		LogoURL:         LogoURL(name),
		ConfidenceScore: raw.ConfidenceScore,
	}
}

// LogoURL derives a logo lookup URL from a service name. Cosmetic only.
func LogoURL(serviceName string) string {
	slug := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, serviceName)
	return fmt.Sprintf("https://logo.clearbit.com/%s.com", slug)
}
