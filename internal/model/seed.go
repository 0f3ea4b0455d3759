package model

import (
	"time"

	"github.com/google/uuid"
)

// SeedSubscriptions returns the demo records loaded at sign-in. Renewal
// dates are relative to now so the upcoming-renewals view stays populated.
func SeedSubscriptions() []Subscription {
	now := time.Now()
	return []Subscription{
		{
			ID:              uuid.NewString(),
			ServiceName:     "Netflix",
			Amount:          15.49,
			Currency:        "USD",
			BillingCycle:    CycleMonthly,
			NextRenewalDate: now.AddDate(0, 0, 5),
			Category:        CategoryEntertainment,
			Description:     "Standard Plan",
			LogoURL:         "https://logo.clearbit.com/netflix.com",
		},
		{
			ID:              uuid.NewString(),
			ServiceName:     "Spotify",
			Amount:          10.99,
			Currency:        "USD",
			BillingCycle:    CycleMonthly,
			NextRenewalDate: now.AddDate(0, 0, 12),
			Category:        CategoryEntertainment,
			LogoURL:         "https://logo.clearbit.com/spotify.com",
		},
		{
			ID:              uuid.NewString(),
			ServiceName:     "Adobe Creative Cloud",
			Amount:          54.99,
			Currency:        "USD",
			BillingCycle:    CycleMonthly,
			NextRenewalDate: now.AddDate(0, 0, 2),
			Category:        CategorySaaS,
			LogoURL:         "https://logo.clearbit.com/adobe.com",
		},
		{
			ID:              uuid.NewString(),
			ServiceName:     "Amazon Prime",
			Amount:          139.00,
			Currency:        "USD",
			BillingCycle:    CycleYearly,
			NextRenewalDate: now.AddDate(0, 0, 180),
			Category:        CategoryShopping,
			LogoURL:         "https://logo.clearbit.com/amazon.com",
		},
	}
}
