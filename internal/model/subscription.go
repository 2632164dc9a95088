package model

import (
	"time"
)

// SubscriptionStatus is the mirrored billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    = SubscriptionStatus("active")
	SubscriptionCancelled = SubscriptionStatus("cancelled")
	SubscriptionPastDue   = SubscriptionStatus("past_due")
)

// Subscription is a recurring-billing record mirrored from the payment provider
type Subscription struct {
	ID                 int64              `db:"id"`
	UserID             string             `db:"user_id"`
	ProviderID         string             `db:"provider_subscription_id"`
	ProviderCustomerID string             `db:"provider_customer_id"`
	Tier               string             `db:"tier"`
	Status             SubscriptionStatus `db:"status"`
	CurrentPeriodEnd   time.Time          `db:"current_period_end"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at"`
}
