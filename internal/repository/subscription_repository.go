package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hebed-ai/hebed/internal/model"
)

// SubscriptionRepository mirrors provider subscriptions
type SubscriptionRepository struct {
	db DBExecutor
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db DBExecutor) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// UpsertSubscription creates or replaces the subscription held by sub.UserID
func (r *SubscriptionRepository) UpsertSubscription(ctx context.Context, sub *model.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, provider_subscription_id, provider_customer_id, tier, status, current_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			provider_subscription_id = EXCLUDED.provider_subscription_id,
			provider_customer_id = EXCLUDED.provider_customer_id,
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.db.GetContext(ctx, sub, query,
		sub.UserID, sub.ProviderID, sub.ProviderCustomerID, sub.Tier, sub.Status, sub.CurrentPeriodEnd)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

// UpdateStatus mirrors status, and period end when non-zero, onto the subscription with the
// given provider id. Returns false when no such subscription is stored.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, providerID string, status model.SubscriptionStatus, periodEnd time.Time) (bool, error) {
	query := `
		UPDATE subscriptions
		SET status = $2,
			current_period_end = COALESCE($3, current_period_end),
			updated_at = now()
		WHERE provider_subscription_id = $1
	`

	var end *time.Time
	if !periodEnd.IsZero() {
		end = &periodEnd
	}

	result, err := r.db.ExecContext(ctx, query, providerID, status, end)
	if err != nil {
		return false, fmt.Errorf("failed to update subscription status: %w", err)
	}

	return updated(result)
}

// GetByUser retrieves the subscription held by a user
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `
		SELECT id, user_id, provider_subscription_id, provider_customer_id, tier, status,
			current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`

	var sub model.Subscription
	if err := r.db.GetContext(ctx, &sub, query, userID); err != nil {
		return nil, notFound(err, "subscription")
	}

	return &sub, nil
}
