package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hebed-ai/hebed/internal/model"
)

const investmentColumns = `
	i.id, i.campaign_id, i.investor_profile_id, i.amount_cents, i.status,
	i.payment_intent_id, i.payment_status, i.rejection_reason, i.decided_at,
	i.created_at, i.updated_at`

// InvestmentRepository handles investment data operations
type InvestmentRepository struct {
	db DBExecutor
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db DBExecutor) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// CreateInvestment inserts a pending investment awaiting payment
func (r *InvestmentRepository) CreateInvestment(ctx context.Context, investment *model.Investment) error {
	query := `
		INSERT INTO investments (campaign_id, investor_profile_id, amount_cents, status, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	investment.Status = model.InvestmentPending
	investment.PaymentStatus = model.PaymentRequiresPayment

	err := r.db.GetContext(ctx, investment, query,
		investment.CampaignID, investment.InvestorProfileID, investment.AmountCents,
		investment.Status, investment.PaymentStatus)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// SetPaymentIntent links the payment provider's intent to the investment
func (r *InvestmentRepository) SetPaymentIntent(ctx context.Context, id int64, intentID string) error {
	query := `UPDATE investments SET payment_intent_id = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, intentID); err != nil {
		return fmt.Errorf("failed to set payment intent: %w", err)
	}

	return nil
}

// DeleteInvestment removes a pending investment that never got a payment intent
func (r *InvestmentRepository) DeleteInvestment(ctx context.Context, id int64) error {
	query := `DELETE FROM investments WHERE id = $1 AND status = 'pending' AND payment_intent_id IS NULL`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	return nil
}

// GetInvestment retrieves an investment by ID
func (r *InvestmentRepository) GetInvestment(ctx context.Context, id int64) (*model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.id = $1`

	var investment model.Investment
	if err := r.db.GetContext(ctx, &investment, query, id); err != nil {
		return nil, notFound(err, "investment")
	}

	return &investment, nil
}

// GetInvestmentParties retrieves an investment together with campaign owner and investor contacts
func (r *InvestmentRepository) GetInvestmentParties(ctx context.Context, id int64) (*model.InvestmentParties, error) {
	query := `
		SELECT ` + investmentColumns + `,
			c.title AS campaign_title,
			sp.user_id AS owner_user_id,
			sp.email AS owner_email,
			sp.company_name AS company_name,
			ip.user_id AS investor_user_id,
			ip.email AS investor_email,
			ip.display_name AS investor_name
		FROM investments i
		JOIN campaigns c ON c.id = i.campaign_id
		JOIN startup_profiles sp ON sp.id = c.startup_profile_id
		JOIN investor_profiles ip ON ip.id = i.investor_profile_id
		WHERE i.id = $1
	`

	var parties model.InvestmentParties
	if err := r.db.GetContext(ctx, &parties, query, id); err != nil {
		return nil, notFound(err, "investment")
	}

	return &parties, nil
}

// AcceptInvestment flips a pending investment to accepted and adds its amount to the
// campaign's raised total in one statement. The campaign becomes funded once the goal is met.
// Returns model.ErrConflict when the investment is no longer pending.
func (r *InvestmentRepository) AcceptInvestment(ctx context.Context, id int64) (int64, error) {
	query := `
		WITH decided AS (
			UPDATE investments
			SET status = 'accepted', decided_at = now(), updated_at = now()
			WHERE id = $1 AND status = 'pending'
			RETURNING campaign_id, amount_cents
		)
		UPDATE campaigns c
		SET amount_raised_cents = c.amount_raised_cents + d.amount_cents,
			status = CASE
				WHEN c.status = 'published' AND c.amount_raised_cents + d.amount_cents >= c.goal_cents THEN 'funded'
				ELSE c.status
			END,
			updated_at = now()
		FROM decided d
		WHERE c.id = d.campaign_id
		RETURNING c.amount_raised_cents
	`

	var raised int64
	if err := r.db.GetContext(ctx, &raised, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("investment is not pending: %w", model.ErrConflict)
		}
		return 0, fmt.Errorf("failed to accept investment: %w", err)
	}

	return raised, nil
}

// RejectInvestment flips a pending investment to rejected
func (r *InvestmentRepository) RejectInvestment(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE investments
		SET status = 'rejected', rejection_reason = NULLIF($2, ''), decided_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("failed to reject investment: %w", err)
	}

	return affectedOne(result, "investment is not pending")
}

// SetPaymentStatus updates the mirrored payment status of an investment
func (r *InvestmentRepository) SetPaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	query := `UPDATE investments SET payment_status = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to set payment status: %w", err)
	}

	return nil
}

// MarkCheckoutCompleted records a completed one-time checkout for an investment whose
// payment has not settled yet. Returns false when no such investment exists or its
// payment already succeeded or was refunded.
func (r *InvestmentRepository) MarkCheckoutCompleted(ctx context.Context, id int64, intentID string) (bool, error) {
	query := `
		UPDATE investments
		SET payment_status = 'pending_confirmation',
			payment_intent_id = COALESCE(NULLIF($2, ''), payment_intent_id),
			updated_at = now()
		WHERE id = $1 AND payment_status IN ('requires_payment', 'failed')
	`

	result, err := r.db.ExecContext(ctx, query, id, intentID)
	if err != nil {
		return false, fmt.Errorf("failed to mark checkout completed: %w", err)
	}

	return updated(result)
}

// SetPaymentStatusByIntent mirrors a payment intent's outcome onto its investment.
// Refunded investments keep their status. Returns false when no investment is linked.
func (r *InvestmentRepository) SetPaymentStatusByIntent(ctx context.Context, intentID string, status model.PaymentStatus) (bool, error) {
	query := `
		UPDATE investments
		SET payment_status = $2, updated_at = now()
		WHERE payment_intent_id = $1 AND payment_status <> 'refunded'
	`

	result, err := r.db.ExecContext(ctx, query, intentID, status)
	if err != nil {
		return false, fmt.Errorf("failed to set payment status: %w", err)
	}

	return updated(result)
}

// ListByCampaign returns investments made against a campaign, newest first
func (r *InvestmentRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.campaign_id = $1 ORDER BY i.created_at DESC, i.id DESC`

	var investments []*model.Investment
	if err := r.db.SelectContext(ctx, &investments, query, campaignID); err != nil {
		return nil, fmt.Errorf("failed to list campaign investments: %w", err)
	}

	return investments, nil
}

// ListByInvestor returns investments made by an investor profile, newest first
func (r *InvestmentRepository) ListByInvestor(ctx context.Context, investorProfileID int64) ([]*model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments i WHERE i.investor_profile_id = $1 ORDER BY i.created_at DESC, i.id DESC`

	var investments []*model.Investment
	if err := r.db.SelectContext(ctx, &investments, query, investorProfileID); err != nil {
		return nil, fmt.Errorf("failed to list investor investments: %w", err)
	}

	return investments, nil
}

func updated(result sql.Result) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
