package repository

import (
	"context"
	"fmt"

	"github.com/hebed-ai/hebed/internal/model"
)

// WatchlistRepository handles investor watchlist data operations
type WatchlistRepository struct {
	db DBExecutor
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db DBExecutor) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// AddToWatchlist adds a campaign to an investor's watchlist. Adding twice is a no-op.
func (r *WatchlistRepository) AddToWatchlist(ctx context.Context, investorProfileID, campaignID int64) error {
	query := `
		INSERT INTO watchlist_entries (investor_profile_id, campaign_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, investorProfileID, campaignID); err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	return nil
}

// RemoveFromWatchlist removes a campaign from an investor's watchlist. Removing a missing entry is a no-op.
func (r *WatchlistRepository) RemoveFromWatchlist(ctx context.Context, investorProfileID, campaignID int64) error {
	query := `DELETE FROM watchlist_entries WHERE investor_profile_id = $1 AND campaign_id = $2`

	if _, err := r.db.ExecContext(ctx, query, investorProfileID, campaignID); err != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}

	return nil
}

// ListWatchlist returns the non-draft campaigns an investor watches, most recently added first
func (r *WatchlistRepository) ListWatchlist(ctx context.Context, investorProfileID int64) ([]*model.Campaign, error) {
	query := `
		SELECT c.id, c.startup_profile_id, c.title, c.summary, c.industry, c.stage, c.goal_cents,
			c.min_investment_cents, c.max_investment_cents, c.equity_percent, c.amount_raised_cents,
			c.status, c.deadline, c.pitch_deck_key, c.created_at, c.updated_at
		FROM watchlist_entries w
		JOIN campaigns c ON c.id = w.campaign_id
		WHERE w.investor_profile_id = $1 AND c.status <> 'draft'
		ORDER BY w.created_at DESC
	`

	var campaigns []*model.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, investorProfileID); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	return campaigns, nil
}
