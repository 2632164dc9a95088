package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/hebed-ai/hebed/internal/model"
)

const campaignColumns = `
	id, startup_profile_id, title, summary, industry, stage, goal_cents,
	min_investment_cents, max_investment_cents, equity_percent, amount_raised_cents,
	status, deadline, pitch_deck_key, created_at, updated_at`

// CampaignFilter narrows campaign listings
type CampaignFilter struct {
	Industry string
	Statuses []model.CampaignStatus
	Limit    int
	Offset   int
}

// CampaignRepository handles campaign data operations
type CampaignRepository struct {
	db DBExecutor
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db DBExecutor) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// CreateCampaign creates a new campaign in draft status
func (r *CampaignRepository) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	query := `
		INSERT INTO campaigns (
			startup_profile_id, title, summary, industry, stage, goal_cents,
			min_investment_cents, max_investment_cents, equity_percent, status, deadline
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, amount_raised_cents, created_at, updated_at
	`

	campaign.Status = model.CampaignDraft

	err := r.db.GetContext(ctx, campaign, query,
		campaign.StartupProfileID, campaign.Title, campaign.Summary, campaign.Industry, campaign.Stage,
		campaign.GoalCents, campaign.MinInvestmentCents, campaign.MaxInvestmentCents,
		campaign.EquityPercent, campaign.Status, campaign.Deadline)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// GetCampaign retrieves a campaign by ID
func (r *CampaignRepository) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	var campaign model.Campaign
	if err := r.db.GetContext(ctx, &campaign, query, id); err != nil {
		return nil, notFound(err, "campaign")
	}

	return &campaign, nil
}

// ListCampaigns returns campaigns matching the filter, newest first
func (r *CampaignRepository) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]*model.Campaign, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}

	query := `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status = ANY($1) AND ($2::text = '' OR industry = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	var campaigns []*model.Campaign
	err := r.db.SelectContext(ctx, &campaigns, query, pq.StringArray(statuses), filter.Industry, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return campaigns, nil
}

// PublishCampaign moves a draft campaign to published
func (r *CampaignRepository) PublishCampaign(ctx context.Context, id int64) error {
	query := `
		UPDATE campaigns
		SET status = 'published', updated_at = now()
		WHERE id = $1 AND status = 'draft'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to publish campaign: %w", err)
	}

	return affectedOne(result, "campaign is not a draft")
}

// SetPitchDeckKey stores the object key of the uploaded pitch deck
func (r *CampaignRepository) SetPitchDeckKey(ctx context.Context, id int64, key string) error {
	query := `UPDATE campaigns SET pitch_deck_key = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("failed to set pitch deck key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("campaign: %w", model.ErrNotFound)
	}

	return nil
}
