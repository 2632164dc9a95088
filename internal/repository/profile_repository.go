package repository

import (
	"context"
	"fmt"

	"github.com/hebed-ai/hebed/internal/model"
)

// ProfileRepository handles startup and investor profile data operations
type ProfileRepository struct {
	db DBExecutor
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DBExecutor) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertStartupProfile creates or updates the startup profile owned by profile.UserID
func (r *ProfileRepository) UpsertStartupProfile(ctx context.Context, profile *model.StartupProfile) error {
	query := `
		INSERT INTO startup_profiles (user_id, email, company_name, industry, stage, website)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			company_name = EXCLUDED.company_name,
			industry = EXCLUDED.industry,
			stage = EXCLUDED.stage,
			website = EXCLUDED.website,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.db.GetContext(ctx, profile, query,
		profile.UserID, profile.Email, profile.CompanyName, profile.Industry, profile.Stage, profile.Website)
	if err != nil {
		return fmt.Errorf("failed to upsert startup profile: %w", err)
	}

	return nil
}

// GetStartupProfileByUser retrieves the startup profile owned by a user
func (r *ProfileRepository) GetStartupProfileByUser(ctx context.Context, userID string) (*model.StartupProfile, error) {
	query := `
		SELECT id, user_id, email, company_name, industry, stage, website, created_at, updated_at
		FROM startup_profiles
		WHERE user_id = $1
	`

	var profile model.StartupProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, notFound(err, "startup profile")
	}

	return &profile, nil
}

// UpsertInvestorProfile creates or updates the investor profile owned by profile.UserID
func (r *ProfileRepository) UpsertInvestorProfile(ctx context.Context, profile *model.InvestorProfile) error {
	query := `
		INSERT INTO investor_profiles (user_id, email, display_name, industries, stages, ticket_min_cents, ticket_max_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			industries = EXCLUDED.industries,
			stages = EXCLUDED.stages,
			ticket_min_cents = EXCLUDED.ticket_min_cents,
			ticket_max_cents = EXCLUDED.ticket_max_cents,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.db.GetContext(ctx, profile, query,
		profile.UserID, profile.Email, profile.DisplayName, profile.Industries, profile.Stages,
		profile.TicketMinCents, profile.TicketMaxCents)
	if err != nil {
		return fmt.Errorf("failed to upsert investor profile: %w", err)
	}

	return nil
}

// GetInvestorProfileByUser retrieves the investor profile owned by a user
func (r *ProfileRepository) GetInvestorProfileByUser(ctx context.Context, userID string) (*model.InvestorProfile, error) {
	query := `
		SELECT id, user_id, email, display_name, industries, stages,
			ticket_min_cents, ticket_max_cents, created_at, updated_at
		FROM investor_profiles
		WHERE user_id = $1
	`

	var profile model.InvestorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, notFound(err, "investor profile")
	}

	return &profile, nil
}
