package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignDraft     = CampaignStatus("draft")
	CampaignPublished = CampaignStatus("published")
	CampaignFunded    = CampaignStatus("funded")
	CampaignClosed    = CampaignStatus("closed")
)

// Campaign represents a startup's fundraising listing in the database
type Campaign struct {
	ID                 int64           `db:"id"`
	StartupProfileID   int64           `db:"startup_profile_id"`
	Title              string          `db:"title"`
	Summary            string          `db:"summary"`
	Industry           string          `db:"industry"`
	Stage              string          `db:"stage"`
	GoalCents          int64           `db:"goal_cents"`
	MinInvestmentCents int64           `db:"min_investment_cents"`
	MaxInvestmentCents sql.NullInt64   `db:"max_investment_cents"`
	EquityPercent      decimal.Decimal `db:"equity_percent"`
	RaisedCents        int64           `db:"amount_raised_cents"`
	Status             CampaignStatus  `db:"status"`
	Deadline           sql.NullTime    `db:"deadline"`
	PitchDeckKey       sql.NullString  `db:"pitch_deck_key"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// AcceptsAmount reports whether amount falls within the campaign's ticket bounds
func (c *Campaign) AcceptsAmount(amount int64) bool {
	if amount < c.MinInvestmentCents {
		return false
	}
	if c.MaxInvestmentCents.Valid && amount > c.MaxInvestmentCents.Int64 {
		return false
	}
	return true
}

// IsOpen reports whether the campaign accepts new investments at the given time
func (c *Campaign) IsOpen(now time.Time) bool {
	if c.Status != CampaignPublished {
		return false
	}
	if c.Deadline.Valid && !now.Before(c.Deadline.Time) {
		return false
	}
	return true
}

// Progress returns raised/goal capped at 1
func (c *Campaign) Progress() float64 {
	if c.GoalCents <= 0 {
		return 0
	}
	p := float64(c.RaisedCents) / float64(c.GoalCents)
	if p > 1 {
		return 1
	}
	return p
}

// PreMoneyValuationCents returns the valuation implied by raising the goal for the offered equity:
// goal * 100 / equity - goal. Zero equity yields zero.
func (c *Campaign) PreMoneyValuationCents() int64 {
	if !c.EquityPercent.IsPositive() {
		return 0
	}
	goal := decimal.NewFromInt(c.GoalCents)
	post := goal.Mul(decimal.NewFromInt(100)).Div(c.EquityPercent)
	return post.Sub(goal).Round(0).IntPart()
}
