// Package api defines the RPC contract of the HEBED service: messages, procedures, handlers and clients.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Empty is the message of calls without a payload
type Empty struct{}

type Campaign struct {
	ID                     int64           `json:"id"`
	StartupProfileID       int64           `json:"startup_profile_id"`
	Title                  string          `json:"title"`
	Summary                string          `json:"summary"`
	Industry               string          `json:"industry"`
	Stage                  string          `json:"stage"`
	GoalCents              int64           `json:"goal_cents"`
	MinInvestmentCents     int64           `json:"min_investment_cents"`
	MaxInvestmentCents     *int64          `json:"max_investment_cents,omitempty"`
	EquityPercent          decimal.Decimal `json:"equity_percent"`
	RaisedCents            int64           `json:"amount_raised_cents"`
	PreMoneyValuationCents int64           `json:"pre_money_valuation_cents"`
	Status                 string          `json:"status"`
	Deadline               *time.Time      `json:"deadline,omitempty"`
	HasPitchDeck           bool            `json:"has_pitch_deck"`
	PitchDeckURL           string          `json:"pitch_deck_url,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

type Investment struct {
	ID              int64      `json:"id"`
	CampaignID      int64      `json:"campaign_id"`
	AmountCents     int64      `json:"amount_cents"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type StartupProfile struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Stage       string `json:"stage"`
	Website     string `json:"website,omitempty"`
}

type InvestorProfile struct {
	ID             int64    `json:"id"`
	DisplayName    string   `json:"display_name"`
	Industries     []string `json:"industries"`
	Stages         []string `json:"stages"`
	TicketMinCents int64    `json:"ticket_min_cents"`
	TicketMaxCents int64    `json:"ticket_max_cents"`
}

type Subscription struct {
	Tier             string    `json:"tier"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

// Investments

type CreateInvestmentRequest struct {
	CampaignID  int64 `json:"campaign_id"`
	AmountCents int64 `json:"amount_cents"`
}

type CreateInvestmentResponse struct {
	Investment   *Investment `json:"investment"`
	ClientSecret string      `json:"client_secret"`
}

type DecideInvestmentRequest struct {
	InvestmentID int64  `json:"investment_id"`
	Decision     string `json:"decision"` // accept or reject
	Reason       string `json:"reason,omitempty"`
}

type DecideInvestmentResponse struct {
	Investment          *Investment `json:"investment"`
	CampaignRaisedCents int64       `json:"campaign_raised_cents"`
}

type ListCampaignInvestmentsRequest struct {
	CampaignID int64 `json:"campaign_id"`
}

type ListInvestmentsResponse struct {
	Investments []*Investment `json:"investments"`
}

// Campaigns

type CreateCampaignRequest struct {
	Title              string          `json:"title"`
	Summary            string          `json:"summary"`
	Industry           string          `json:"industry"`
	Stage              string          `json:"stage"`
	GoalCents          int64           `json:"goal_cents"`
	MinInvestmentCents int64           `json:"min_investment_cents"`
	MaxInvestmentCents *int64          `json:"max_investment_cents,omitempty"`
	EquityPercent      decimal.Decimal `json:"equity_percent"`
	Deadline           *time.Time      `json:"deadline,omitempty"`
}

type CampaignRequest struct {
	CampaignID int64 `json:"campaign_id"`
}

type CampaignResponse struct {
	Campaign *Campaign `json:"campaign"`
}

type ListCampaignsRequest struct {
	Industry string `json:"industry,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

type ListCampaignsResponse struct {
	Campaigns []*Campaign `json:"campaigns"`
}

// Profiles

type UpsertStartupProfileRequest struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Stage       string `json:"stage"`
	Website     string `json:"website,omitempty"`
}

type UpsertInvestorProfileRequest struct {
	DisplayName    string   `json:"display_name"`
	Industries     []string `json:"industries"`
	Stages         []string `json:"stages"`
	TicketMinCents int64    `json:"ticket_min_cents"`
	TicketMaxCents int64    `json:"ticket_max_cents"`
}

type ProfileResponse struct {
	Role     string           `json:"role"`
	Startup  *StartupProfile  `json:"startup,omitempty"`
	Investor *InvestorProfile `json:"investor,omitempty"`
}

// Billing

type CreateSubscriptionCheckoutRequest struct {
	Tier string `json:"tier"`
}

type CreateSubscriptionCheckoutResponse struct {
	URL string `json:"url"`
}

type SubscriptionResponse struct {
	Subscription *Subscription `json:"subscription"`
}

// Recommendations

type RecommendCampaignsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type Recommendation struct {
	Campaign *Campaign `json:"campaign"`
	Score    float64   `json:"score"`
	Reasons  []string  `json:"reasons"`
}

type RecommendCampaignsResponse struct {
	Recommendations []*Recommendation `json:"recommendations"`
}
