package model

import (
	"time"

	"github.com/lib/pq"
)

// Role is the platform role carried by an identity
type Role string

const (
	RoleStartup  = Role("startup")
	RoleInvestor = Role("investor")
	RoleAdmin    = Role("admin")
)

// Identity is the authenticated caller as reported by the identity provider
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// StartupProfile is the user-scoped profile owning campaigns
type StartupProfile struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	Email       string    `db:"email"`
	CompanyName string    `db:"company_name"`
	Industry    string    `db:"industry"`
	Stage       string    `db:"stage"`
	Website     string    `db:"website"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// InvestorProfile is the user-scoped profile owning investments and watchlist entries
type InvestorProfile struct {
	ID             int64          `db:"id"`
	UserID         string         `db:"user_id"`
	Email          string         `db:"email"`
	DisplayName    string         `db:"display_name"`
	Industries     pq.StringArray `db:"industries"`
	Stages         pq.StringArray `db:"stages"`
	TicketMinCents int64          `db:"ticket_min_cents"`
	TicketMaxCents int64          `db:"ticket_max_cents"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// WatchlistEntry joins an investor profile with a campaign
type WatchlistEntry struct {
	InvestorProfileID int64     `db:"investor_profile_id"`
	CampaignID        int64     `db:"campaign_id"`
	CreatedAt         time.Time `db:"created_at"`
}
