package model

import (
	"database/sql"
	"time"
)

// InvestmentStatus is the startup-facing decision state of an investment
type InvestmentStatus string

const (
	InvestmentPending  = InvestmentStatus("pending")
	InvestmentAccepted = InvestmentStatus("accepted")
	InvestmentRejected = InvestmentStatus("rejected")
)

// PaymentStatus mirrors the payment provider's view of the linked payment intent
type PaymentStatus string

const (
	PaymentRequiresPayment     = PaymentStatus("requires_payment")
	PaymentPendingConfirmation = PaymentStatus("pending_confirmation")
	PaymentSucceeded           = PaymentStatus("succeeded")
	PaymentFailed              = PaymentStatus("failed")
	PaymentRefunded            = PaymentStatus("refunded")
)

// Decision is a startup's answer to a pending investment
type Decision string

const (
	DecisionAccept = Decision("accept")
	DecisionReject = Decision("reject")
)

// Investment represents one investor's pledge against one campaign
type Investment struct {
	ID                int64            `db:"id"`
	CampaignID        int64            `db:"campaign_id"`
	InvestorProfileID int64            `db:"investor_profile_id"`
	AmountCents       int64            `db:"amount_cents"`
	Status            InvestmentStatus `db:"status"`
	PaymentIntentID   sql.NullString   `db:"payment_intent_id"`
	PaymentStatus     PaymentStatus    `db:"payment_status"`
	RejectionReason   sql.NullString   `db:"rejection_reason"`
	DecidedAt         sql.NullTime     `db:"decided_at"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

// InvestmentParties is an investment joined with the people a decision concerns
type InvestmentParties struct {
	Investment

	CampaignTitle  string `db:"campaign_title"`
	OwnerUserID    string `db:"owner_user_id"`
	OwnerEmail     string `db:"owner_email"`
	CompanyName    string `db:"company_name"`
	InvestorUserID string `db:"investor_user_id"`
	InvestorEmail  string `db:"investor_email"`
	InvestorName   string `db:"investor_name"`
}
