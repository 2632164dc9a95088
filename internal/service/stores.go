package service

import (
	"context"

	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/repository"
)

// Persistence the services depend on, satisfied by the repository package

type campaignStore interface {
	CreateCampaign(ctx context.Context, campaign *model.Campaign) error
	GetCampaign(ctx context.Context, id int64) (*model.Campaign, error)
	ListCampaigns(ctx context.Context, filter repository.CampaignFilter) ([]*model.Campaign, error)
	PublishCampaign(ctx context.Context, id int64) error
	SetPitchDeckKey(ctx context.Context, id int64, key string) error
}

type investmentStore interface {
	CreateInvestment(ctx context.Context, investment *model.Investment) error
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
	DeleteInvestment(ctx context.Context, id int64) error
	GetInvestmentParties(ctx context.Context, id int64) (*model.InvestmentParties, error)
	AcceptInvestment(ctx context.Context, id int64) (int64, error)
	RejectInvestment(ctx context.Context, id int64, reason string) error
	SetPaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error
	ListByCampaign(ctx context.Context, campaignID int64) ([]*model.Investment, error)
	ListByInvestor(ctx context.Context, investorProfileID int64) ([]*model.Investment, error)
}

type profileStore interface {
	UpsertStartupProfile(ctx context.Context, profile *model.StartupProfile) error
	GetStartupProfileByUser(ctx context.Context, userID string) (*model.StartupProfile, error)
	UpsertInvestorProfile(ctx context.Context, profile *model.InvestorProfile) error
	GetInvestorProfileByUser(ctx context.Context, userID string) (*model.InvestorProfile, error)
}

type watchlistStore interface {
	AddToWatchlist(ctx context.Context, investorProfileID, campaignID int64) error
	RemoveFromWatchlist(ctx context.Context, investorProfileID, campaignID int64) error
	ListWatchlist(ctx context.Context, investorProfileID int64) ([]*model.Campaign, error)
}

type subscriptionStore interface {
	GetByUser(ctx context.Context, userID string) (*model.Subscription, error)
}

var (
	_ campaignStore     = (*repository.CampaignRepository)(nil)
	_ investmentStore   = (*repository.InvestmentRepository)(nil)
	_ profileStore      = (*repository.ProfileRepository)(nil)
	_ watchlistStore    = (*repository.WatchlistRepository)(nil)
	_ subscriptionStore = (*repository.SubscriptionRepository)(nil)
)
