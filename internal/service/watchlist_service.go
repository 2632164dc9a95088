package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/model"
)

// WatchlistServer lets investors bookmark campaigns
type WatchlistServer struct {
	watchlist watchlistStore
	campaigns campaignStore
	profiles  profileStore
}

var _ api.WatchlistServiceHandler = (*WatchlistServer)(nil)

func NewWatchlistServer(watchlist watchlistStore, campaigns campaignStore, profiles profileStore) *WatchlistServer {
	return &WatchlistServer{watchlist: watchlist, campaigns: campaigns, profiles: profiles}
}

func (s *WatchlistServer) investor(ctx context.Context) (*model.InvestorProfile, error) {
	identity, err := auth.RequireRole(ctx, model.RoleInvestor)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetInvestorProfileByUser(ctx, identity.UserID)
}

// AddToWatchlist bookmarks a campaign that has left draft. Adding it again is a no-op.
func (s *WatchlistServer) AddToWatchlist(
	ctx context.Context,
	req *connect.Request[api.CampaignRequest],
) (*connect.Response[api.Empty], error) {
	investor, err := s.investor(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.Msg.CampaignID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if campaign.Status == model.CampaignDraft {
		return nil, toConnectError(fmt.Errorf("campaign %d: %w", campaign.ID, model.ErrNotFound))
	}

	if err := s.watchlist.AddToWatchlist(ctx, investor.ID, req.Msg.CampaignID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.Empty{}), nil
}

// RemoveFromWatchlist drops a bookmark. Removing a missing one is a no-op.
func (s *WatchlistServer) RemoveFromWatchlist(
	ctx context.Context,
	req *connect.Request[api.CampaignRequest],
) (*connect.Response[api.Empty], error) {
	investor, err := s.investor(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.watchlist.RemoveFromWatchlist(ctx, investor.ID, req.Msg.CampaignID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.Empty{}), nil
}

func (s *WatchlistServer) ListWatchlist(
	ctx context.Context,
	_ *connect.Request[api.Empty],
) (*connect.Response[api.ListCampaignsResponse], error) {
	investor, err := s.investor(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	campaigns, err := s.watchlist.ListWatchlist(ctx, investor.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListCampaignsResponse{Campaigns: toAPICampaigns(campaigns)}), nil
}
