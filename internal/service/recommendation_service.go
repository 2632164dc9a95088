package service

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/matching"
	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/repository"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
	candidatePool          = 500
)

// RecommendationServer ranks open campaigns against the calling investor's preferences
type RecommendationServer struct {
	campaigns campaignStore
	profiles  profileStore
	now       func() time.Time
}

var _ api.RecommendationServiceHandler = (*RecommendationServer)(nil)

func NewRecommendationServer(campaigns campaignStore, profiles profileStore) *RecommendationServer {
	return &RecommendationServer{campaigns: campaigns, profiles: profiles, now: time.Now}
}

func (s *RecommendationServer) RecommendCampaigns(
	ctx context.Context,
	req *connect.Request[api.RecommendCampaignsRequest],
) (*connect.Response[api.RecommendCampaignsResponse], error) {
	identity, err := auth.RequireRole(ctx, model.RoleInvestor)
	if err != nil {
		return nil, toConnectError(err)
	}

	limit := req.Msg.Limit
	switch {
	case limit < 0:
		return nil, toConnectError(fmt.Errorf("limit must not be negative: %w", model.ErrValidation))
	case limit == 0:
		limit = defaultRecommendations
	case limit > maxRecommendations:
		limit = maxRecommendations
	}

	investor, err := s.profiles.GetInvestorProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	candidates, err := s.campaigns.ListCampaigns(ctx, repository.CampaignFilter{
		Statuses: []model.CampaignStatus{model.CampaignPublished},
		Limit:    candidatePool,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	now := s.now()
	open := candidates[:0]
	for _, c := range candidates {
		if c.IsOpen(now) {
			open = append(open, c)
		}
	}

	matches := matching.Rank(investor, open, limit)

	res := &api.RecommendCampaignsResponse{Recommendations: make([]*api.Recommendation, 0, len(matches))}
	for _, m := range matches {
		res.Recommendations = append(res.Recommendations, &api.Recommendation{
			Campaign: toAPICampaign(m.Campaign),
			Score:    m.Score,
			Reasons:  m.Reasons,
		})
	}

	return connect.NewResponse(res), nil
}
