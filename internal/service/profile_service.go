package service

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/lib/pq"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/model"
)

// ProfileServer manages the user-scoped startup and investor profiles
type ProfileServer struct {
	profiles profileStore
}

var _ api.ProfileServiceHandler = (*ProfileServer)(nil)

func NewProfileServer(profiles profileStore) *ProfileServer {
	return &ProfileServer{profiles: profiles}
}

func (s *ProfileServer) UpsertStartupProfile(
	ctx context.Context,
	req *connect.Request[api.UpsertStartupProfileRequest],
) (*connect.Response[api.ProfileResponse], error) {
	identity, err := auth.RequireRole(ctx, model.RoleStartup)
	if err != nil {
		return nil, toConnectError(err)
	}

	if strings.TrimSpace(req.Msg.CompanyName) == "" {
		return nil, toConnectError(fmt.Errorf("company name is required: %w", model.ErrValidation))
	}

	profile := &model.StartupProfile{
		UserID:      identity.UserID,
		Email:       identity.Email,
		CompanyName: strings.TrimSpace(req.Msg.CompanyName),
		Industry:    req.Msg.Industry,
		Stage:       req.Msg.Stage,
		Website:     req.Msg.Website,
	}
	if err := s.profiles.UpsertStartupProfile(ctx, profile); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProfileResponse{
		Role:    string(identity.Role),
		Startup: toAPIStartupProfile(profile),
	}), nil
}

func (s *ProfileServer) UpsertInvestorProfile(
	ctx context.Context,
	req *connect.Request[api.UpsertInvestorProfileRequest],
) (*connect.Response[api.ProfileResponse], error) {
	identity, err := auth.RequireRole(ctx, model.RoleInvestor)
	if err != nil {
		return nil, toConnectError(err)
	}

	msg := req.Msg
	switch {
	case strings.TrimSpace(msg.DisplayName) == "":
		return nil, toConnectError(fmt.Errorf("display name is required: %w", model.ErrValidation))
	case msg.TicketMinCents < 0 || msg.TicketMaxCents < 0:
		return nil, toConnectError(fmt.Errorf("ticket sizes must not be negative: %w", model.ErrValidation))
	case msg.TicketMaxCents > 0 && msg.TicketMaxCents < msg.TicketMinCents:
		return nil, toConnectError(fmt.Errorf("ticket maximum is below the minimum: %w", model.ErrValidation))
	}

	profile := &model.InvestorProfile{
		UserID:         identity.UserID,
		Email:          identity.Email,
		DisplayName:    strings.TrimSpace(msg.DisplayName),
		Industries:     pq.StringArray(normalize(msg.Industries)),
		Stages:         pq.StringArray(normalize(msg.Stages)),
		TicketMinCents: msg.TicketMinCents,
		TicketMaxCents: msg.TicketMaxCents,
	}
	if err := s.profiles.UpsertInvestorProfile(ctx, profile); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProfileResponse{
		Role:     string(identity.Role),
		Investor: toAPIInvestorProfile(profile),
	}), nil
}

// GetMyProfile returns the profile matching the caller's role
func (s *ProfileServer) GetMyProfile(
	ctx context.Context,
	_ *connect.Request[api.Empty],
) (*connect.Response[api.ProfileResponse], error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &api.ProfileResponse{Role: string(identity.Role)}

	switch identity.Role {
	case model.RoleStartup:
		profile, err := s.profiles.GetStartupProfileByUser(ctx, identity.UserID)
		if err != nil {
			return nil, toConnectError(err)
		}
		res.Startup = toAPIStartupProfile(profile)
	case model.RoleInvestor:
		profile, err := s.profiles.GetInvestorProfileByUser(ctx, identity.UserID)
		if err != nil {
			return nil, toConnectError(err)
		}
		res.Investor = toAPIInvestorProfile(profile)
	}

	return connect.NewResponse(res), nil
}

// normalize lowercases, trims and de-duplicates preference tags
func normalize(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
