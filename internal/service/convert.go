package service

import (
	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/model"
)

func toAPICampaign(c *model.Campaign) *api.Campaign {
	out := &api.Campaign{
		ID:                     c.ID,
		StartupProfileID:       c.StartupProfileID,
		Title:                  c.Title,
		Summary:                c.Summary,
		Industry:               c.Industry,
		Stage:                  c.Stage,
		GoalCents:              c.GoalCents,
		MinInvestmentCents:     c.MinInvestmentCents,
		EquityPercent:          c.EquityPercent,
		RaisedCents:            c.RaisedCents,
		PreMoneyValuationCents: c.PreMoneyValuationCents(),
		Status:                 string(c.Status),
		HasPitchDeck:           c.PitchDeckKey.Valid,
		CreatedAt:              c.CreatedAt,
	}
	if c.MaxInvestmentCents.Valid {
		maxCents := c.MaxInvestmentCents.Int64
		out.MaxInvestmentCents = &maxCents
	}
	if c.Deadline.Valid {
		deadline := c.Deadline.Time
		out.Deadline = &deadline
	}
	return out
}

func toAPICampaigns(campaigns []*model.Campaign) []*api.Campaign {
	out := make([]*api.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, toAPICampaign(c))
	}
	return out
}

func toAPIInvestment(i *model.Investment) *api.Investment {
	out := &api.Investment{
		ID:              i.ID,
		CampaignID:      i.CampaignID,
		AmountCents:     i.AmountCents,
		Status:          string(i.Status),
		PaymentStatus:   string(i.PaymentStatus),
		PaymentIntentID: i.PaymentIntentID.String,
		RejectionReason: i.RejectionReason.String,
		CreatedAt:       i.CreatedAt,
	}
	if i.DecidedAt.Valid {
		decided := i.DecidedAt.Time
		out.DecidedAt = &decided
	}
	return out
}

func toAPIInvestments(investments []*model.Investment) []*api.Investment {
	out := make([]*api.Investment, 0, len(investments))
	for _, i := range investments {
		out = append(out, toAPIInvestment(i))
	}
	return out
}

func toAPIStartupProfile(p *model.StartupProfile) *api.StartupProfile {
	return &api.StartupProfile{
		ID:          p.ID,
		CompanyName: p.CompanyName,
		Industry:    p.Industry,
		Stage:       p.Stage,
		Website:     p.Website,
	}
}

func toAPIInvestorProfile(p *model.InvestorProfile) *api.InvestorProfile {
	return &api.InvestorProfile{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		Industries:     append([]string{}, p.Industries...),
		Stages:         append([]string{}, p.Stages...),
		TicketMinCents: p.TicketMinCents,
		TicketMaxCents: p.TicketMaxCents,
	}
}
