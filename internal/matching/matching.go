// Package matching ranks campaigns for an investor with a linear score over static weights.
package matching

import (
	"sort"
	"strings"

	"github.com/hebed-ai/hebed/internal/model"
)

const (
	WeightIndustry = 0.40
	WeightStage    = 0.25
	WeightTicket   = 0.20
	WeightMomentum = 0.15
)

// Match is a scored campaign
type Match struct {
	Campaign *model.Campaign
	Score    float64
	Reasons  []string
}

// Score rates how well a campaign fits an investor's preferences, in [0, 1]
func Score(investor *model.InvestorProfile, c *model.Campaign) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	if containsFold(investor.Industries, c.Industry) {
		score += WeightIndustry
		reasons = append(reasons, "industry")
	}

	if containsFold(investor.Stages, c.Stage) {
		score += WeightStage
		reasons = append(reasons, "stage")
	}

	if ticketFits(investor, c) {
		score += WeightTicket
		reasons = append(reasons, "ticket")
	}

	if progress := c.Progress(); progress > 0 {
		score += WeightMomentum * progress
		reasons = append(reasons, "momentum")
	}

	return score, reasons
}

// Rank scores campaigns and returns the best limit of them, newer campaigns first on ties
func Rank(investor *model.InvestorProfile, campaigns []*model.Campaign, limit int) []Match {
	matches := make([]Match, 0, len(campaigns))
	for _, c := range campaigns {
		score, reasons := Score(investor, c)
		matches = append(matches, Match{Campaign: c, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Campaign.CreatedAt.After(matches[j].Campaign.CreatedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ticketFits reports whether the investor's ticket range overlaps the campaign's bounds.
// An investor without a range fits any campaign.
func ticketFits(investor *model.InvestorProfile, c *model.Campaign) bool {
	if investor.TicketMinCents == 0 && investor.TicketMaxCents == 0 {
		return true
	}

	lo, hi := investor.TicketMinCents, investor.TicketMaxCents
	if hi == 0 {
		hi = 1<<63 - 1
	}

	if hi < c.MinInvestmentCents {
		return false
	}
	if c.MaxInvestmentCents.Valid && lo > c.MaxInvestmentCents.Int64 {
		return false
	}
	return true
}

func containsFold(list []string, value string) bool {
	if value == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
