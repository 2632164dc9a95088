package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/repository"
)

// memStore keeps every table in memory. AcceptInvestment holds the lock across the status check
// and the campaign increment, the same guarantee the SQL statement gives.
type memStore struct {
	mu sync.Mutex

	nextID      int64
	campaigns   map[int64]*model.Campaign
	investments map[int64]*model.Investment
	startups    map[string]*model.StartupProfile
	investors   map[string]*model.InvestorProfile
	watchlist   map[int64][]int64
	subs        map[string]*model.Subscription
}

func newMemStore() *memStore {
	return &memStore{
		campaigns:   map[int64]*model.Campaign{},
		investments: map[int64]*model.Investment{},
		startups:    map[string]*model.StartupProfile{},
		investors:   map[string]*model.InvestorProfile{},
		watchlist:   map[int64][]int64{},
		subs:        map[string]*model.Subscription{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) campaign(id int64) *model.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *m.campaigns[id]
	return &c
}

func (m *memStore) investment(id int64) *model.Investment {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := *m.investments[id]
	return &i
}

// campaigns

func (m *memStore) CreateCampaign(_ context.Context, c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.Status = model.CampaignDraft
	c.CreatedAt = time.Now()
	stored := *c
	m.campaigns[c.ID] = &stored
	return nil
}

func (m *memStore) GetCampaign(_ context.Context, id int64) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign: %w", model.ErrNotFound)
	}
	out := *c
	return &out, nil
}

func (m *memStore) ListCampaigns(_ context.Context, filter repository.CampaignFilter) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Campaign
	for _, c := range m.campaigns {
		if filter.Industry != "" && c.Industry != filter.Industry {
			continue
		}
		for _, s := range filter.Statuses {
			if c.Status == s {
				cp := *c
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) PublishCampaign(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.Status != model.CampaignDraft {
		return fmt.Errorf("campaign is not a draft: %w", model.ErrConflict)
	}
	c.Status = model.CampaignPublished
	return nil
}

func (m *memStore) SetPitchDeckKey(_ context.Context, id int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return fmt.Errorf("campaign: %w", model.ErrNotFound)
	}
	c.PitchDeckKey = sql.NullString{String: key, Valid: true}
	return nil
}

// investments

func (m *memStore) CreateInvestment(_ context.Context, i *model.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.ID = m.id()
	i.Status = model.InvestmentPending
	i.PaymentStatus = model.PaymentRequiresPayment
	i.CreatedAt = time.Now()
	stored := *i
	m.investments[i.ID] = &stored
	return nil
}

func (m *memStore) SetPaymentIntent(_ context.Context, id int64, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investments[id].PaymentIntentID = sql.NullString{String: intentID, Valid: true}
	return nil
}

func (m *memStore) DeleteInvestment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.investments[id]; ok && i.Status == model.InvestmentPending && !i.PaymentIntentID.Valid {
		delete(m.investments, id)
	}
	return nil
}

func (m *memStore) GetInvestmentParties(_ context.Context, id int64) (*model.InvestmentParties, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investments[id]
	if !ok {
		return nil, fmt.Errorf("investment: %w", model.ErrNotFound)
	}
	p := &model.InvestmentParties{Investment: *i}
	if c, ok := m.campaigns[i.CampaignID]; ok {
		p.CampaignTitle = c.Title
		for _, s := range m.startups {
			if s.ID == c.StartupProfileID {
				p.OwnerUserID, p.OwnerEmail, p.CompanyName = s.UserID, s.Email, s.CompanyName
			}
		}
	}
	for _, inv := range m.investors {
		if inv.ID == i.InvestorProfileID {
			p.InvestorUserID, p.InvestorEmail, p.InvestorName = inv.UserID, inv.Email, inv.DisplayName
		}
	}
	return p, nil
}

func (m *memStore) AcceptInvestment(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investments[id]
	if !ok || i.Status != model.InvestmentPending {
		return 0, fmt.Errorf("investment is not pending: %w", model.ErrConflict)
	}
	i.Status = model.InvestmentAccepted
	i.DecidedAt = sql.NullTime{Time: time.Now(), Valid: true}

	c := m.campaigns[i.CampaignID]
	c.RaisedCents += i.AmountCents
	if c.Status == model.CampaignPublished && c.RaisedCents >= c.GoalCents {
		c.Status = model.CampaignFunded
	}
	return c.RaisedCents, nil
}

func (m *memStore) RejectInvestment(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investments[id]
	if !ok || i.Status != model.InvestmentPending {
		return fmt.Errorf("investment is not pending: %w", model.ErrConflict)
	}
	i.Status = model.InvestmentRejected
	i.RejectionReason = sql.NullString{String: reason, Valid: reason != ""}
	i.DecidedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

func (m *memStore) SetPaymentStatus(_ context.Context, id int64, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investments[id].PaymentStatus = status
	return nil
}

func (m *memStore) ListByCampaign(_ context.Context, campaignID int64) ([]*model.Investment, error) {
	return m.listInvestments(func(i *model.Investment) bool { return i.CampaignID == campaignID }), nil
}

func (m *memStore) ListByInvestor(_ context.Context, investorProfileID int64) ([]*model.Investment, error) {
	return m.listInvestments(func(i *model.Investment) bool { return i.InvestorProfileID == investorProfileID }), nil
}

func (m *memStore) listInvestments(keep func(*model.Investment) bool) []*model.Investment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Investment
	for _, i := range m.investments {
		if keep(i) {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out
}

// profiles

func (m *memStore) UpsertStartupProfile(_ context.Context, p *model.StartupProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.startups[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = m.id()
	}
	stored := *p
	m.startups[p.UserID] = &stored
	return nil
}

func (m *memStore) GetStartupProfileByUser(_ context.Context, userID string) (*model.StartupProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.startups[userID]
	if !ok {
		return nil, fmt.Errorf("startup profile: %w", model.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (m *memStore) UpsertInvestorProfile(_ context.Context, p *model.InvestorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.investors[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = m.id()
	}
	stored := *p
	m.investors[p.UserID] = &stored
	return nil
}

func (m *memStore) GetInvestorProfileByUser(_ context.Context, userID string) (*model.InvestorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.investors[userID]
	if !ok {
		return nil, fmt.Errorf("investor profile: %w", model.ErrNotFound)
	}
	out := *p
	return &out, nil
}

// watchlist

func (m *memStore) AddToWatchlist(_ context.Context, investorProfileID, campaignID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.watchlist[investorProfileID] {
		if id == campaignID {
			return nil
		}
	}
	m.watchlist[investorProfileID] = append(m.watchlist[investorProfileID], campaignID)
	return nil
}

func (m *memStore) RemoveFromWatchlist(_ context.Context, investorProfileID, campaignID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.watchlist[investorProfileID]
	for n, id := range ids {
		if id == campaignID {
			m.watchlist[investorProfileID] = append(ids[:n], ids[n+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) ListWatchlist(_ context.Context, investorProfileID int64) ([]*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Campaign
	for _, id := range m.watchlist[investorProfileID] {
		if m.campaigns[id].Status == model.CampaignDraft {
			continue
		}
		cp := *m.campaigns[id]
		out = append(out, &cp)
	}
	return out, nil
}

// subscriptions

func (m *memStore) GetByUser(_ context.Context, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[userID]
	if !ok {
		return nil, fmt.Errorf("subscription: %w", model.ErrNotFound)
	}
	out := *s
	return &out, nil
}
