package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/model"
)

func newCampaignServer(t *testing.T) (*CampaignServer, *memStore, *MockdocumentStore) {
	ctrl := gomock.NewController(t)
	store := newMemStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertStartupProfile(ctx, &model.StartupProfile{UserID: founder.UserID, CompanyName: "Startup AI"}))
	require.NoError(t, store.UpsertStartupProfile(ctx, &model.StartupProfile{UserID: rival.UserID, CompanyName: "Rival"}))

	documents := NewMockdocumentStore(ctrl)
	return NewCampaignServer(store, store, documents), store, documents
}

func validCampaign() *api.CreateCampaignRequest {
	maxTicket := int64(fiftyThousand)
	return &api.CreateCampaignRequest{
		Title:              "Vision LLM",
		Industry:           "robotics",
		Stage:              "seed",
		GoalCents:          10000000,
		MinInvestmentCents: thousandDollars,
		MaxInvestmentCents: &maxTicket,
		EquityPercent:      decimal.RequireFromString("12.5"),
	}
}

func TestCreateAndPublishCampaign(t *testing.T) {
	server, _, _ := newCampaignServer(t)

	created, err := server.CreateCampaign(as(founder), connect.NewRequest(validCampaign()))
	require.NoError(t, err)
	assert.Equal(t, "draft", created.Msg.Campaign.Status)
	assert.EqualValues(t, fiftyThousand, *created.Msg.Campaign.MaxInvestmentCents)
	assert.EqualValues(t, 70000000, created.Msg.Campaign.PreMoneyValuationCents)

	id := created.Msg.Campaign.ID

	// drafts stay hidden from everyone but the owner
	_, err = server.GetCampaign(as(investor), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	_, err = server.GetCampaign(as(founder), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	require.NoError(t, err)

	_, err = server.PublishCampaign(as(rival), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	published, err := server.PublishCampaign(as(founder), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	require.NoError(t, err)
	assert.Equal(t, "published", published.Msg.Campaign.Status)

	_, err = server.PublishCampaign(as(founder), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	assert.Equal(t, connect.CodeAborted, connect.CodeOf(err))

	got, err := server.GetCampaign(as(investor), connect.NewRequest(&api.CampaignRequest{CampaignID: id}))
	require.NoError(t, err)
	assert.Equal(t, "Vision LLM", got.Msg.Campaign.Title)
}

func TestCreateCampaignValidation(t *testing.T) {
	server, store, _ := newCampaignServer(t)
	past := time.Now().Add(-time.Hour)

	cases := map[string]func(r *api.CreateCampaignRequest){
		"no title":         func(r *api.CreateCampaignRequest) { r.Title = "  " },
		"zero goal":        func(r *api.CreateCampaignRequest) { r.GoalCents = 0 },
		"zero minimum":     func(r *api.CreateCampaignRequest) { r.MinInvestmentCents = 0 },
		"max below min":    func(r *api.CreateCampaignRequest) { v := int64(1); r.MaxInvestmentCents = &v },
		"max above goal":   func(r *api.CreateCampaignRequest) { v := int64(20000000); r.MaxInvestmentCents = &v },
		"zero equity":      func(r *api.CreateCampaignRequest) { r.EquityPercent = decimal.Zero },
		"equity above 100": func(r *api.CreateCampaignRequest) { r.EquityPercent = decimal.NewFromInt(101) },
		"past deadline":    func(r *api.CreateCampaignRequest) { r.Deadline = &past },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCampaign()
			mutate(req)
			_, err := server.CreateCampaign(as(founder), connect.NewRequest(req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}

	_, err := server.CreateCampaign(as(investor), connect.NewRequest(validCampaign()))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	assert.Empty(t, store.campaigns)
}

func TestListCampaigns(t *testing.T) {
	server, store, _ := newCampaignServer(t)
	ctx := context.Background()

	for _, industry := range []string{"robotics", "fintech", "robotics"} {
		req := validCampaign()
		req.Industry = industry
		created, err := server.CreateCampaign(as(founder), connect.NewRequest(req))
		require.NoError(t, err)
		require.NoError(t, store.PublishCampaign(ctx, created.Msg.Campaign.ID))
	}
	_, err := server.CreateCampaign(as(founder), connect.NewRequest(validCampaign()))
	require.NoError(t, err)

	all, err := server.ListCampaigns(as(investor), connect.NewRequest(&api.ListCampaignsRequest{}))
	require.NoError(t, err)
	assert.Len(t, all.Msg.Campaigns, 3)

	robotics, err := server.ListCampaigns(as(investor), connect.NewRequest(&api.ListCampaignsRequest{Industry: "robotics", PageSize: 1}))
	require.NoError(t, err)
	require.Len(t, robotics.Msg.Campaigns, 1)
	assert.Equal(t, "robotics", robotics.Msg.Campaigns[0].Industry)

	_, err = server.ListCampaigns(as(investor), connect.NewRequest(&api.ListCampaignsRequest{PageSize: -1}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = server.ListCampaigns(context.Background(), connect.NewRequest(&api.ListCampaignsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestUploadPitchDeck(t *testing.T) {
	server, store, documents := newCampaignServer(t)

	created, err := server.CreateCampaign(as(founder), connect.NewRequest(validCampaign()))
	require.NoError(t, err)
	id := created.Msg.Campaign.ID

	body := strings.NewReader("%PDF-1.7")
	key := "documents/campaigns/1/deck.pdf"
	gomock.InOrder(
		documents.EXPECT().
			Upload(gomock.Any(), id, "deck.pdf", PitchDeckContentType, body).
			Return(key, nil),
		documents.EXPECT().URL(key).Return("https://s3/deck.pdf?X-Amz-Date=1", nil),
	)

	url, err := server.UploadPitchDeck(as(founder), id, "deck.pdf", PitchDeckContentType, body)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/deck.pdf?X-Amz-Date=1", url)
	assert.Equal(t, key, store.campaign(id).PitchDeckKey.String)

	_, err = server.UploadPitchDeck(as(founder), id, "deck.png", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = server.UploadPitchDeck(as(rival), id, "deck.pdf", PitchDeckContentType, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestPitchDeckLinkIsResolvedOnRead(t *testing.T) {
	server, store, documents := newCampaignServer(t)

	created, err := server.CreateCampaign(as(founder), connect.NewRequest(validCampaign()))
	require.NoError(t, err)
	id := created.Msg.Campaign.ID
	assert.False(t, created.Msg.Campaign.HasPitchDeck)

	key := "documents/campaigns/1/deck.pdf"
	require.NoError(t, store.SetPitchDeckKey(context.Background(), id, key))

	// every read signs a new link from the stored key
	gomock.InOrder(
		documents.EXPECT().URL(key).Return("https://s3/deck.pdf?X-Amz-Date=1", nil),
		documents.EXPECT().URL(key).Return("https://s3/deck.pdf?X-Amz-Date=2", nil),
		documents.EXPECT().URL(key).Return("", errors.New("no credentials")),
	)

	req := connect.NewRequest(&api.CampaignRequest{CampaignID: id})
	first, err := server.GetCampaign(as(founder), req)
	require.NoError(t, err)
	assert.True(t, first.Msg.Campaign.HasPitchDeck)
	assert.Equal(t, "https://s3/deck.pdf?X-Amz-Date=1", first.Msg.Campaign.PitchDeckURL)

	later, err := server.GetCampaign(as(founder), req)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/deck.pdf?X-Amz-Date=2", later.Msg.Campaign.PitchDeckURL)

	failed, err := server.GetCampaign(as(founder), req)
	require.NoError(t, err)
	assert.True(t, failed.Msg.Campaign.HasPitchDeck)
	assert.Empty(t, failed.Msg.Campaign.PitchDeckURL)
}
