package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	InvestmentServiceName     = "hebed.v1.InvestmentService"
	CampaignServiceName       = "hebed.v1.CampaignService"
	ProfileServiceName        = "hebed.v1.ProfileService"
	WatchlistServiceName      = "hebed.v1.WatchlistService"
	BillingServiceName        = "hebed.v1.BillingService"
	RecommendationServiceName = "hebed.v1.RecommendationService"
)

const (
	InvestmentServiceCreateInvestmentProcedure        = "/hebed.v1.InvestmentService/CreateInvestment"
	InvestmentServiceDecideInvestmentProcedure        = "/hebed.v1.InvestmentService/DecideInvestment"
	InvestmentServiceListMyInvestmentsProcedure       = "/hebed.v1.InvestmentService/ListMyInvestments"
	InvestmentServiceListCampaignInvestmentsProcedure = "/hebed.v1.InvestmentService/ListCampaignInvestments"

	CampaignServiceCreateCampaignProcedure  = "/hebed.v1.CampaignService/CreateCampaign"
	CampaignServicePublishCampaignProcedure = "/hebed.v1.CampaignService/PublishCampaign"
	CampaignServiceGetCampaignProcedure     = "/hebed.v1.CampaignService/GetCampaign"
	CampaignServiceListCampaignsProcedure   = "/hebed.v1.CampaignService/ListCampaigns"

	ProfileServiceUpsertStartupProfileProcedure  = "/hebed.v1.ProfileService/UpsertStartupProfile"
	ProfileServiceUpsertInvestorProfileProcedure = "/hebed.v1.ProfileService/UpsertInvestorProfile"
	ProfileServiceGetMyProfileProcedure          = "/hebed.v1.ProfileService/GetMyProfile"

	WatchlistServiceAddToWatchlistProcedure      = "/hebed.v1.WatchlistService/AddToWatchlist"
	WatchlistServiceRemoveFromWatchlistProcedure = "/hebed.v1.WatchlistService/RemoveFromWatchlist"
	WatchlistServiceListWatchlistProcedure       = "/hebed.v1.WatchlistService/ListWatchlist"

	BillingServiceCreateSubscriptionCheckoutProcedure = "/hebed.v1.BillingService/CreateSubscriptionCheckout"
	BillingServiceGetSubscriptionProcedure            = "/hebed.v1.BillingService/GetSubscription"

	RecommendationServiceRecommendCampaignsProcedure = "/hebed.v1.RecommendationService/RecommendCampaigns"
)

type InvestmentServiceHandler interface {
	CreateInvestment(context.Context, *connect.Request[CreateInvestmentRequest]) (*connect.Response[CreateInvestmentResponse], error)
	DecideInvestment(context.Context, *connect.Request[DecideInvestmentRequest]) (*connect.Response[DecideInvestmentResponse], error)
	ListMyInvestments(context.Context, *connect.Request[Empty]) (*connect.Response[ListInvestmentsResponse], error)
	ListCampaignInvestments(context.Context, *connect.Request[ListCampaignInvestmentsRequest]) (*connect.Response[ListInvestmentsResponse], error)
}

type CampaignServiceHandler interface {
	CreateCampaign(context.Context, *connect.Request[CreateCampaignRequest]) (*connect.Response[CampaignResponse], error)
	PublishCampaign(context.Context, *connect.Request[CampaignRequest]) (*connect.Response[CampaignResponse], error)
	GetCampaign(context.Context, *connect.Request[CampaignRequest]) (*connect.Response[CampaignResponse], error)
	ListCampaigns(context.Context, *connect.Request[ListCampaignsRequest]) (*connect.Response[ListCampaignsResponse], error)
}

type ProfileServiceHandler interface {
	UpsertStartupProfile(context.Context, *connect.Request[UpsertStartupProfileRequest]) (*connect.Response[ProfileResponse], error)
	UpsertInvestorProfile(context.Context, *connect.Request[UpsertInvestorProfileRequest]) (*connect.Response[ProfileResponse], error)
	GetMyProfile(context.Context, *connect.Request[Empty]) (*connect.Response[ProfileResponse], error)
}

type WatchlistServiceHandler interface {
	AddToWatchlist(context.Context, *connect.Request[CampaignRequest]) (*connect.Response[Empty], error)
	RemoveFromWatchlist(context.Context, *connect.Request[CampaignRequest]) (*connect.Response[Empty], error)
	ListWatchlist(context.Context, *connect.Request[Empty]) (*connect.Response[ListCampaignsResponse], error)
}

type BillingServiceHandler interface {
	CreateSubscriptionCheckout(context.Context, *connect.Request[CreateSubscriptionCheckoutRequest]) (*connect.Response[CreateSubscriptionCheckoutResponse], error)
	GetSubscription(context.Context, *connect.Request[Empty]) (*connect.Response[SubscriptionResponse], error)
}

type RecommendationServiceHandler interface {
	RecommendCampaigns(context.Context, *connect.Request[RecommendCampaignsRequest]) (*connect.Response[RecommendCampaignsResponse], error)
}

// handlerOptions forces the JSON codec ahead of caller options
func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	return connect.WithHandlerOptions(append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)...)
}

// serviceHandler routes procedures of one service and returns its path prefix
func serviceHandler(service string, procedures map[string]http.Handler) (string, http.Handler) {
	prefix := "/" + service + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		handler, ok := procedures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func NewInvestmentServiceHandler(svc InvestmentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(InvestmentServiceName, map[string]http.Handler{
		InvestmentServiceCreateInvestmentProcedure:        connect.NewUnaryHandler(InvestmentServiceCreateInvestmentProcedure, svc.CreateInvestment, o),
		InvestmentServiceDecideInvestmentProcedure:        connect.NewUnaryHandler(InvestmentServiceDecideInvestmentProcedure, svc.DecideInvestment, o),
		InvestmentServiceListMyInvestmentsProcedure:       connect.NewUnaryHandler(InvestmentServiceListMyInvestmentsProcedure, svc.ListMyInvestments, o),
		InvestmentServiceListCampaignInvestmentsProcedure: connect.NewUnaryHandler(InvestmentServiceListCampaignInvestmentsProcedure, svc.ListCampaignInvestments, o),
	})
}

func NewCampaignServiceHandler(svc CampaignServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(CampaignServiceName, map[string]http.Handler{
		CampaignServiceCreateCampaignProcedure:  connect.NewUnaryHandler(CampaignServiceCreateCampaignProcedure, svc.CreateCampaign, o),
		CampaignServicePublishCampaignProcedure: connect.NewUnaryHandler(CampaignServicePublishCampaignProcedure, svc.PublishCampaign, o),
		CampaignServiceGetCampaignProcedure:     connect.NewUnaryHandler(CampaignServiceGetCampaignProcedure, svc.GetCampaign, o),
		CampaignServiceListCampaignsProcedure:   connect.NewUnaryHandler(CampaignServiceListCampaignsProcedure, svc.ListCampaigns, o),
	})
}

func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(ProfileServiceName, map[string]http.Handler{
		ProfileServiceUpsertStartupProfileProcedure:  connect.NewUnaryHandler(ProfileServiceUpsertStartupProfileProcedure, svc.UpsertStartupProfile, o),
		ProfileServiceUpsertInvestorProfileProcedure: connect.NewUnaryHandler(ProfileServiceUpsertInvestorProfileProcedure, svc.UpsertInvestorProfile, o),
		ProfileServiceGetMyProfileProcedure:          connect.NewUnaryHandler(ProfileServiceGetMyProfileProcedure, svc.GetMyProfile, o),
	})
}

func NewWatchlistServiceHandler(svc WatchlistServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(WatchlistServiceName, map[string]http.Handler{
		WatchlistServiceAddToWatchlistProcedure:      connect.NewUnaryHandler(WatchlistServiceAddToWatchlistProcedure, svc.AddToWatchlist, o),
		WatchlistServiceRemoveFromWatchlistProcedure: connect.NewUnaryHandler(WatchlistServiceRemoveFromWatchlistProcedure, svc.RemoveFromWatchlist, o),
		WatchlistServiceListWatchlistProcedure:       connect.NewUnaryHandler(WatchlistServiceListWatchlistProcedure, svc.ListWatchlist, o),
	})
}

func NewBillingServiceHandler(svc BillingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(BillingServiceName, map[string]http.Handler{
		BillingServiceCreateSubscriptionCheckoutProcedure: connect.NewUnaryHandler(BillingServiceCreateSubscriptionCheckoutProcedure, svc.CreateSubscriptionCheckout, o),
		BillingServiceGetSubscriptionProcedure:            connect.NewUnaryHandler(BillingServiceGetSubscriptionProcedure, svc.GetSubscription, o),
	})
}

func NewRecommendationServiceHandler(svc RecommendationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(RecommendationServiceName, map[string]http.Handler{
		RecommendationServiceRecommendCampaignsProcedure: connect.NewUnaryHandler(RecommendationServiceRecommendCampaignsProcedure, svc.RecommendCampaigns, o),
	})
}

// Clients

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)...)
}

// InvestmentServiceClient calls the investment procedures
type InvestmentServiceClient struct {
	createInvestment        *connect.Client[CreateInvestmentRequest, CreateInvestmentResponse]
	decideInvestment        *connect.Client[DecideInvestmentRequest, DecideInvestmentResponse]
	listMyInvestments       *connect.Client[Empty, ListInvestmentsResponse]
	listCampaignInvestments *connect.Client[ListCampaignInvestmentsRequest, ListInvestmentsResponse]
}

func NewInvestmentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InvestmentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	o := clientOptions(opts)
	return &InvestmentServiceClient{
		createInvestment:        connect.NewClient[CreateInvestmentRequest, CreateInvestmentResponse](httpClient, baseURL+InvestmentServiceCreateInvestmentProcedure, o),
		decideInvestment:        connect.NewClient[DecideInvestmentRequest, DecideInvestmentResponse](httpClient, baseURL+InvestmentServiceDecideInvestmentProcedure, o),
		listMyInvestments:       connect.NewClient[Empty, ListInvestmentsResponse](httpClient, baseURL+InvestmentServiceListMyInvestmentsProcedure, o),
		listCampaignInvestments: connect.NewClient[ListCampaignInvestmentsRequest, ListInvestmentsResponse](httpClient, baseURL+InvestmentServiceListCampaignInvestmentsProcedure, o),
	}
}

func (c *InvestmentServiceClient) CreateInvestment(ctx context.Context, req *connect.Request[CreateInvestmentRequest]) (*connect.Response[CreateInvestmentResponse], error) {
	return c.createInvestment.CallUnary(ctx, req)
}

func (c *InvestmentServiceClient) DecideInvestment(ctx context.Context, req *connect.Request[DecideInvestmentRequest]) (*connect.Response[DecideInvestmentResponse], error) {
	return c.decideInvestment.CallUnary(ctx, req)
}

func (c *InvestmentServiceClient) ListMyInvestments(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListInvestmentsResponse], error) {
	return c.listMyInvestments.CallUnary(ctx, req)
}

func (c *InvestmentServiceClient) ListCampaignInvestments(ctx context.Context, req *connect.Request[ListCampaignInvestmentsRequest]) (*connect.Response[ListInvestmentsResponse], error) {
	return c.listCampaignInvestments.CallUnary(ctx, req)
}

// CampaignServiceClient calls the campaign procedures
type CampaignServiceClient struct {
	createCampaign  *connect.Client[CreateCampaignRequest, CampaignResponse]
	publishCampaign *connect.Client[CampaignRequest, CampaignResponse]
	getCampaign     *connect.Client[CampaignRequest, CampaignResponse]
	listCampaigns   *connect.Client[ListCampaignsRequest, ListCampaignsResponse]
}

func NewCampaignServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CampaignServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	o := clientOptions(opts)
	return &CampaignServiceClient{
		createCampaign:  connect.NewClient[CreateCampaignRequest, CampaignResponse](httpClient, baseURL+CampaignServiceCreateCampaignProcedure, o),
		publishCampaign: connect.NewClient[CampaignRequest, CampaignResponse](httpClient, baseURL+CampaignServicePublishCampaignProcedure, o),
		getCampaign:     connect.NewClient[CampaignRequest, CampaignResponse](httpClient, baseURL+CampaignServiceGetCampaignProcedure, o),
		listCampaigns:   connect.NewClient[ListCampaignsRequest, ListCampaignsResponse](httpClient, baseURL+CampaignServiceListCampaignsProcedure, o),
	}
}

func (c *CampaignServiceClient) CreateCampaign(ctx context.Context, req *connect.Request[CreateCampaignRequest]) (*connect.Response[CampaignResponse], error) {
	return c.createCampaign.CallUnary(ctx, req)
}

func (c *CampaignServiceClient) PublishCampaign(ctx context.Context, req *connect.Request[CampaignRequest]) (*connect.Response[CampaignResponse], error) {
	return c.publishCampaign.CallUnary(ctx, req)
}

func (c *CampaignServiceClient) GetCampaign(ctx context.Context, req *connect.Request[CampaignRequest]) (*connect.Response[CampaignResponse], error) {
	return c.getCampaign.CallUnary(ctx, req)
}

func (c *CampaignServiceClient) ListCampaigns(ctx context.Context, req *connect.Request[ListCampaignsRequest]) (*connect.Response[ListCampaignsResponse], error) {
	return c.listCampaigns.CallUnary(ctx, req)
}

// ProfileServiceClient calls the profile procedures
type ProfileServiceClient struct {
	upsertStartupProfile  *connect.Client[UpsertStartupProfileRequest, ProfileResponse]
	upsertInvestorProfile *connect.Client[UpsertInvestorProfileRequest, ProfileResponse]
	getMyProfile          *connect.Client[Empty, ProfileResponse]
}

func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProfileServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	o := clientOptions(opts)
	return &ProfileServiceClient{
		upsertStartupProfile:  connect.NewClient[UpsertStartupProfileRequest, ProfileResponse](httpClient, baseURL+ProfileServiceUpsertStartupProfileProcedure, o),
		upsertInvestorProfile: connect.NewClient[UpsertInvestorProfileRequest, ProfileResponse](httpClient, baseURL+ProfileServiceUpsertInvestorProfileProcedure, o),
		getMyProfile:          connect.NewClient[Empty, ProfileResponse](httpClient, baseURL+ProfileServiceGetMyProfileProcedure, o),
	}
}

func (c *ProfileServiceClient) UpsertStartupProfile(ctx context.Context, req *connect.Request[UpsertStartupProfileRequest]) (*connect.Response[ProfileResponse], error) {
	return c.upsertStartupProfile.CallUnary(ctx, req)
}

func (c *ProfileServiceClient) UpsertInvestorProfile(ctx context.Context, req *connect.Request[UpsertInvestorProfileRequest]) (*connect.Response[ProfileResponse], error) {
	return c.upsertInvestorProfile.CallUnary(ctx, req)
}

func (c *ProfileServiceClient) GetMyProfile(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ProfileResponse], error) {
	return c.getMyProfile.CallUnary(ctx, req)
}
