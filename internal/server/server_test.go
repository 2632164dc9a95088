package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/config"
	"github.com/hebed-ai/hebed/internal/model"
)

var errUnimplemented = connect.NewError(connect.CodeUnimplemented, errors.New("not under test"))

// stubServices answers GetCampaign with the caller's id and nothing else
type stubServices struct{}

func (stubServices) CreateInvestment(context.Context, *connect.Request[api.CreateInvestmentRequest]) (*connect.Response[api.CreateInvestmentResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) DecideInvestment(context.Context, *connect.Request[api.DecideInvestmentRequest]) (*connect.Response[api.DecideInvestmentResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) ListMyInvestments(context.Context, *connect.Request[api.Empty]) (*connect.Response[api.ListInvestmentsResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) ListCampaignInvestments(context.Context, *connect.Request[api.ListCampaignInvestmentsRequest]) (*connect.Response[api.ListInvestmentsResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) CreateCampaign(context.Context, *connect.Request[api.CreateCampaignRequest]) (*connect.Response[api.CampaignResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) PublishCampaign(context.Context, *connect.Request[api.CampaignRequest]) (*connect.Response[api.CampaignResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) GetCampaign(ctx context.Context, req *connect.Request[api.CampaignRequest]) (*connect.Response[api.CampaignResponse], error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return connect.NewResponse(&api.CampaignResponse{
		Campaign: &api.Campaign{ID: req.Msg.CampaignID, Title: identity.UserID},
	}), nil
}

func (stubServices) ListCampaigns(context.Context, *connect.Request[api.ListCampaignsRequest]) (*connect.Response[api.ListCampaignsResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) UpsertStartupProfile(context.Context, *connect.Request[api.UpsertStartupProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) UpsertInvestorProfile(context.Context, *connect.Request[api.UpsertInvestorProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) GetMyProfile(context.Context, *connect.Request[api.Empty]) (*connect.Response[api.ProfileResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) AddToWatchlist(context.Context, *connect.Request[api.CampaignRequest]) (*connect.Response[api.Empty], error) {
	return nil, errUnimplemented
}

func (stubServices) RemoveFromWatchlist(context.Context, *connect.Request[api.CampaignRequest]) (*connect.Response[api.Empty], error) {
	return nil, errUnimplemented
}

func (stubServices) ListWatchlist(context.Context, *connect.Request[api.Empty]) (*connect.Response[api.ListCampaignsResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) CreateSubscriptionCheckout(context.Context, *connect.Request[api.CreateSubscriptionCheckoutRequest]) (*connect.Response[api.CreateSubscriptionCheckoutResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) GetSubscription(context.Context, *connect.Request[api.Empty]) (*connect.Response[api.SubscriptionResponse], error) {
	return nil, errUnimplemented
}

func (stubServices) RecommendCampaigns(context.Context, *connect.Request[api.RecommendCampaignsRequest]) (*connect.Response[api.RecommendCampaignsResponse], error) {
	return nil, errUnimplemented
}

type upload struct {
	campaignID  int64
	filename    string
	contentType string
	body        []byte
}

type fakeUploader struct {
	uploads []upload
}

func (f *fakeUploader) UploadPitchDeck(_ context.Context, campaignID int64, filename, contentType string, reader io.Reader) (string, error) {
	if contentType != "application/pdf" {
		return "", fmt.Errorf("pitch deck must be a PDF: %w", model.ErrValidation)
	}
	if campaignID == 404 {
		return "", fmt.Errorf("campaign: %w", model.ErrNotFound)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, upload{campaignID, filename, contentType, body})
	return "https://cdn.hebed.ai/documents/campaigns/1/" + filename, nil
}

type fakeDB struct {
	err error
}

func (f fakeDB) PingContext(context.Context) error { return f.err }

const jwtSecret = "test-secret"

func newTestRouter(t *testing.T, db pinger, uploader pitchDeckUploader) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	verifier := auth.NewVerifier(jwtSecret, "")

	token, err := verifier.Issue(model.Identity{UserID: "founder-1", Email: "founder@hebed.ai", Role: model.RoleStartup}, time.Hour)
	require.NoError(t, err)

	svc := Services{
		Investments:     stubServices{},
		Campaigns:       stubServices{},
		Profiles:        stubServices{},
		Watchlist:       stubServices{},
		Billing:         stubServices{},
		Recommendations: stubServices{},
		PitchDecks:      uploader,
		Webhook: func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"received": true})
		},
	}

	cfg := config.ServerConfig{CORSOrigins: []string{"http://localhost:3000"}}
	return NewRouter(cfg, verifier, db, svc), token
}

func TestConnectRoutes(t *testing.T) {
	r, token := newTestRouter(t, fakeDB{}, nil)

	call := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, api.CampaignServiceGetCampaignProcedure, strings.NewReader(`{"campaign_id":7}`))
		req.Header.Set("Content-Type", "application/json")
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := call("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call("Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call("Bearer " + token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.CampaignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 7, resp.Campaign.ID)
	assert.Equal(t, "founder-1", resp.Campaign.Title)
}

func TestConnectClient(t *testing.T) {
	r, token := newTestRouter(t, fakeDB{}, nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := api.NewCampaignServiceClient(srv.Client(), srv.URL)
	req := connect.NewRequest(&api.CampaignRequest{CampaignID: 3})
	req.Header().Set("Authorization", "Bearer "+token)

	resp, err := client.GetCampaign(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Msg.Campaign.ID)

	_, err = client.ListCampaigns(context.Background(), connect.NewRequest(&api.ListCampaignsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, fakeDB{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down, _ := newTestRouter(t, fakeDB{err: errors.New("connection refused")}, nil)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	r, _ := newTestRouter(t, fakeDB{}, nil)

	req := httptest.NewRequest(http.MethodOptions, api.CampaignServiceGetCampaignProcedure, nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebhookRoute(t *testing.T) {
	r, _ := newTestRouter(t, fakeDB{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadPitchDeck(t *testing.T) {
	uploader := &fakeUploader{}
	r, token := newTestRouter(t, fakeDB{}, uploader)

	post := func(path, filename string, content []byte, authorized bool) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, filename, content)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		if authorized {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

	rec := post("/campaigns/1/pitch-deck", "deck.pdf", pdf, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post("/campaigns/1/pitch-deck", "deck.pdf", pdf, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "deck.pdf")
	require.Len(t, uploader.uploads, 1)
	assert.Equal(t, upload{1, "deck.pdf", "application/pdf", pdf}, uploader.uploads[0])

	// content is sniffed, the extension does not matter
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	rec = post("/campaigns/1/pitch-deck", "deck.pdf", png, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post("/campaigns/404/pitch-deck", "deck.pdf", pdf, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post("/campaigns/abc/pitch-deck", "deck.pdf", pdf, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := append(append([]byte{}, pdf...), bytes.Repeat([]byte{'0'}, MaxPitchDeckBytes)...)
	rec = post("/campaigns/1/pitch-deck", "deck.pdf", big, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	assert.Len(t, uploader.uploads, 1)
}

func TestUploadDisabledWithoutStorage(t *testing.T) {
	r, token := newTestRouter(t, fakeDB{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/1/pitch-deck", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
