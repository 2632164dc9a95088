package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/config"
	"github.com/hebed-ai/hebed/internal/model"
)

// PerfResult gathers aggregated metrics for one phase of the run.
// LatencySum & P95Latency are in nanoseconds.
type PerfResult struct {
	TotalRequests int64
	SuccessCount  int64
	ConflictCount int64
	ErrorCount    int64
	LatencySum    int64
	P95Latency    int64
}

const (
	fixedWorkers   = 20
	fixedRPSTarget = 100
	fixedDuration  = 20 * time.Second
	defaultTimeout = 30 * time.Second

	// Each pending investment is decided this many times concurrently; only one may win
	decisionsPerInvestment = 3

	minTicketCents = 1000    // $10
	maxTicketCents = 2500000 // $25,000
)

type pending struct {
	id     int64
	amount int64
}

type session struct {
	verifier *auth.Verifier
	baseURL  string
	http     *http.Client
}

func main() {
	baseURL := os.Getenv("HEBED_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	transport := &http.Transport{
		MaxIdleConns:        fixedWorkers * 4,
		MaxIdleConnsPerHost: fixedWorkers * 4,
		IdleConnTimeout:     90 * time.Second,
	}
	s := &session{
		verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		baseURL:  baseURL,
		http:     &http.Client{Transport: transport, Timeout: defaultTimeout},
	}

	run := uuid.NewString()[:8]
	founder := model.Identity{UserID: "perf-founder-" + run, Email: "founder+" + run + "@perf.hebed.ai", Role: model.RoleStartup}

	campaignID, err := s.setupCampaign(founder, run)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up campaign: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("==========================================")
	fmt.Println("HEBED investment load test")
	fmt.Println("==========================================")
	fmt.Printf("target     : %s\n", baseURL)
	fmt.Printf("campaign   : %d\n", campaignID)
	fmt.Printf("RPS        : %d\n", fixedRPSTarget)
	fmt.Printf("duration   : %v\n", fixedDuration)
	fmt.Println("==========================================")

	// ─── Phase 1: investors pledge ──────────────────────────────
	created := make(chan pending, 1<<16)
	var createResult PerfResult
	took := s.pledge(campaignID, run, created, &createResult)
	close(created)
	report("create investments", took, &createResult)

	var investments []pending
	for p := range created {
		investments = append(investments, p)
	}

	// ─── Phase 2: the founder decides, racing itself ────────────
	var decideResult PerfResult
	var acceptedSum int64
	took = s.decide(founder, investments, &decideResult, &acceptedSum)
	report("accept investments", took, &decideResult)

	// ─── Consistency check ──────────────────────────────────────
	fmt.Println("==========================================")
	fmt.Println("data consistency")
	fmt.Println("==========================================")
	if err := s.verify(founder, campaignID, int64(len(investments)), &decideResult, acceptedSum); err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: raised total matches accepted investments")
}

func (s *session) client(identity model.Identity) (connect.Interceptor, error) {
	token, err := s.verifier.Issue(identity, time.Hour)
	if err != nil {
		return nil, err
	}
	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}), nil
}

func (s *session) setupCampaign(founder model.Identity, run string) (int64, error) {
	bearer, err := s.client(founder)
	if err != nil {
		return 0, err
	}
	opts := connect.WithInterceptors(bearer)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	profiles := api.NewProfileServiceClient(s.http, s.baseURL, opts)
	if _, err := profiles.UpsertStartupProfile(ctx, connect.NewRequest(&api.UpsertStartupProfileRequest{
		CompanyName: "Perf Robotics " + run,
		Industry:    "robotics",
		Stage:       "seed",
	})); err != nil {
		return 0, fmt.Errorf("create startup profile: %w", err)
	}

	campaigns := api.NewCampaignServiceClient(s.http, s.baseURL, opts)
	resp, err := campaigns.CreateCampaign(ctx, connect.NewRequest(&api.CreateCampaignRequest{
		Title:              "Load test " + run,
		Summary:            "Synthetic campaign for concurrency testing",
		Industry:           "robotics",
		Stage:              "seed",
		GoalCents:          1 << 50,
		MinInvestmentCents: minTicketCents,
		EquityPercent:      decimal.NewFromInt(10),
	}))
	if err != nil {
		return 0, fmt.Errorf("create campaign: %w", err)
	}

	id := resp.Msg.Campaign.ID
	if _, err := campaigns.PublishCampaign(ctx, connect.NewRequest(&api.CampaignRequest{CampaignID: id})); err != nil {
		return 0, fmt.Errorf("publish campaign: %w", err)
	}
	return id, nil
}

// pledge runs rate limited CreateInvestment calls, one investor identity per worker
func (s *session) pledge(campaignID int64, run string, out chan<- pending, result *PerfResult) time.Duration {
	limiter := rate.NewLimiter(rate.Limit(fixedRPSTarget), max(fixedRPSTarget/fixedWorkers, 1))

	ctx, cancel := context.WithTimeout(context.Background(), fixedDuration)
	defer cancel()

	latencies := make(chan time.Duration, 4096)
	done := make(chan struct{})
	go func() {
		trackP95(latencies, result)
		close(done)
	}()

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < fixedWorkers; i++ {
		investor := model.Identity{
			UserID: fmt.Sprintf("perf-investor-%s-%d", run, i),
			Email:  fmt.Sprintf("investor+%s-%d@perf.hebed.ai", run, i),
			Role:   model.RoleInvestor,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			bearer, err := s.client(investor)
			if err != nil {
				return
			}
			opts := connect.WithInterceptors(bearer)

			setupCtx, setupCancel := context.WithTimeout(context.Background(), defaultTimeout)
			_, err = api.NewProfileServiceClient(s.http, s.baseURL, opts).
				UpsertInvestorProfile(setupCtx, connect.NewRequest(&api.UpsertInvestorProfileRequest{DisplayName: investor.UserID}))
			setupCancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "investor profile: %v\n", err)
				return
			}

			client := api.NewInvestmentServiceClient(s.http, s.baseURL, opts)
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				amount := minTicketCents + rand.Int64N(maxTicketCents-minTicketCents)
				resp, latency, err := timed(func(ctx context.Context) (*connect.Response[api.CreateInvestmentResponse], error) {
					return client.CreateInvestment(ctx, connect.NewRequest(&api.CreateInvestmentRequest{
						CampaignID:  campaignID,
						AmountCents: amount,
					}))
				})
				record(result, latencies, latency, err)
				if err == nil {
					out <- pending{id: resp.Msg.Investment.ID, amount: amount}
				}
			}
		}()
	}

	wg.Wait()
	close(latencies)
	<-done
	return time.Since(start)
}

// decide fans every investment out to several concurrent accepts
func (s *session) decide(founder model.Identity, investments []pending, result *PerfResult, acceptedSum *int64) time.Duration {
	bearer, err := s.client(founder)
	if err != nil {
		return 0
	}
	client := api.NewInvestmentServiceClient(s.http, s.baseURL, connect.WithInterceptors(bearer))

	jobs := make(chan pending)
	latencies := make(chan time.Duration, 4096)
	done := make(chan struct{})
	go func() {
		trackP95(latencies, result)
		close(done)
	}()

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < fixedWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				_, latency, err := timed(func(ctx context.Context) (*connect.Response[api.DecideInvestmentResponse], error) {
					return client.DecideInvestment(ctx, connect.NewRequest(&api.DecideInvestmentRequest{
						InvestmentID: p.id,
						Decision:     "accept",
					}))
				})
				record(result, latencies, latency, err)
				if err == nil {
					atomic.AddInt64(acceptedSum, p.amount)
				}
			}
		}()
	}

	for _, p := range investments {
		for i := 0; i < decisionsPerInvestment; i++ {
			jobs <- p
		}
	}
	close(jobs)

	wg.Wait()
	close(latencies)
	<-done
	return time.Since(start)
}

func (s *session) verify(founder model.Identity, campaignID, created int64, decided *PerfResult, acceptedSum int64) error {
	bearer, err := s.client(founder)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := api.NewCampaignServiceClient(s.http, s.baseURL, connect.WithInterceptors(bearer)).
		GetCampaign(ctx, connect.NewRequest(&api.CampaignRequest{CampaignID: campaignID}))
	if err != nil {
		return fmt.Errorf("failed to get campaign: %w", err)
	}

	raised := resp.Msg.Campaign.RaisedCents
	fmt.Printf("investments created       : %d\n", created)
	fmt.Printf("accepts succeeded         : %d\n", decided.SuccessCount)
	fmt.Printf("accepts rejected (racing) : %d\n", decided.ConflictCount)
	fmt.Printf("raised (server)           : %d\n", raised)
	fmt.Printf("raised (client)           : %d\n", acceptedSum)

	if decided.SuccessCount > created {
		return fmt.Errorf("double acceptance: %d accepts for %d investments", decided.SuccessCount, created)
	}
	if raised != acceptedSum {
		return fmt.Errorf("raised total mismatch: server=%d, client=%d, diff=%d", raised, acceptedSum, raised-acceptedSum)
	}
	return nil
}

func timed[T any](call func(ctx context.Context) (T, error)) (T, time.Duration, error) {
	// Independent context so in-flight requests survive the end of the phase
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	start := time.Now()
	resp, err := call(ctx)
	return resp, time.Since(start), err
}

func record(result *PerfResult, latencies chan<- time.Duration, latency time.Duration, err error) {
	atomic.AddInt64(&result.TotalRequests, 1)
	switch {
	case err == nil:
		atomic.AddInt64(&result.SuccessCount, 1)
		atomic.AddInt64(&result.LatencySum, latency.Nanoseconds())
		select {
		case latencies <- latency:
		default:
		}
	case connect.CodeOf(err) == connect.CodeAborted:
		atomic.AddInt64(&result.ConflictCount, 1)
	default:
		atomic.AddInt64(&result.ErrorCount, 1)
	}
}

func report(phase string, took time.Duration, result *PerfResult) {
	var avgLatency time.Duration
	if result.SuccessCount > 0 {
		avgLatency = time.Duration(result.LatencySum / result.SuccessCount)
	}

	fmt.Println("==========================================")
	fmt.Println(phase)
	fmt.Println("==========================================")
	fmt.Printf("elapsed      : %.2fs\n", took.Seconds())
	fmt.Printf("requests     : %d\n", result.TotalRequests)
	fmt.Printf("succeeded    : %d\n", result.SuccessCount)
	fmt.Printf("conflicts    : %d\n", result.ConflictCount)
	fmt.Printf("errors       : %d\n", result.ErrorCount)
	if took > 0 {
		fmt.Printf("actual RPS   : %.2f\n", float64(result.SuccessCount)/took.Seconds())
	}
	fmt.Printf("avg latency  : %v\n", avgLatency)
	fmt.Printf("P95 latency  : %v\n", time.Duration(atomic.LoadInt64(&result.P95Latency)))
}

// trackP95 maintains a best-effort rolling P95 latency estimation
func trackP95(latencies <-chan time.Duration, result *PerfResult) {
	const size = 1000
	buf := make([]int64, 0, size)

	update := func() {
		sorted := slices.Clone(buf)
		slices.Sort(sorted)
		idx := min(int(float64(len(sorted))*0.95), len(sorted)-1)
		atomic.StoreInt64(&result.P95Latency, sorted[idx])
	}

	for lat := range latencies {
		if len(buf) < size {
			buf = append(buf, lat.Nanoseconds())
		} else {
			// Replace random element (simple reservoir sampling)
			buf[rand.IntN(size)] = lat.Nanoseconds()
		}

		if len(buf)%100 == 0 {
			update()
		}
	}
	if len(buf) > 0 {
		update()
	}
}
