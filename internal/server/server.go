// Package server assembles the HTTP surface: connect services, the payment webhook,
// pitch deck uploads, health checks and metrics.
package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"

	"connectrpc.com/connect"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/config"
	"github.com/hebed-ai/hebed/internal/service"
)

// MaxPitchDeckBytes bounds an uploaded pitch deck
const MaxPitchDeckBytes = 20 << 20

type pitchDeckUploader interface {
	UploadPitchDeck(ctx context.Context, campaignID int64, filename, contentType string, reader io.Reader) (string, error)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups everything the router exposes
type Services struct {
	Investments     api.InvestmentServiceHandler
	Campaigns       api.CampaignServiceHandler
	Profiles        api.ProfileServiceHandler
	Watchlist       api.WatchlistServiceHandler
	Billing         api.BillingServiceHandler
	Recommendations api.RecommendationServiceHandler

	// PitchDecks may be nil when object storage is not configured
	PitchDecks pitchDeckUploader
	Webhook    gin.HandlerFunc
}

// NewRouter builds the gin engine serving every route
func NewRouter(cfg config.ServerConfig, verifier *auth.Verifier, db pinger, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: true,
	}))

	mount := func(path string, handler http.Handler) {
		r.Any(path+"*procedure", gin.WrapH(handler))
	}
	opts := connect.WithInterceptors(verifier.Interceptor())
	mount(api.NewInvestmentServiceHandler(svc.Investments, opts))
	mount(api.NewCampaignServiceHandler(svc.Campaigns, opts))
	mount(api.NewProfileServiceHandler(svc.Profiles, opts))
	mount(api.NewWatchlistServiceHandler(svc.Watchlist, opts))
	mount(api.NewBillingServiceHandler(svc.Billing, opts))
	mount(api.NewRecommendationServiceHandler(svc.Recommendations, opts))

	if svc.Webhook != nil {
		r.POST("/webhooks/stripe", svc.Webhook)
	}

	if svc.PitchDecks != nil {
		r.POST("/campaigns/:id/pitch-deck", verifier.Middleware(), uploadPitchDeck(svc.PitchDecks))
	} else {
		log.Warn("object storage is not configured, pitch deck uploads are disabled")
	}

	r.GET("/health", func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "hebed", "hostname": hostname})
	})

	r.GET("/health/db", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			log.WithError(err).Warn("database health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "postgres unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "postgres": "connected"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func uploadPitchDeck(uploader pitchDeckUploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || campaignID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
			return
		}

		// Multipart framing needs a little room on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPitchDeckBytes+(1<<20))

		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or oversized file"})
			return
		}
		if header.Size > MaxPitchDeckBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "pitch deck exceeds 20 MiB"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return
		}
		defer file.Close()

		sniff := make([]byte, 512)
		n, err := io.ReadFull(file, sniff)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
			return
		}
		contentType := http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		url, err := uploader.UploadPitchDeck(c.Request.Context(), campaignID, header.Filename, contentType, file)
		if err != nil {
			status := service.StatusCode(err)
			if status == http.StatusInternalServerError {
				log.WithError(err).WithField("campaign_id", campaignID).Error("pitch deck upload failed")
				c.JSON(status, gin.H{"error": "internal error"})
				return
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}
