// Package server exposes the liquidity planner over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/liquidity-forecast/internal/forecast"
	"github.com/iwvelando/liquidity-forecast/internal/validator"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type handler struct {
	svc         forecast.Servicer
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewRouter constructs the HTTP handler that serves the planning API.
func NewRouter(svc forecast.Servicer, logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{svc: svc, logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogging(logger))
	router.Use(bodyLimit(maxBodySize))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": h.version})
	})

	v1 := router.Group("/api/v1")

	v1.POST("/plans", h.createPlan)
	v1.GET("/cases/:caseId/plan", h.getPlanByCase)

	plans := v1.Group("/plans/:planId")
	plans.GET("", h.getPlan)
	plans.GET("/forecast", h.getForecast)
	plans.GET("/export", h.exportForecast)
	plans.PUT("/opening-balance", h.planMutation(h.setOpeningBalance))
	plans.PUT("/credit-line", h.planMutation(h.setCreditLine))
	plans.PUT("/reserves", h.planMutation(h.setReserves))
	plans.PUT("/ist-cutoff", h.planMutation(h.setIstCutoff))
	plans.POST("/lock", h.planMutation(h.lockPlan))
	plans.DELETE("/lock", h.planMutation(h.unlockPlan))
	plans.POST("/sync-ist", h.syncIst)

	plans.GET("/assumptions", h.listAssumptions)
	plans.POST("/assumptions", h.createAssumption)
	plans.PATCH("/assumptions/:assumptionId", h.updateAssumption)
	plans.DELETE("/assumptions/:assumptionId", h.deleteAssumption)
	plans.POST("/assumptions/:assumptionId/toggle", h.toggleAssumption)

	plans.POST("/snapshots", h.createSnapshot)
	plans.GET("/snapshots", h.listSnapshots)
	plans.GET("/snapshots/:snapshotId", h.getSnapshot)

	return router
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func Run(ctx context.Context, cfg *Config, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", zap.String("addr", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
