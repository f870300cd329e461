package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/content-analyzer/analyzer"
	"github.com/seo-optimizer/content-analyzer/config"
	"github.com/seo-optimizer/content-analyzer/logging"
	"github.com/seo-optimizer/content-analyzer/middleware"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the analysis API on the configured port:

  GET  /api/health      liveness and whether the Gemini stages are enabled
  POST /api/analyze     analyze {"text", "metaTags", "url"}
  GET  /api/statistics  usage, cache and monthly counters`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type server struct {
	cfg       config.AppConfig
	analyzer  *analyzer.Analyzer
	stats     *logging.Statistics
	aiEnabled bool
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, aiEnabled, err := newAnalyzer(ctx, cfg, cfg.DataDir, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			logging.Log.Errorf("could not flush monthly statistics: %v", err)
		}
	}()

	statsPath := ""
	if cfg.DataDir != "" {
		statsPath = filepath.Join(cfg.DataDir, "statistics.json")
	}
	s := &server{
		cfg:       cfg,
		analyzer:  a,
		stats:     logging.NewStatistics(statsPath),
		aiEnabled: aiEnabled,
	}
	defer func() {
		if err := s.stats.Save(); err != nil {
			logging.Log.Errorf("could not save statistics: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Log.Infof("Server starting on http://localhost:%s", cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(s.cfg.Server.AllowedOrigins))
	r.Use(middleware.NewRateLimiter(s.cfg.Server.RateLimit.RequestsPerSecond, s.cfg.Server.RateLimit.Burst).RateLimit())
	r.Use(middleware.StatsMiddleware(s.stats))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze", s.analyze)
		api.GET("/statistics", s.statistics)
	}
	return r
}

func (s *server) health(c *gin.Context) {
	logging.Log.Debugf("Health check request received from: %s", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version,
		"aiEnabled": s.aiEnabled,
	})
}

// analyze always answers 200 with a report once the body decodes; input
// problems are described inside the report itself
func (s *server) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)

	var req analyzer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}
		logging.WarnWithFields("invalid analyze request", logging.Fields{
			"error":      err.Error(),
			"request_id": c.GetString(middleware.RequestIDKey),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	report := s.analyzer.Analyze(c.Request.Context(), req)
	if len(report.Keywords) > 0 {
		c.Set(middleware.KeywordKey, report.Keywords[0])
	}
	c.JSON(http.StatusOK, report)
}

func (s *server) statistics(c *gin.Context) {
	out := s.stats.Snapshot(s.cfg.DevMode)
	out["cache"] = s.analyzer.GetCacheStats()
	if storage := s.analyzer.GetStats(); storage != nil {
		out["monthly"] = storage.GetCurrentStats()
	}
	c.JSON(http.StatusOK, out)
}
