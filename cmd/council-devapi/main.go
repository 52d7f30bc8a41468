// Command council-devapi serves a local stand-in for the council REST API so the
// console can be developed and tested without the production server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/council-console/internal/handler"
	"github.com/noah-isme/council-console/internal/middleware"
	"github.com/noah-isme/council-console/internal/service"
	"github.com/noah-isme/council-console/internal/validation"
	"github.com/noah-isme/council-console/pkg/config"
	"github.com/noah-isme/council-console/pkg/jobs"
	"github.com/noah-isme/council-console/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "council-devapi")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Error("devapi stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer repos.Close()

	if cfg.DevAPI.Seed {
		if err := service.Seed(ctx, repos.seedStores(), service.SeedAdmin{Email: cfg.DevAPI.AdminEmail, Password: cfg.DevAPI.AdminPassword}, logr); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	queue := jobs.NewQueue("enquiries", jobs.Config{Workers: cfg.Enquiry.Workers, MaxRetries: 3, Logger: logr})
	queue.Handle(service.JobEnquiryReceived, service.EnquiryNotifier(logr))
	queue.Start(ctx)
	defer queue.Stop()

	limiter := middleware.NewRateLimiter(cfg.Enquiry.RatePerMinute, cfg.Enquiry.Burst)
	defer limiter.Stop()

	validate := validation.New()
	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Prefix:         cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logr,
		Courses:        service.NewCourseService(repos.courses, validate, logr),
		Subjects:       service.NewSubjectService(repos.subjects, repos.courses, validate, logr),
		Enquiries:      service.NewEnquiryService(repos.enquiries, queue, validate, logr),
		Auth: service.NewAuthService(repos.students, repos.admins, validate, logr, service.AuthConfig{
			Secret:            cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
		}),
		Metrics:        metrics,
		EnquiryLimiter: limiter,
		Store:          repos.name,
		HealthProbes:   repos.probes(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.DevAPI.Store, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
