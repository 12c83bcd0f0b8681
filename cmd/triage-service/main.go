package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/triage/pkg/analysis"
	"github.com/synaptica-ai/triage/pkg/assessment"
	"github.com/synaptica-ai/triage/pkg/common/config"
	"github.com/synaptica-ai/triage/pkg/common/database"
	"github.com/synaptica-ai/triage/pkg/common/httpclient"
	"github.com/synaptica-ai/triage/pkg/common/kafka"
	"github.com/synaptica-ai/triage/pkg/common/logger"
	"github.com/synaptica-ai/triage/pkg/common/middleware"
	"github.com/synaptica-ai/triage/pkg/observability/metrics"
	"github.com/synaptica-ai/triage/pkg/scoring"
	"github.com/synaptica-ai/triage/pkg/source"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}

	rubric, err := scoring.LoadRubric(cfg.RubricPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load scoring rubric")
	}

	policy := httpclient.NewPolicy(cfg.RetryMax, cfg.RetryBaseDelay)
	policy.OnRetry = func(int, time.Duration, error) { metrics.ObserveRetry() }

	client := source.NewClient(source.Config{
		BaseURL:   cfg.APIBaseURL,
		APIKey:    cfg.APIKey,
		PageLimit: cfg.PageLimit,
		Timeout:   cfg.RequestTimeout,
		MaxConns:  cfg.MaxConns,
		UserAgent: cfg.UserAgent,
	}, policy)

	var opts []assessment.Option

	if cfg.StatusStore == "redis" {
		rdb, err := database.OpenRedis(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to redis")
		}
		defer rdb.Close()
		opts = append(opts, assessment.WithStatusStore(assessment.NewRedisStatusStore(rdb, "", cfg.StatusTTL)))
	}

	if cfg.EventsTopic != "" {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic)
		defer producer.Close()
		opts = append(opts, assessment.WithPublisher(producer))
	}

	if cfg.SubmissionLogEnabled {
		db, err := database.OpenPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		defer database.ClosePostgres(db)

		repo := assessment.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate submission tables")
		}
		opts = append(opts, assessment.WithRecorder(repo))
	}

	classifier := analysis.NewClassifier(scoring.NewScorer(rubric))
	svc := assessment.NewService(classifier, client, opts...)
	handler := assessment.NewHTTPHandler(svc)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":   cfg.ServerHost,
			"port":   cfg.ServerPort,
			"source": cfg.APIBaseURL,
		}).Info("Triage Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Triage Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Triage Service stopped")
}
