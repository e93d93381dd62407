package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spencer-p/navo/pkg/handlers"
	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/metrics"
	"github.com/spencer-p/navo/pkg/skill"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	// ApplicationID is the voice platform id the skill webhook accepts. Empty
	// accepts any.
	ApplicationID string `envconfig:"application_id"`

	LogLevel string `envconfig:"log_level" default:"info"`
	Debug    bool   `default:"false"`

	skill.Config
}

func main() {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}

	logger, err := logging.New(env.LogLevel, env.Debug)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()
	sk, closeCache, err := skill.FromConfig(ctx, env.Config, logger)
	if err != nil {
		logger.Fatal("failed to set up", zap.Error(err))
	}
	defer closeCache()

	r := mux.NewRouter().StrictSlash(true)
	r.Handle("/metrics", promhttp.Handler())
	s := r.PathPrefix(env.Prefix).Subrouter()
	handlers.Register(s, sk, handlers.Options{
		ApplicationID: env.ApplicationID,
		Logger:        logger.Named("http"),
	})

	srv := &http.Server{
		Handler:      metrics.LatencyHandler(r, logging.Requests(logger.Named("access"), r)),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		logger.Info("listening and serving",
			zap.String("addr", srv.Addr),
			zap.String("prefix", env.Prefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
