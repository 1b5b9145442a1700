package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/cors"

	"review-digest/api/router"
	"review-digest/config"
	"review-digest/db"
	"review-digest/eventbus"
	"review-digest/events"
	"review-digest/repositories"
	"review-digest/services"
)

// @title           Review Digest API
// @version         1.0
// @description     API for browsing the latest top-products review digest
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := router.Deps{Digest: services.NewDigestService(cfg.Pipeline.OutputPath)}

	// MongoDB 는 실행 기록 조회에만 쓰인다.
	if cfg.Mongo.Enabled {
		if err := db.Init(ctx, cfg.Mongo); err != nil {
			config.Logger.Errorf("failed to initialize MongoDB, /runs disabled: %v", err)
		} else {
			defer db.Close(context.Background())
			deps.Runs = services.NewRunService(repositories.NewDigestRunRepository(db.Database()))
		}
	}

	var wg sync.WaitGroup

	// digest.completed 이벤트를 받으면 캐시를 비운다.
	if cfg.Kafka.Enabled {
		bus, err := eventbus.NewKafkaEventBus(eventbus.Brokers(cfg.Kafka))
		if err != nil {
			config.Logger.Errorf("failed to create event bus: %v", err)
		} else {
			defer bus.Close()
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := eventbus.SubscribeJSON(ctx, bus, eventbus.GroupID("review-digest-api"), eventbus.DigestTopic(cfg.Kafka),
					func(ctx context.Context, ev events.DigestCompletedEvent, _ eventbus.Event) error {
						if ev.Type != events.DigestCompleted {
							return nil
						}
						config.InfoWithFields("digest updated, dropping cache", config.Fields{"run_id": ev.RunID, "output_rows": ev.OutputRows})
						deps.Digest.Invalidate()
						return nil
					})
				if err != nil && !errors.Is(err, context.Canceled) {
					config.Logger.Errorf("eventbus subscribe error: %v", err)
				}
			}()
		}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(router.New(deps))

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Infof("starting api server on %s", cfg.API.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Errorf("api server error: %v", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	config.Logger.Info("received shutdown signal, shutting down api server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Errorf("api server shutdown: %v", err)
	}
	cancel()
	wg.Wait()

	config.Logger.Info("api server stopped")
}
