package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/mevent/event-manager/backend/cmd/server"
	"github.com/mevent/event-manager/backend/internal/adapters/config"
	setupServer "github.com/mevent/event-manager/backend/internal/adapters/controller/rest/setup"
	"github.com/mevent/event-manager/backend/pkg/logger"

	_ "time/tzdata"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Get()
	s, err := server.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	setupServer.Setup(s)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err = <-errCh:
		if err != nil {
			logger.Log.Errorf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = s.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("Failed to shut down cleanly: %v", err)
	}
}
