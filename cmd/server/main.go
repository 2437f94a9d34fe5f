package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnrirwin/headlinehub/internal/app"
	"github.com/johnrirwin/headlinehub/internal/config"
	"github.com/johnrirwin/headlinehub/internal/logging"
)

func main() {
	cfg := config.Load()

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serve returns after in-flight requests drain and the cache is closed.
	if err := application.Serve(ctx); err != nil {
		application.Logger.Error("Server error", logging.WithField("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
