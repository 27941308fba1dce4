package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mintagecmd "github.com/louisbranch/mintage/internal/cmd/mintage"
	"github.com/louisbranch/mintage/internal/platform/otel"
)

func main() {
	log.SetPrefix("[MINTAGE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "mintage")
	if err != nil {
		log.Fatalf("otel setup: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	root, err := mintagecmd.New()
	if err != nil {
		log.Fatalf("configure command: %v", err)
	}
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
