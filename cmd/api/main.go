package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiba/internal/gateway/app"
)

// shutdownGrace bounds how long in-flight synthesis calls may run after a
// termination signal before the server is torn down.
const shutdownGrace = 15 * time.Second

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- a.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	case err := <-errc:
		if err != nil {
			log.Fatalf("serve: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("stopped")
}
