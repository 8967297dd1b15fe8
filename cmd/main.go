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

	"github.com/djdreamfix/Code-Companion/config"
	"github.com/djdreamfix/Code-Companion/controllers"
	"github.com/djdreamfix/Code-Companion/routes"
	"github.com/djdreamfix/Code-Companion/services"
)

func main() {
	config.InitDB()

	hub := services.NewRealtimeHub()
	markStore := services.NewMarkStore(config.DB)
	subStore := services.NewSubscriptionStore(config.DB)

	push := services.NewPushService(subStore,
		os.Getenv("VAPID_PUBLIC_KEY"),
		os.Getenv("VAPID_PRIVATE_KEY"),
		os.Getenv("VAPID_SUBJECT"),
	)
	marks := services.NewMarkService(markStore, hub, push)

	sweeper := services.NewSweeper(markStore, hub, services.SweepInterval)
	sweeper.Start()

	r := routes.SetupRouter(
		controllers.NewMarkController(marks, markStore),
		controllers.NewPushController(push, subStore),
		controllers.NewRealtimeController(hub),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	sweeper.Stop()
}
