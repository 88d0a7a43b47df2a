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

	"castlebooking/internal/config"
	"castlebooking/internal/database"
	"castlebooking/internal/events"
	"castlebooking/internal/queue"
	"castlebooking/internal/server"
	"castlebooking/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		p, err := queue.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("amqp disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	hub := ws.NewHub()
	defer hub.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(server.Deps{Config: cfg, DB: db, Redis: rdb, Publisher: publisher, Hub: hub}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening addr=%s env=%s", srv.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
