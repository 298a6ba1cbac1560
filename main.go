package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"tours/gateway"
	"tours/service"
	"tours/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Init(logrus.InfoLevel)

	tp := tracing.ConfigureTraceProvider(os.Getenv("JAEGER_ENDPOINT"))
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shut down trace provider")
		}
	}()

	database, err := sqlx.Open("postgres", os.Getenv("POSTGRES_URL"))
	if err != nil {
		panic(fmt.Errorf("failed to connect to Postgres: %w", err))
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	})
	defer redisClient.Close()

	httpClient := gateway.NewHTTPClient()

	cartService := gateway.NewCartClient(os.Getenv("BACKEND_ADDR"), httpClient)
	bookingsService := gateway.NewBookingsClient(os.Getenv("BACKEND_ADDR"), httpClient)
	cardProvider := gateway.NewPaymentClient(os.Getenv("PAYMENT_ADDR"), "card", httpClient)

	simulatedCaptureDelay := 2 * time.Second
	if raw := os.Getenv("SIMULATED_CAPTURE_DELAY"); raw != "" {
		simulatedCaptureDelay, err = time.ParseDuration(raw)
		if err != nil {
			panic(fmt.Errorf("invalid SIMULATED_CAPTURE_DELAY: %w", err))
		}
	}

	svc := service.New(
		":8080",
		database,
		redisClient,
		cartService,
		bookingsService,
		cardProvider,
		simulatedCaptureDelay,
	)

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
