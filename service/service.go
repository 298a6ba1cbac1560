package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tours/cart"
	"tours/checkout"
	"tours/db"
	"tours/db/read_model_ops_checkouts"
	"tours/db/repairs"
	"tours/http"
	"tours/pubsub"
	"tours/pubsub/bus"
	"tours/pubsub/event"
)

func init() {
	log.Init(logrus.InfoLevel)
}

// BookingsService is the full backend bookings API: the checkout needs the
// write side, the HTTP layer the read side.
type BookingsService interface {
	checkout.BookingsService
	http.BookingsReader
}

type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	httpServer      *http.Server
}

func New(
	addr string,
	database *sqlx.DB,
	redisClient *redis.Client,
	cartService cart.RemoteService,
	bookingsService BookingsService,
	cardProvider checkout.PaymentProvider,
	simulatedCaptureDelay time.Duration,
) Service {
	opsReadModel := read_model_ops_checkouts.NewOpsCheckoutReadModel(database)
	repairsRepo := repairs.NewPostgresRepository(database)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher message.Publisher
	redisPublisher = pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	eventsHandler := event.NewHandler(opsReadModel, repairsRepo)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	watermillRouter, err := pubsub.NewWatermillRouter(
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	cartRegistry := cart.NewRegistry(cartService, cart.NewRedisCache(redisClient))

	providers := map[string]checkout.PaymentProvider{
		"card":          cardProvider,
		"bank_transfer": checkout.NewSimulatedProvider("bank_transfer", simulatedCaptureDelay),
	}
	checkoutRegistry := checkout.NewRegistry(cartRegistry, providers, bookingsService, eventBus)

	httpServer := http.NewServer(
		addr,
		cartRegistry,
		checkoutRegistry,
		bookingsService,
		opsReadModel,
		repairsRepo,
	)

	return Service{
		database,
		watermillRouter,
		httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server starts after the router, so the service is not
		// healthy before its handlers are running
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
