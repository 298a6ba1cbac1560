package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"tours/entity"
)

type OpsCheckoutReadModel interface {
	OnCheckoutCompleted(ctx context.Context, event *entity.CheckoutCompleted) error
	OnCheckoutReservationPending(ctx context.Context, event *entity.CheckoutReservationPending) error
}

type RepairsRepository interface {
	Store(ctx context.Context, task entity.RepairTask) error
}

type Handler struct {
	opsReadModel OpsCheckoutReadModel
	repairsRepo  RepairsRepository
}

func NewHandler(
	opsReadModel OpsCheckoutReadModel,
	repairsRepo RepairsRepository,
) Handler {
	if opsReadModel == nil {
		panic("missing opsReadModel")
	}
	if repairsRepo == nil {
		panic("missing repairsRepo")
	}

	return Handler{
		opsReadModel: opsReadModel,
		repairsRepo:  repairsRepo,
	}
}

// NewProcessorConfig gives each handler its own consumer group, so handlers
// process independently and a slow one does not block the others.
func NewProcessorConfig(rdb *redis.Client, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: "svc-tours." + params.HandlerName,
			}, watermillLogger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return "events." + params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: watermillLogger,
	}
}
