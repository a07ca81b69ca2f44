package notification

import (
	"github.com/lifedrop/lifedrop/internal/events"
	"github.com/lifedrop/lifedrop/internal/notification/repository"
	"github.com/lifedrop/lifedrop/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(NewSubscriber),
	fx.Invoke(registerSubscriber),
)

func registerSubscriber(subscriber *Subscriber, dispatcher *events.Dispatcher) {
	subscriber.Register(dispatcher)
}
