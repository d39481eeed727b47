package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/founders_backend/internal/service/notification"
	"github.com/Alijeyrad/founders_backend/pkg/events"
)

// WorkerModule registers the event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Bus      events.Bus
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return startNotificationWorker(p.Bus, p.NotifSvc)
		},
		// the bus is closed by ProvideEventBus
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker sends the emails that follow a committed
// submission or a new account. Delivery retries live in the notification
// service; failures end up in the logs only.
func startNotificationWorker(bus events.Bus, notifSvc notification.Service) error {
	if err := subscribeJSON(bus, notification.SubjectSubmissionCreated, notifSvc.SubmissionCreated); err != nil {
		return err
	}
	if err := subscribeJSON(bus, notification.SubjectUserRegistered, notifSvc.UserRegistered); err != nil {
		return err
	}
	slog.Info("notification_worker: started")
	return nil
}

func subscribeJSON[T any](bus events.Bus, subject string, fn func(context.Context, T) error) error {
	err := bus.Subscribe(subject, func(ctx context.Context, data []byte) error {
		var ev T
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("notification_worker: decode %s: %w", subject, err)
		}
		return fn(ctx, ev)
	})
	if err != nil {
		return fmt.Errorf("notification_worker: subscribe %s: %w", subject, err)
	}
	return nil
}
