package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels for application submissions.
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected_file"
	OutcomeError     = "error"
)

type domainInstruments struct {
	submissions   metric.Int64Counter
	notifications metric.Int64Counter
	eventsDropped metric.Int64Counter
}

var (
	instrumentsOnce sync.Once
	instruments     domainInstruments
)

// domain lazily creates the counters from the global meter provider, so they
// are no-ops until InitTelemetry has run.
func domain() domainInstruments {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(tracerName)
		instruments.submissions, _ = meter.Int64Counter(
			"founders_submissions_total",
			metric.WithDescription("Founder applications by outcome"),
			metric.WithUnit("{submission}"),
		)
		instruments.notifications, _ = meter.Int64Counter(
			"founders_notifications_total",
			metric.WithDescription("Notification emails by kind and result"),
			metric.WithUnit("{email}"),
		)
		instruments.eventsDropped, _ = meter.Int64Counter(
			"founders_events_dropped_total",
			metric.WithDescription("In-process events dropped because the queue was full"),
			metric.WithUnit("{event}"),
		)
	})
	return instruments
}

// RecordSubmission counts one application attempt with its outcome.
func RecordSubmission(ctx context.Context, outcome string) {
	if c := domain().submissions; c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RecordNotification counts one notification delivery attempt sequence.
func RecordNotification(ctx context.Context, kind string, ok bool) {
	if c := domain().notifications; c != nil {
		c.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.Bool("ok", ok),
		))
	}
}

// RecordEventDropped counts one event the in-process bus could not queue.
func RecordEventDropped(ctx context.Context, subject string) {
	if c := domain().eventsDropped; c != nil {
		c.Add(ctx, 1, metric.WithAttributes(attribute.String("subject", subject)))
	}
}
