package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

const tracerName = "github.com/Alijeyrad/founders_backend/pkg/observability"

// HeaderTraceID lets API clients quote the trace when reporting a problem.
const HeaderTraceID = "X-Trace-Id"

// FiberMiddleware opens a server span per request, continuing any trace
// the caller propagated, and records request count and latency by route.
// Requests for skipPaths (probes, the metrics endpoint) are passed through
// untouched.
func FiberMiddleware(skipPaths ...string) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)

	requests, _ := meter.Int64Counter("http_server_request_count",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"))
	latency, _ := meter.Float64Histogram("http_server_request_duration_ms",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"))

	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.URLScheme(c.Protocol()),
				semconv.ServerAddress(c.Hostname()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceID, sc.TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Render the error now so the span sees the final status.
			span.RecordError(err)
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := float64(time.Since(start).Microseconds()) / 1000

		// Routing has happened by now, so the template is known.
		route := c.Route().Path
		status := c.Response().StatusCode()
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(semconv.HTTPRoute(route), semconv.HTTPResponseStatusCode(status))
		if rid := reqctx.RequestIDFromContext(c.Context()); rid != "" {
			span.SetAttributes(attribute.String("founders.request_id", rid))
		}

		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		requests.Add(ctx, 1, attrs)
		latency.Record(ctx, elapsed, attrs)

		return nil
	}
}
