package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "carbonwallet"

var (
	activitiesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "recorded_total",
		Help:      "Activity records persisted, labeled by type and whether a suggestion was applied.",
	}, []string{"type", "applied"})

	carbonRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "carbon_kg_total",
		Help:      "Estimated kg CO2 across persisted activity records.",
	}, []string{"type"})

	trackingSamples = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracking",
		Name:      "samples_total",
		Help:      "Position samples received by live sessions, labeled by outcome.",
	}, []string{"outcome"})

	trackingSessions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracking",
		Name:      "session_transitions_total",
		Help:      "Live session state transitions.",
	}, []string{"transition"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Activity events handed to Kafka, labeled by outcome.",
	}, []string{"outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(activitiesRecorded, carbonRecorded, trackingSamples, trackingSessions, eventsPublished, requestDuration)
}

func RecordActivity(activityType string, applied bool, carbonKg float64) {
	activitiesRecorded.WithLabelValues(activityType, strconv.FormatBool(applied)).Inc()
	if carbonKg > 0 {
		carbonRecorded.WithLabelValues(activityType).Add(carbonKg)
	}
}

// RecordSample counts a tracking sample as "accepted" or "discarded".
func RecordSample(outcome string) {
	trackingSamples.WithLabelValues(outcome).Inc()
}

func RecordSessionTransition(transition string) {
	trackingSessions.WithLabelValues(transition).Inc()
}

func RecordEventPublished(err error) {
	if err != nil {
		eventsPublished.WithLabelValues("failed").Inc()
		return
	}
	eventsPublished.WithLabelValues("delivered").Inc()
}

// Middleware observes request latency keyed by the matched route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		requestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
