// Package metrics exposes Prometheus collectors for the HTTP layer and the
// booking core.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinebook"

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TicketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_total",
			Help:      "Tickets sold, by kind",
		},
		[]string{"kind"},
	)
	TicketRevenueCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_revenue_cents_total",
			Help:      "Sum of charged ticket prices in cents",
		},
	)
	TicketTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_transitions_total",
			Help:      "Ticket status transitions after sale",
		},
		[]string{"status"},
	)
	Rentals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_rentals_total",
			Help:      "Room rental lifecycle events",
		},
		[]string{"status"},
	)
	CleaningsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanings_scheduled_total",
			Help:      "Cleaning assignments created",
		},
	)
	PointsRedeemed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_redeemed_total",
			Help:      "Loyalty points spent, by channel",
		},
		[]string{"channel"},
	)
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Read-through cache lookups, by result",
		},
		[]string{"result"},
	)
	CriticalInconsistencies = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "critical_inconsistencies_total",
			Help:      "Operations aborted because stored data was inconsistent",
		},
	)
)

// Middleware records request count and latency keyed by the matched route.
func Middleware(c *gin.Context) {
	if c.Request.URL.Path == "/metrics" {
		c.Next()
		return
	}

	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())

	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}
