// Package metrics defines the prometheus collectors used by the cinepass
// client and the devserver. Collectors are registered on an injected
// Registerer; nothing is registered globally.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinepass"

// Refresh outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Client holds the client-side collectors. A nil *Client is valid and records
// nothing.
type Client struct {
	refreshes  *prometheus.CounterVec
	waiters    prometheus.Counter
	replays    *prometheus.CounterVec
	storeReads *prometheus.CounterVec
	storeWrite *prometheus.CounterVec
}

func NewClient(reg prometheus.Registerer) *Client {
	f := promauto.With(reg)
	return &Client{
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Refresh calls made by the coordinator, by outcome",
		}, []string{"outcome"}),
		waiters: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_waiters_total",
			Help:      "Requests that waited on a refresh started by another request",
		}),
		replays: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_replays_total",
			Help:      "Requests replayed after a refresh, by transport and result",
		}, []string{"transport", "result"}),
		storeReads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_store_loads_total",
			Help:      "Durable credential loads, by the backend that produced the pair",
		}, []string{"source"}),
		storeWrite: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_store_writes_total",
			Help:      "Durable credential writes, by backend and result",
		}, []string{"backend", "result"}),
	}
}

func (c *Client) RefreshFinished(outcome string) {
	if c == nil {
		return
	}
	c.refreshes.WithLabelValues(outcome).Inc()
}

func (c *Client) WaiterQueued() {
	if c == nil {
		return
	}
	c.waiters.Inc()
}

func (c *Client) Replayed(transport string, ok bool) {
	if c == nil {
		return
	}
	c.replays.WithLabelValues(transport, result(ok)).Inc()
}

// StoreLoaded records which backend satisfied a durable load; "none" when no
// backend had a pair.
func (c *Client) StoreLoaded(source string) {
	if c == nil {
		return
	}
	c.storeReads.WithLabelValues(source).Inc()
}

func (c *Client) StoreWritten(backend string, ok bool) {
	if c == nil {
		return
	}
	c.storeWrite.WithLabelValues(backend, result(ok)).Inc()
}

// Server holds the devserver collectors.
type Server struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

func NewServer(reg prometheus.Registerer) *Server {
	f := promauto.With(reg)
	return &Server{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devserver",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status",
		}, []string{"route", "method", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "devserver",
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.0, 12),
		}, []string{"route"}),
		tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devserver",
			Name:      "tokens_issued_total",
			Help:      "Token pairs issued, by grant (otp or refresh)",
		}, []string{"grant"}),
	}
}

func (s *Server) ObserveRequest(route, method string, status int, d time.Duration) {
	if s == nil {
		return
	}
	s.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	s.duration.WithLabelValues(route).Observe(d.Seconds())
}

func (s *Server) TokensIssued(grant string) {
	if s == nil {
		return
	}
	s.tokens.WithLabelValues(grant).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
