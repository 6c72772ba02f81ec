package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records store mutations and auth lifecycle events. A nil or
// unregistered instance is a no-op so library users can opt out.
type StoreMetrics struct {
	cartMutations   *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec
	refreshCoalesce prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewStoreMetrics registers the storefront metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	sessionEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_session_events_total",
		Help: "Session store lifecycle events.",
	}, []string{"event"})
	refreshCoalesce := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_refresh_coalesced_total",
		Help: "Refresh calls answered by an already in-flight request.",
	})
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Duration of backend API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(cartMutations, sessionEvents, refreshCoalesce, requestDuration)
	return &StoreMetrics{
		cartMutations:   cartMutations,
		sessionEvents:   sessionEvents,
		refreshCoalesce: refreshCoalesce,
		requestDuration: requestDuration,
	}
}

// IncCartMutation increments the counter for the named cart operation.
func (s *StoreMetrics) IncCartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSessionEvent increments the counter for the named session event.
func (s *StoreMetrics) IncSessionEvent(event string) {
	if s == nil || s.sessionEvents == nil {
		return
	}
	s.sessionEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncRefreshCoalesced counts a refresh caller that joined an in-flight request.
func (s *StoreMetrics) IncRefreshCoalesced() {
	if s == nil || s.refreshCoalesce == nil {
		return
	}
	s.refreshCoalesce.Inc()
}

// ObserveRequestDuration records the duration of a backend API call.
func (s *StoreMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	if s == nil || s.requestDuration == nil {
		return
	}
	s.requestDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
