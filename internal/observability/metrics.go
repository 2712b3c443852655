package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bbctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbctl",
			Subsystem: "baseband",
			Name:      "operations_total",
			Help:      "Baseband operation lifecycle events.",
		},
		[]string{"node", "protocol", "outcome"},
	)
	protocolSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbctl",
			Subsystem: "baseband",
			Name:      "protocol_switches_total",
			Help:      "Protocol context activations on the radio.",
		},
		[]string{"node", "from", "to"},
	)
	radioTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbctl",
			Subsystem: "baseband",
			Name:      "radio_transitions_total",
			Help:      "Radio power transitions.",
		},
		[]string{"node", "state"},
	)
	startCounts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bbctl",
			Subsystem: "baseband",
			Name:      "start_count",
			Help:      "Outstanding Start references per protocol.",
		},
		[]string{"node", "protocol"},
	)
)

const (
	OutcomeExecuted   = "executed"
	OutcomeCancelled  = "cancelled"
	OutcomeTerminated = "terminated"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			operations, protocolSwitches, radioTransitions, startCounts,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// Recorder feeds baseband scheduler events into the prometheus collectors.
type Recorder struct {
	node string
}

var _ baseband.Recorder = Recorder{}

func NewRecorder(node string) Recorder {
	RegisterMetrics()
	return Recorder{node: node}
}

func (r Recorder) RadioPowered(on bool) {
	state := "off"
	if on {
		state = "on"
	}
	radioTransitions.WithLabelValues(r.node, state).Inc()
}

func (r Recorder) ProtocolSwitched(from, to baseband.ProtocolID) {
	protocolSwitches.WithLabelValues(r.node, from.String(), to.String()).Inc()
}

func (r Recorder) StartCountChanged(id baseband.ProtocolID, count uint32) {
	startCounts.WithLabelValues(r.node, id.String()).Set(float64(count))
}

func (r Recorder) OperationExecuted(id baseband.ProtocolID) {
	operations.WithLabelValues(r.node, id.String(), OutcomeExecuted).Inc()
}

func (r Recorder) OperationCancelled(id baseband.ProtocolID) {
	operations.WithLabelValues(r.node, id.String(), OutcomeCancelled).Inc()
}

func (r Recorder) OperationTerminated(id baseband.ProtocolID) {
	operations.WithLabelValues(r.node, id.String(), OutcomeTerminated).Inc()
}
