package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry 應用程式自己的 Prometheus collectors
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pix_ledger",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pix_ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pix_ledger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms ~ 1s
		},
		[]string{"method", "path"},
	)

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pix_ledger",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by result code.",
		},
		[]string{"operation", "result"},
	)

	ledgerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pix_ledger",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger operations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs ~ 160ms
		},
		[]string{"operation"},
	)

	accounts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pix_ledger",
			Subsystem: "ledger",
			Name:      "accounts",
			Help:      "Number of open accounts.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ledgerOperations,
		ledgerDuration,
		accounts,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler 回傳輸出 metrics 的 HTTP handler
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// HTTPRequestStarted 進行中的請求數 +1，回傳的函式在請求結束時呼叫
func HTTPRequestStarted() (done func()) {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest 記錄一次 HTTP 請求
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, statusLabel(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLedgerOperation 記錄一次帳務操作，result 為 "ok" 或錯誤代碼
func RecordLedgerOperation(operation, result string, duration time.Duration) {
	ledgerOperations.WithLabelValues(operation, result).Inc()
	ledgerDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// AccountOpened 開戶成功
func AccountOpened() { accounts.Inc() }

// AccountClosed 刪除帳戶成功
func AccountClosed() { accounts.Dec() }

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
