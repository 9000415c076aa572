package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	VerificationsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_verifications_issued_total",
			Help: "Total number of verification codes and tokens issued.",
		},
		[]string{"service", "purpose", "result"},
	)

	VerificationsConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_verifications_consumed_total",
			Help: "Total number of verification attempts.",
		},
		[]string{"service", "purpose", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	RegistrationsTotal = RegistrationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	LoginsTotal = LoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	VerificationsIssuedTotal = VerificationsIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	VerificationsConsumedTotal = VerificationsConsumedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		LoginsTotal,
		VerificationsIssuedTotal,
		VerificationsConsumedTotal,
	)
}
