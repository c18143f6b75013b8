package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		registrationsTotal,
		activationCodesIssued,
		activationsRedeemed,
		activationFailures,
		activationEmails,
		passwordHashSeconds,
		usersTotal,
	)
}

var (
	registrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Count of successfully registered accounts.",
		},
	)

	activationCodesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_codes_issued_total",
			Help: "Count of issued activation codes, including reissues.",
		},
	)

	activationsRedeemed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activations_redeemed_total",
			Help: "Count of accounts activated through a code redemption.",
		},
	)

	activationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_failures_total",
			Help: "Count of rejected redemption attempts per reason.",
		},
		[]string{"reason"}, // 'not_found', 'already_active', 'invalid_code'
	)

	activationEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_emails_total",
			Help: "Count of activation email deliveries by outcome.",
		},
		[]string{"success"},
	)

	passwordHashSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "password_hash_seconds",
			Help:    "bcrypt hashing latency distribution in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.2, 0.4, 0.8, 1.6},
		},
	)

	usersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Current number of registered accounts.",
		},
	)
)

func IncRegistration()       { registrationsTotal.Inc() }
func IncActivationIssued()   { activationCodesIssued.Inc() }
func IncActivationRedeemed() { activationsRedeemed.Inc() }
func IncActivationFailure(reason string) {
	activationFailures.WithLabelValues(reason).Inc()
}
func IncActivationEmail(ok bool) {
	activationEmails.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
func ObservePasswordHash(d time.Duration) {
	passwordHashSeconds.Observe(d.Seconds())
}
func SetUsersTotal(n int) { usersTotal.Set(float64(n)) }
