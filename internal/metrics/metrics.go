// Package metrics exposes Prometheus counters for the account security core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by services and workers.
type Recorder interface {
	RecordLoginFailure()
	RecordLockout()
	RecordTokenIssued(purpose string)
	RecordTokenConsumed(purpose string)
	RecordTokenRejected(reason string)
	RecordTokensSwept(count int64)
	RecordActivation(success bool)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	loginFailures  prometheus.Counter
	lockouts       prometheus.Counter
	tokensIssued   *prometheus.CounterVec
	tokensConsumed *prometheus.CounterVec
	tokensRejected *prometheus.CounterVec
	tokensSwept    prometheus.Counter
	activations    *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "academy_login_failures_total",
			Help: "Failed login attempts against existing accounts.",
		}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "academy_account_lockouts_total",
			Help: "Accounts locked after reaching the failed-login threshold.",
		}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "academy_secure_tokens_issued_total",
			Help: "Secure tokens created, by purpose.",
		}, []string{"purpose"}),
		tokensConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "academy_secure_tokens_consumed_total",
			Help: "Secure tokens redeemed successfully, by purpose.",
		}, []string{"purpose"}),
		tokensRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "academy_secure_tokens_rejected_total",
			Help: "Secure token redemptions refused, by reason.",
		}, []string{"reason"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "academy_secure_tokens_swept_total",
			Help: "Expired secure tokens removed by the sweeper.",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "academy_activation_codes_redeemed_total",
			Help: "Activation code redemptions, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.loginFailures,
		c.lockouts,
		c.tokensIssued,
		c.tokensConsumed,
		c.tokensRejected,
		c.tokensSwept,
		c.activations,
	)

	return c
}

func (c *Collector) RecordLoginFailure() { c.loginFailures.Inc() }

func (c *Collector) RecordLockout() { c.lockouts.Inc() }

func (c *Collector) RecordTokenIssued(purpose string) {
	c.tokensIssued.WithLabelValues(purpose).Inc()
}

func (c *Collector) RecordTokenConsumed(purpose string) {
	c.tokensConsumed.WithLabelValues(purpose).Inc()
}

func (c *Collector) RecordTokenRejected(reason string) {
	c.tokensRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordTokensSwept(count int64) {
	if count > 0 {
		c.tokensSwept.Add(float64(count))
	}
}

func (c *Collector) RecordActivation(success bool) {
	result := "rejected"
	if success {
		result = "granted"
	}
	c.activations.WithLabelValues(result).Inc()
}

// Handler returns an http.Handler serving the metrics in gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordLoginFailure()        {}
func (Nop) RecordLockout()             {}
func (Nop) RecordTokenIssued(string)   {}
func (Nop) RecordTokenConsumed(string) {}
func (Nop) RecordTokenRejected(string) {}
func (Nop) RecordTokensSwept(int64)    {}
func (Nop) RecordActivation(bool)      {}
