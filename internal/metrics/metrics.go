// Package metrics exposes run counters for the engine. Both entry
// points are run-once batch jobs, so instead of serving a scrape
// endpoint the counters are pushed to a Pushgateway when one is
// configured, and dropped otherwise.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	RulesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentry_rules_evaluated_total",
			Help: "Total number of rule evaluations in this run",
		},
	)

	RulesTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_rules_triggered_total",
			Help: "Total number of triggered rules by severity",
		},
		[]string{"severity"},
	)

	RuleEvalFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentry_rule_eval_faults_total",
			Help: "Total number of isolated rule evaluation faults",
		},
		[]string{"rule"},
	)

	AlertsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentry_alerts_sent_total",
			Help: "Total number of alerts delivered",
		},
	)

	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentry_alerts_suppressed_total",
			Help: "Total number of alerts suppressed by cooldown",
		},
	)

	DeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentry_delivery_failures_total",
			Help: "Total number of failed delivery attempts",
		},
	)
)

// Push pushes the run counters to the Pushgateway at gatewayURL under
// the given job name. A blank URL disables the push.
func Push(gatewayURL, job string) error {
	if gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
