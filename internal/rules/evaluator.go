package rules

import (
	"fmt"

	"github.com/mohamedkhairy/market-sentry/internal/metrics"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

// Evaluate evaluates every registered rule against the snapshot and
// returns the triggered rules in registration order. A fault inside
// one predicate is isolated: it is logged, counted, treated as
// non-triggering, and never aborts evaluation of the remaining rules.
func (r *Registry) Evaluate(snapshot *models.Snapshot) []*TriggeredRule {
	triggered := make([]*TriggeredRule, 0)

	for _, rule := range r.rules {
		metrics.RulesEvaluated.Inc()

		result := r.evaluateOne(rule, snapshot)
		if !result.Triggered {
			continue
		}

		metrics.RulesTriggered.WithLabelValues(string(rule.Severity)).Inc()
		triggered = append(triggered, &TriggeredRule{
			Rule:   rule,
			Value:  result.Value,
			Symbol: result.Symbol,
			Extra:  result.Extra,
		})
	}

	return triggered
}

// evaluateOne runs a single predicate with fault isolation.
func (r *Registry) evaluateOne(rule *Rule, snapshot *models.Snapshot) (result models.CheckResult) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RuleEvalFaults.WithLabelValues(rule.Name).Inc()
			logger.Error("Rule evaluation fault, treating as non-triggering",
				logger.String("rule", rule.Name),
				logger.ErrorField(fmt.Errorf("%v", rec)),
			)
			result = models.NotTriggered()
		}
	}()

	return rule.Check(snapshot, &r.thresholds)
}
