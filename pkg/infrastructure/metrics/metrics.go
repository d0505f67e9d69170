package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vsinha/factorysim/pkg/application/dto"
)

const namespace = "factorysim"

// Collector exports scheduler trials and outcomes to a dedicated registry
type Collector struct {
	Registry *prometheus.Registry

	trialsTotal          *prometheus.CounterVec
	trialDurationSeconds *prometheus.HistogramVec
	bestIncome           *prometheus.GaugeVec
	completionTime       *prometheus.GaugeVec
	skippedOrdersTotal   *prometheus.CounterVec
}

var _ dto.TrialRecorder = (*Collector)(nil)

// NewCollector creates a collector with its own registry. Runtime collectors are
// added when withRuntime is set.
func NewCollector(withRuntime bool) *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		trialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Scheduler trials by strategy and status.",
			},
			[]string{"strategy", "status"},
		),
		trialDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "trial_duration_seconds",
				Help:      "Duration of one scheduler trial in seconds.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"strategy"},
		),
		bestIncome: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "best_income",
				Help:      "Income of the selected schedule.",
			},
			[]string{"strategy"},
		),
		completionTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "completion_time_steps",
				Help:      "Completion time of the selected schedule in time steps.",
			},
			[]string{"strategy"},
		),
		skippedOrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "skipped_orders_total",
				Help:      "Orders left out of the selected schedule.",
			},
			[]string{"strategy"},
		),
	}

	c.Registry.MustRegister(c.trialsTotal, c.trialDurationSeconds, c.bestIncome, c.completionTime, c.skippedOrdersTotal)
	if withRuntime {
		c.Registry.MustRegister(collectors.NewGoCollector())
		c.Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return c
}

func (c *Collector) RecordTrial(strategy string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	c.trialsTotal.WithLabelValues(strategy, status).Inc()
	c.trialDurationSeconds.WithLabelValues(strategy).Observe(duration.Seconds())
}

func (c *Collector) RecordOutcome(outcome *dto.Outcome) {
	if outcome == nil {
		return
	}
	income, _ := outcome.Income.Float64()
	c.bestIncome.WithLabelValues(outcome.Strategy).Set(income)
	c.completionTime.WithLabelValues(outcome.Strategy).Set(float64(outcome.CompletionTime))
	c.skippedOrdersTotal.WithLabelValues(outcome.Strategy).Add(float64(len(outcome.SkippedOrders)))
}

// WriteTextfile writes the registry in the node exporter textfile format
func (c *Collector) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, c.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", filename, err)
	}
	return nil
}
