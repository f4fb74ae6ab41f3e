package report

import (
	"fmt"

	"github.com/mwiater/autotune/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry builds a Prometheus registry holding the report's gauges.
func (r *Report) Registry() (*prometheus.Registry, error) {
	mean := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autotune_config_mean_seconds",
		Help: "Mean measured execution time of a configuration.",
	}, []string{"strategy", "blocksize", "optlevel"})
	best := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autotune_best_mean_seconds",
		Help: "Mean execution time of the best configuration a strategy found.",
	}, []string{"strategy", "blocksize", "optlevel"})
	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autotune_strategy_duration_seconds",
		Help: "Wall-clock time a search strategy took, benchmark runs included.",
	}, []string{"strategy"})

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{mean, best, duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	for _, res := range r.Results() {
		strategy := res.Algorithm.String()
		for _, m := range res.Measurements {
			mean.WithLabelValues(strategy, m.Params.BlockSize, m.Params.OptLevel).Set(m.Mean)
		}
		if res.HasBest() {
			best.WithLabelValues(strategy, res.Best.Params.BlockSize, res.Best.Params.OptLevel).Set(res.Best.Mean)
		}
		duration.WithLabelValues(strategy).Set(res.Duration.Seconds())
	}
	return reg, nil
}

// WriteMetrics writes the gauges in the Prometheus text exposition format,
// suitable for the node_exporter textfile collector.
func (r *Report) WriteMetrics(path string) error {
	reg, err := r.Registry()
	if err != nil {
		return err
	}
	if err := util.EnsureDir(path); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
