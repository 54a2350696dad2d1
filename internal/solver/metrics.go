/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts machine solves. Each instance owns its registry, so the counters of separate
// runs never mix.
type Metrics struct {
	registry *prometheus.Registry
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	answer   *prometheus.GaugeVec
}

// NewMetrics creates and registers the solver collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jolt",
			Name:      "machine_solves_total",
			Help:      "Machines solved, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jolt",
			Name:      "machine_solve_duration_seconds",
			Help:      "Time spent building and solving a single machine.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"mode"}),
		answer: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "jolt",
			Name:      "answer",
			Help:      "Combined answer of the last successful run.",
		}, []string{"mode"}),
	}
	m.registry.MustRegister(m.solves, m.duration, m.answer)
	return m
}

// Registry exposes the registry for scraping or inspection.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observe(mode Mode, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(mode.String(), outcome).Inc()
	m.duration.WithLabelValues(mode.String()).Observe(d.Seconds())
}

func (m *Metrics) setAnswer(mode Mode, v int64) {
	if m == nil {
		return
	}
	m.answer.WithLabelValues(mode.String()).Set(float64(v))
}
