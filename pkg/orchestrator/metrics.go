// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ygn_brain_orchestrator_runs_total",
		Help: "Orchestrator pipeline runs, partitioned by outcome.",
	}, []string{"outcome"})

	guardBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ygn_brain_orchestrator_guard_blocked_total",
		Help: "Runs short-circuited by the guard pipeline before reaching the hivemind FSM.",
	})

	phaseLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ygn_brain_orchestrator_phase_duration_seconds",
		Help:    "Wall-clock duration of a full orchestrator pass, by entry point.",
		Buckets: prometheus.DefBuckets,
	}, []string{"entrypoint"})
)

func observeRun(entrypoint string, start time.Time, blocked bool, err error) {
	phaseLatency.WithLabelValues(entrypoint).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		runsTotal.WithLabelValues("error").Inc()
	case blocked:
		runsTotal.WithLabelValues("blocked").Inc()
		guardBlockedTotal.Inc()
	default:
		runsTotal.WithLabelValues("completed").Inc()
	}
}
