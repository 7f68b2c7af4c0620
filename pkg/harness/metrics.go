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

package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundsToConverge = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ygn_brain_harness_rounds_total",
		Help:    "Number of generate-verify-refine rounds a harness run took before selecting a winner.",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
	})

	winnerScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ygn_brain_harness_winner_score",
		Help:    "Verifier score of the candidate a harness run selected.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	candidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ygn_brain_harness_candidates_total",
		Help: "Total candidates generated and verified across all harness runs.",
	})
)
