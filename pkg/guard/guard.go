// Package guard implements the ordered safety-check pipeline that screens
// user input and tool-call strings before they reach the orchestrator.
package guard

import (
	"fmt"
	"sync"
)

// ThreatLevel is the severity classification attached to a GuardResult.
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// Result is the outcome of a single backend's evaluation.
type Result struct {
	Allowed     bool
	ThreatLevel ThreatLevel
	Reason      string
	Score       float64 // 0-100
}

// Backend is a pluggable safety check. RegexGuard, ClassifierGuard, and
// ToolInvocationGuard all implement this.
type Backend interface {
	Name() string
	Check(text string) Result
}

// Pipeline composes backends; Evaluate runs each in order and returns the
// first blocking result, or an allowing result carrying the maximum score
// observed across all backends.
type Pipeline struct {
	backends []Backend
}

// NewPipeline builds a pipeline from backends in evaluation order. With no
// backends given, a single RegexGuard is installed (matches the original's
// GuardPipeline() default of one InputGuard).
func NewPipeline(backends ...Backend) *Pipeline {
	if len(backends) == 0 {
		backends = []Backend{NewRegexGuard()}
	}
	return &Pipeline{backends: backends}
}

// Add appends a backend to the end of the evaluation order.
func (p *Pipeline) Add(b Backend) {
	p.backends = append(p.backends, b)
}

// Evaluate runs every backend in order, short-circuiting on the first
// blocking result.
func (p *Pipeline) Evaluate(text string) Result {
	maxScore := 0.0
	for _, b := range p.backends {
		r := b.Check(text)
		if r.Score > maxScore {
			maxScore = r.Score
		}
		if !r.Allowed {
			return r
		}
	}
	return Result{
		Allowed:     true,
		ThreatLevel: ThreatNone,
		Reason:      "all guards passed",
		Score:       maxScore,
	}
}

// Stats tracks aggregate pipeline outcomes for reporting/metrics.
type Stats struct {
	mu             sync.Mutex
	TotalChecks    int
	Blocked        int
	ThreatCounts   map[ThreatLevel]int
	TotalLatencyMs float64
}

// NewStats returns a zeroed Stats tracker.
func NewStats() *Stats {
	return &Stats{ThreatCounts: make(map[ThreatLevel]int)}
}

// Record folds one evaluation's outcome into the running totals.
func (s *Stats) Record(r Result, latencyMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalChecks++
	if !r.Allowed {
		s.Blocked++
	}
	s.ThreatCounts[r.ThreatLevel]++
	s.TotalLatencyMs += latencyMs
}

// Summary returns a snapshot suitable for logging or an evidence entry.
func (s *Stats) Summary() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	avg := 0.0
	if s.TotalChecks > 0 {
		avg = s.TotalLatencyMs / float64(s.TotalChecks)
	}
	threatLevels := make(map[string]int, len(s.ThreatCounts))
	for k, v := range s.ThreatCounts {
		threatLevels[string(k)] = v
	}
	return map[string]interface{}{
		"total_checks":  s.TotalChecks,
		"blocked":       s.Blocked,
		"threat_levels": threatLevels,
		"avg_latency_ms": fmt.Sprintf("%.2f", avg),
	}
}
