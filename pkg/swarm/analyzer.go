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

package swarm

import (
	"strings"

	"github.com/yannabadie/ygn-brain/pkg/provider"
)

// TaskAnalyzer derives a task's complexity, domains, and suggested
// execution mode from its text using fixed keyword heuristics.
type TaskAnalyzer struct{}

// NewTaskAnalyzer returns a ready-to-use TaskAnalyzer.
func NewTaskAnalyzer() TaskAnalyzer { return TaskAnalyzer{} }

// Analyze determines complexity, domains, and a suggested mode for input.
func (TaskAnalyzer) Analyze(input string) TaskAnalysis {
	lower := strings.ToLower(input)
	words := strings.Fields(lower)
	wordCount := len(words)

	var domains []string
	for _, domain := range domainOrder {
		for _, kw := range domainKeywords[domain] {
			if strings.Contains(lower, kw) {
				domains = append(domains, domain)
				break
			}
		}
	}
	if len(domains) == 0 {
		domains = []string{"general"}
	}

	complexity := assessComplexity(wordCount, domains)
	mode := suggestMode(complexity, domains)

	return TaskAnalysis{Complexity: complexity, Domains: domains, SuggestedMode: mode}
}

func assessComplexity(wordCount int, domains []string) provider.TaskComplexity {
	switch {
	case wordCount <= 3:
		return provider.ComplexityTrivial
	case wordCount <= 10 && len(domains) <= 1:
		return provider.ComplexitySimple
	case len(domains) >= 3 || wordCount > 50:
		return provider.ComplexityExpert
	case len(domains) >= 2 || wordCount > 25:
		return provider.ComplexityComplex
	default:
		return provider.ComplexityModerate
	}
}

func suggestMode(complexity provider.TaskComplexity, domains []string) Mode {
	switch complexity {
	case provider.ComplexityTrivial, provider.ComplexitySimple:
		return ModeSequential
	case provider.ComplexityModerate:
		return ModeLeadSupport
	case provider.ComplexityExpert:
		return ModeSpecialist
	case provider.ComplexityComplex:
		if len(domains) >= 2 {
			return ModeParallel
		}
		return ModeRedBlue
	default:
		return ModeSequential
	}
}
