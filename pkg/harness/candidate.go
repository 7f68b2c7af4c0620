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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yannabadie/ygn-brain/pkg/provider"
)

// Generator produces candidates for a task from one or more providers.
type Generator interface {
	Generate(ctx context.Context, task, promptContext string, cfg Config) []Candidate
}

// StubGenerator returns a fixed output for every configured provider slot.
// Used for testing.
type StubGenerator struct {
	Output string
}

// NewStubGenerator defaults Output to "stub output" as in the original.
func NewStubGenerator(output string) StubGenerator {
	if output == "" {
		output = "stub output"
	}
	return StubGenerator{Output: output}
}

func (g StubGenerator) Generate(_ context.Context, task, _ string, cfg Config) []Candidate {
	var candidates []Candidate
	for _, providerName := range cfg.Providers {
		for i := 0; i < cfg.CandidatesPerProvider; i++ {
			candidates = append(candidates, Candidate{
				ID:         uuid.New().String()[:8],
				Provider:   providerName,
				Model:      "stub",
				Prompt:     task,
				Output:     g.Output,
				LatencyMs:  0,
				TokenCount: len(strings.Fields(g.Output)),
			})
		}
	}
	return candidates
}

// MultiProviderGenerator generates candidates via real providers, resolved
// by name through a ProviderFactory.
type MultiProviderGenerator struct {
	factory *provider.ProviderFactory
}

// NewMultiProviderGenerator builds a generator resolving providers through
// factory.
func NewMultiProviderGenerator(factory *provider.ProviderFactory) MultiProviderGenerator {
	return MultiProviderGenerator{factory: factory}
}

// Generate queries the providers in cfg.Providers one after another, and
// each provider's CandidatesPerProvider requests in turn; no two requests
// run concurrently. Providers that cannot be created and chat calls that
// fail are logged and skipped.
func (g MultiProviderGenerator) Generate(ctx context.Context, task, promptContext string, cfg Config) []Candidate {
	var candidates []Candidate
	for _, providerName := range cfg.Providers {
		p, err := g.factory.CreateNamed(ctx, providerName)
		if err != nil {
			slog.Warn("harness: skipping unavailable provider", "provider", providerName, "error", err)
			continue
		}

		prompt := task
		if promptContext != "" {
			prompt = fmt.Sprintf("%s\n\n%s", promptContext, task)
		}

		for i := 0; i < cfg.CandidatesPerProvider; i++ {
			start := time.Now()
			resp, err := p.Chat(ctx, provider.Request{
				Model:    providerName,
				Messages: []provider.Message{{Role: provider.RoleUser, Content: prompt}},
			})
			if err != nil {
				slog.Warn("harness: provider chat failed", "provider", providerName, "error", err)
				continue
			}
			latencyMs := float64(time.Since(start).Microseconds()) / 1000.0
			totalTokens := 0
			if resp.Usage != nil {
				totalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
			}
			candidates = append(candidates, Candidate{
				ID:         uuid.New().String()[:8],
				Provider:   providerName,
				Model:      providerName,
				Prompt:     prompt,
				Output:     resp.Content,
				LatencyMs:  latencyMs,
				TokenCount: totalTokens,
			})
		}
	}
	return candidates
}
