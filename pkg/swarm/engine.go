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
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yannabadie/ygn-brain/pkg/provider"
)

// Engine routes tasks to the mode-appropriate executor. Run is the
// deterministic, canned path; ExecuteWithProvider is the real LLM-backed
// path and leaves Run's behavior untouched.
type Engine struct {
	executors map[Mode]Executor
	analyzer  TaskAnalyzer
	fallback  Executor
}

// NewEngine builds an Engine with the default executor set, or a caller's
// own executors to override individual modes.
func NewEngine(executors map[Mode]Executor) *Engine {
	if executors == nil {
		executors = defaultExecutors()
	}
	return &Engine{executors: executors, analyzer: NewTaskAnalyzer(), fallback: SequentialExecutor{}}
}

// Analyze runs task analysis without executing anything.
func (e *Engine) Analyze(input string) TaskAnalysis {
	return e.analyzer.Analyze(input)
}

// Run analyzes input then executes it synchronously against the canned
// executor for the suggested mode, falling back to sequential for modes
// with no registered executor (red_blue, ping_pong, lead_support).
func (e *Engine) Run(input string) Result {
	analysis := e.analyzer.Analyze(input)
	execCtx := ExecContext{UserInput: input, Domains: analysis.Domains}
	executor, ok := e.executors[analysis.SuggestedMode]
	if !ok {
		executor = e.fallback
	}
	return executor.Execute(execCtx)
}

// ExecuteWithProvider analyzes task then delegates to mode-specific
// LLM execution logic: parallel fans prompts out concurrently, sequential
// chains calls so each step's output feeds the next, specialist uses a
// focused domain prompt, and any other mode falls back to a single call.
func (e *Engine) ExecuteWithProvider(ctx context.Context, task string, p provider.Provider, model string) (Result, error) {
	analysis := e.analyzer.Analyze(task)
	if model == "" {
		model = p.Name()
	}
	modeSelected.WithLabelValues(string(analysis.SuggestedMode)).Inc()

	switch analysis.SuggestedMode {
	case ModeParallel:
		return runParallel(ctx, task, analysis, p, model)
	case ModeSequential:
		return runSequential(ctx, task, analysis, p, model)
	case ModeSpecialist:
		return runSpecialist(ctx, task, analysis, p, model)
	default:
		return runSingle(ctx, task, analysis.SuggestedMode, p, model)
	}
}

func runParallel(ctx context.Context, task string, analysis TaskAnalysis, p provider.Provider, model string) (Result, error) {
	outputs := make([]string, len(analysis.Domains))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, domain := range analysis.Domains {
		i, domain := i, domain
		group.Go(func() error {
			prompt := fmt.Sprintf("As a %s specialist, address the following task:\n%s", domain, task)
			resp, err := p.Chat(groupCtx, provider.Request{
				Model: model,
				Messages: []provider.Message{
					{Role: provider.RoleSystem, Content: "You are a specialist agent."},
					{Role: provider.RoleUser, Content: prompt},
				},
			})
			if err != nil {
				return fmt.Errorf("swarm: parallel agent %q: %w", domain, err)
			}
			outputs[i] = resp.Content
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Mode:   ModeParallel,
		Output: strings.Join(outputs, "\n---\n"),
		Metadata: map[string]interface{}{
			"agents":   len(analysis.Domains),
			"domains":  analysis.Domains,
			"strategy": "fan-out-fan-in",
		},
	}, nil
}

var sequentialSteps = []string{"understand", "plan", "execute"}

func runSequential(ctx context.Context, task string, _ TaskAnalysis, p provider.Provider, model string) (Result, error) {
	current := task
	for _, step := range sequentialSteps {
		resp, err := p.Chat(ctx, provider.Request{
			Model: model,
			Messages: []provider.Message{
				{Role: provider.RoleSystem, Content: fmt.Sprintf("You are performing step %q in a sequential pipeline.", step)},
				{Role: provider.RoleUser, Content: current},
			},
		})
		if err != nil {
			return Result{}, fmt.Errorf("swarm: sequential step %q: %w", step, err)
		}
		current = resp.Content
	}
	return Result{
		Mode:   ModeSequential,
		Output: current,
		Metadata: map[string]interface{}{
			"agents":   1,
			"steps":    sequentialSteps,
			"strategy": "chain",
		},
	}, nil
}

func runSpecialist(ctx context.Context, task string, analysis TaskAnalysis, p provider.Provider, model string) (Result, error) {
	domainList := strings.Join(analysis.Domains, ", ")
	resp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: fmt.Sprintf("You are an expert specialist in: %s. Provide a thorough, expert-level response.", domainList)},
			{Role: provider.RoleUser, Content: task},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("swarm: specialist call: %w", err)
	}
	return Result{
		Mode:   ModeSpecialist,
		Output: resp.Content,
		Metadata: map[string]interface{}{
			"agents":   len(analysis.Domains),
			"domains":  analysis.Domains,
			"strategy": "expert-routing",
		},
	}, nil
}

func runSingle(ctx context.Context, task string, mode Mode, p provider.Provider, model string) (Result, error) {
	resp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: fmt.Sprintf("You are operating in %q mode.", string(mode))},
			{Role: provider.RoleUser, Content: task},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("swarm: single call mode %q: %w", mode, err)
	}
	return Result{
		Mode:     mode,
		Output:   resp.Content,
		Metadata: map[string]interface{}{"agents": 1, "strategy": string(mode)},
	}, nil
}
