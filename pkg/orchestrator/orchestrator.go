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
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/evidence"
	"github.com/yannabadie/ygn-brain/pkg/guard"
	"github.com/yannabadie/ygn-brain/pkg/hivemind"
	"github.com/yannabadie/ygn-brain/pkg/provider"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
	"github.com/yannabadie/ygn-brain/pkg/wcontext"
)

// Result is the outcome of a pipeline run.
type Result struct {
	Output      string
	SessionID   string
	Blocked     bool
	BudgetUsed  int
	WithinBudget bool
}

// Orchestrator is the mediator that drives the hivemind pipeline with guard
// and memory, replacing a monolithic god-object with a small set of
// collaborating services.
type Orchestrator struct {
	state    hivemind.FSMState
	evidence *evidence.Pack

	guardPipeline *guard.Pipeline
	memory        tieredmemory.Service
	builder       ContextBuilder
	hivemindPipe  hivemind.Pipeline
	provider      provider.Provider
}

// New builds an Orchestrator. A nil guardPipeline defaults to a fresh
// guard.Pipeline with no backends; a nil prov resolves through the default
// provider factory (falling back to the stub provider offline).
func New(guardPipeline *guard.Pipeline, memory tieredmemory.Service, prov provider.Provider) *Orchestrator {
	if guardPipeline == nil {
		guardPipeline = guard.NewPipeline()
	}
	if prov == nil {
		factory := provider.NewProviderFactory(provider.FactoryConfig{})
		p, err := factory.Create(context.Background(), true)
		if err != nil {
			p = provider.StubProvider{}
		}
		prov = p
	}
	return &Orchestrator{
		state:         hivemind.NewFSMState(),
		evidence:      evidence.NewPack(uuid.New().String()[:12]),
		guardPipeline: guardPipeline,
		memory:        memory,
		hivemindPipe:  hivemind.Pipeline{},
		provider:      prov,
	}
}

// Evidence returns the orchestrator's current evidence pack.
func (o *Orchestrator) Evidence() *evidence.Pack { return o.evidence }

var allPhases = []hivemind.Phase{
	hivemind.PhaseDiagnosis,
	hivemind.PhaseAnalysis,
	hivemind.PhasePlanning,
	hivemind.PhaseExecution,
	hivemind.PhaseValidation,
	hivemind.PhaseSynthesis,
	hivemind.PhaseComplete,
}

func walkAllPhases() hivemind.FSMState {
	s := hivemind.NewFSMState()
	for _, p := range allPhases {
		s = s.Transition(p)
	}
	return s
}

func extractFinal(results []hivemind.PhaseResult, userInput string) string {
	for _, r := range results {
		if r.Phase == "synthesis" {
			if final, ok := r.Data["final"].(string); ok {
				return final
			}
		}
	}
	return fmt.Sprintf("Processed: %s", userInput)
}

// Run executes a full pipeline pass deterministically, returning
// result/session_id (and a guard-block short-circuit when input is
// disallowed).
func (o *Orchestrator) Run(userInput string) Result {
	start := time.Now()
	ctx := o.builder.Build(userInput, o.evidence.SessionID, o.memory, o.guardPipeline)

	if !ctx.GuardResult.Allowed {
		o.evidence = ctx.Evidence
		o.evidence.Add("guard", evidence.KindDecision, map[string]interface{}{
			"blocked":      true,
			"threat_level": string(ctx.GuardResult.ThreatLevel),
			"reason":       ctx.GuardResult.Reason,
		})
		observeRun("run", start, true, nil)
		return Result{Output: fmt.Sprintf("Blocked: %s", ctx.GuardResult.Reason), SessionID: o.evidence.SessionID, Blocked: true}
	}

	results := o.hivemindPipe.Run(userInput, ctx.Evidence)
	o.state = walkAllPhases()
	o.evidence = ctx.Evidence

	observeRun("run", start, false, nil)
	return Result{Output: extractFinal(results, userInput), SessionID: o.evidence.SessionID}
}

// RunAsync is Run's provider-backed counterpart: cognitive phases are
// delegated to the orchestrator's configured LLM provider.
func (o *Orchestrator) RunAsync(ctx context.Context, userInput string) (Result, error) {
	start := time.Now()
	execCtx := o.builder.Build(userInput, o.evidence.SessionID, o.memory, o.guardPipeline)

	if !execCtx.GuardResult.Allowed {
		o.evidence = execCtx.Evidence
		o.evidence.Add("guard", evidence.KindDecision, map[string]interface{}{
			"blocked":      true,
			"threat_level": string(execCtx.GuardResult.ThreatLevel),
			"reason":       execCtx.GuardResult.Reason,
		})
		observeRun("run_async", start, true, nil)
		return Result{Output: fmt.Sprintf("Blocked: %s", execCtx.GuardResult.Reason), SessionID: o.evidence.SessionID, Blocked: true}, nil
	}

	results, err := o.hivemindPipe.RunWithProvider(ctx, userInput, execCtx.Evidence, o.provider, "")
	if err != nil {
		observeRun("run_async", start, false, err)
		return Result{}, fmt.Errorf("orchestrator: run async: %w", err)
	}
	o.state = walkAllPhases()
	o.evidence = execCtx.Evidence

	observeRun("run_async", start, false, nil)
	return Result{Output: extractFinal(results, userInput), SessionID: o.evidence.SessionID}, nil
}

// RunCompiled is Run generalized over the Context Compiler: it assembles a
// budget-aware WorkingContext (history selection, compaction, memory
// preload, artifact externalization) alongside running the hivemind
// pipeline, and reports the compiled context's token usage.
func (o *Orchestrator) RunCompiled(userInput string, budget int, systemPrompt string, artifactStore artifact.Store) Result {
	if systemPrompt == "" {
		systemPrompt = "You are a helpful AI assistant."
	}

	session := wcontext.NewSession(o.evidence.SessionID)
	tokenEstimate := wcontext.EstimateTokens(userInput) * 2
	session.Record(wcontext.EventUserInput, map[string]interface{}{"text": userInput}, tokenEstimate)

	guardResult := o.guardPipeline.Evaluate(userInput)
	session.Record(wcontext.EventGuardDecision, map[string]interface{}{
		"allowed":      guardResult.Allowed,
		"threat_level": string(guardResult.ThreatLevel),
	}, 5)

	if !guardResult.Allowed {
		o.evidence = session.Evidence
		return Result{Output: fmt.Sprintf("Blocked: %s", guardResult.Reason), SessionID: session.SessionID, Blocked: true}
	}

	compiler := wcontext.NewCompiler(wcontext.NewHistorySelector(0, 0), wcontext.Compactor{})
	if o.memory != nil {
		compiler.AddProcessor(wcontext.NewMemoryPreloader(o.memory, 0))
	}
	if artifactStore != nil {
		compiler.AddProcessor(wcontext.NewArtifactAttacher(artifactStore, 0))
	}
	workingCtx := compiler.Compile(session, budget, systemPrompt)

	results := o.hivemindPipe.Run(userInput, session.Evidence)
	o.state = walkAllPhases()
	o.evidence = session.Evidence

	return Result{
		Output:       extractFinal(results, userInput),
		SessionID:    session.SessionID,
		BudgetUsed:   workingCtx.TokenCount,
		WithinBudget: workingCtx.IsWithinBudget(),
	}
}
