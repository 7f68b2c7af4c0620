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

package hivemind

import (
	"context"
	"fmt"
	"strings"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
	"github.com/yannabadie/ygn-brain/pkg/provider"
)

// PhaseResult is the output of a single pipeline phase.
type PhaseResult struct {
	Phase      string
	Data       map[string]interface{}
	Confidence float64
}

// Pipeline executes the 7-phase HiveMind pipeline, producing evidence along
// the way. The zero value is ready to use.
type Pipeline struct{}

// Run executes all 7 phases deterministically and returns their results,
// recording each phase's output to evidence.
func (Pipeline) Run(userInput string, pack *evidence.Pack) []PhaseResult {
	fsm := NewFSMState()
	var results []PhaseResult

	fsm = fsm.Transition(PhaseDiagnosis)
	diagData := map[string]interface{}{
		"user_input":  userInput,
		"input_length": len(userInput),
		"word_count":  len(strings.Fields(userInput)),
	}
	pack.Add("diagnosis", evidence.KindInput, diagData)
	results = append(results, PhaseResult{Phase: "diagnosis", Data: diagData, Confidence: 1.0})

	fsm = fsm.Transition(PhaseAnalysis)
	strategy := determineStrategy(userInput)
	analysisData := map[string]interface{}{"strategy": strategy}
	pack.Add("analysis", evidence.KindDecision, analysisData)
	results = append(results, PhaseResult{Phase: "analysis", Data: analysisData, Confidence: 0.9})

	fsm = fsm.Transition(PhasePlanning)
	plan := createPlan(userInput, strategy)
	planData := map[string]interface{}{"plan": plan}
	pack.Add("planning", evidence.KindDecision, planData)
	results = append(results, PhaseResult{Phase: "planning", Data: planData, Confidence: 0.85})

	fsm = fsm.Transition(PhaseExecution)
	execOutput := executePlan(plan)
	execData := map[string]interface{}{"output": execOutput}
	pack.Add("execution", evidence.KindOutput, execData)
	results = append(results, PhaseResult{Phase: "execution", Data: execData, Confidence: 0.8})

	fsm = fsm.Transition(PhaseValidation)
	valid := validate(execOutput)
	valData := map[string]interface{}{"passed": valid, "output": execOutput}
	pack.Add("validation", evidence.KindDecision, valData)
	valConfidence := 0.4
	if valid {
		valConfidence = 0.9
	}
	results = append(results, PhaseResult{Phase: "validation", Data: valData, Confidence: valConfidence})

	fsm = fsm.Transition(PhaseSynthesis)
	final := synthesize(execOutput)
	synthData := map[string]interface{}{"final": final}
	pack.Add("synthesis", evidence.KindOutput, synthData)
	results = append(results, PhaseResult{Phase: "synthesis", Data: synthData, Confidence: 0.95})

	fsm = fsm.Transition(PhaseComplete)
	completeData := map[string]interface{}{"status": "complete", "phases_run": len(results)}
	pack.Add("complete", evidence.KindOutput, completeData)
	results = append(results, PhaseResult{Phase: "complete", Data: completeData, Confidence: 1.0})

	_ = fsm
	return results
}

func determineStrategy(userInput string) string {
	if len(strings.Fields(userInput)) <= 3 {
		return "direct"
	}
	if strings.Contains(userInput, "?") {
		return "question_answering"
	}
	return "general"
}

func createPlan(userInput, strategy string) map[string]interface{} {
	return map[string]interface{}{
		"strategy": strategy,
		"steps": []map[string]interface{}{
			{"action": "process", "input": userInput},
			{"action": "respond"},
		},
	}
}

func executePlan(plan map[string]interface{}) string {
	steps, _ := plan["steps"].([]map[string]interface{})
	if len(steps) == 0 {
		return "Processed: (empty)"
	}
	input, _ := steps[0]["input"].(string)
	return fmt.Sprintf("Processed: %s", input)
}

func validate(output string) bool {
	return len(output) > 0
}

func synthesize(output string) string {
	return output
}

// RunWithProvider is the async counterpart of Run: diagnosis, validation,
// and complete stay deterministic; analysis, planning, execution, and
// synthesis delegate to provider.
func (Pipeline) RunWithProvider(ctx context.Context, userInput string, pack *evidence.Pack, p provider.Provider, model string) ([]PhaseResult, error) {
	if model == "" {
		model = "default"
	}
	fsm := NewFSMState()
	var results []PhaseResult

	fsm = fsm.Transition(PhaseDiagnosis)
	diagData := map[string]interface{}{
		"user_input":   userInput,
		"input_length": len(userInput),
		"word_count":   len(strings.Fields(userInput)),
	}
	pack.Add("diagnosis", evidence.KindInput, diagData)
	results = append(results, PhaseResult{Phase: "diagnosis", Data: diagData, Confidence: 1.0})

	fsm = fsm.Transition(PhaseAnalysis)
	strategyResp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "Determine the best processing strategy for this input. Reply with a single strategy name."},
			{Role: provider.RoleUser, Content: userInput},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hivemind: analysis phase: %w", err)
	}
	strategy := strategyResp.Content
	analysisData := map[string]interface{}{"strategy": strategy}
	pack.Add("analysis", evidence.KindDecision, analysisData)
	results = append(results, PhaseResult{Phase: "analysis", Data: analysisData, Confidence: 0.9})

	fsm = fsm.Transition(PhasePlanning)
	planResp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: fmt.Sprintf("Create an execution plan using the %q strategy.", strategy)},
			{Role: provider.RoleUser, Content: userInput},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hivemind: planning phase: %w", err)
	}
	planText := planResp.Content
	planData := map[string]interface{}{"plan": map[string]interface{}{"strategy": strategy, "llm_plan": planText}}
	pack.Add("planning", evidence.KindDecision, planData)
	results = append(results, PhaseResult{Phase: "planning", Data: planData, Confidence: 0.85})

	fsm = fsm.Transition(PhaseExecution)
	execResp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: fmt.Sprintf("Execute this plan and produce the result.\n\nPlan:\n%s", planText)},
			{Role: provider.RoleUser, Content: userInput},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hivemind: execution phase: %w", err)
	}
	execOutput := execResp.Content
	execData := map[string]interface{}{"output": execOutput}
	pack.Add("execution", evidence.KindOutput, execData)
	results = append(results, PhaseResult{Phase: "execution", Data: execData, Confidence: 0.8})

	fsm = fsm.Transition(PhaseValidation)
	valid := validate(execOutput)
	valData := map[string]interface{}{"passed": valid, "output": execOutput}
	pack.Add("validation", evidence.KindDecision, valData)
	valConfidence := 0.4
	if valid {
		valConfidence = 0.9
	}
	results = append(results, PhaseResult{Phase: "validation", Data: valData, Confidence: valConfidence})

	fsm = fsm.Transition(PhaseSynthesis)
	synthResp, err := p.Chat(ctx, provider.Request{
		Model: model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "Synthesize the execution output into a final answer."},
			{Role: provider.RoleUser, Content: fmt.Sprintf("Original request: %s\n\nExecution output:\n%s", userInput, execOutput)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hivemind: synthesis phase: %w", err)
	}
	final := synthResp.Content
	synthData := map[string]interface{}{"final": final}
	pack.Add("synthesis", evidence.KindOutput, synthData)
	results = append(results, PhaseResult{Phase: "synthesis", Data: synthData, Confidence: 0.95})

	fsm = fsm.Transition(PhaseComplete)
	completeData := map[string]interface{}{"status": "complete", "phases_run": len(results)}
	pack.Add("complete", evidence.KindOutput, completeData)
	results = append(results, PhaseResult{Phase: "complete", Data: completeData, Confidence: 1.0})

	_ = fsm
	return results, nil
}
