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

// Package hivemind implements the 7-phase cognitive pipeline: a fixed-order
// FSM over diagnosis/analysis/planning/execution/validation/synthesis/
// complete, run either deterministically (Run) or against a real provider
// (RunWithProvider), recording every phase's output to an evidence.Pack.
package hivemind

import "fmt"

// Phase names one stage of the pipeline's finite state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseDiagnosis  Phase = "diagnosis"
	PhaseAnalysis   Phase = "analysis"
	PhasePlanning   Phase = "planning"
	PhaseExecution  Phase = "execution"
	PhaseValidation Phase = "validation"
	PhaseSynthesis  Phase = "synthesis"
	PhaseComplete   Phase = "complete"
)

// transitions is the valid phase-transition table. Validation can retry
// back to execution; every other phase moves forward exactly one step.
var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseDiagnosis},
	PhaseDiagnosis:  {PhaseAnalysis},
	PhaseAnalysis:   {PhasePlanning},
	PhasePlanning:   {PhaseExecution},
	PhaseExecution:  {PhaseValidation},
	PhaseValidation: {PhaseSynthesis, PhaseExecution},
	PhaseSynthesis:  {PhaseComplete},
	PhaseComplete:   {PhaseIdle},
}

// FSMState is an immutable snapshot of the pipeline's current phase.
type FSMState struct {
	Phase   Phase
	Context map[string]interface{}
}

// NewFSMState returns a fresh state at PhaseIdle.
func NewFSMState() FSMState {
	return FSMState{Phase: PhaseIdle, Context: map[string]interface{}{}}
}

// CanTransition reports whether target is a legal next phase from s.
func (s FSMState) CanTransition(target Phase) bool {
	for _, p := range transitions[s.Phase] {
		if p == target {
			return true
		}
	}
	return false
}

// Transition returns the state moved to target, panicking if the move is
// not legal — callers drive the pipeline themselves and a bad transition
// indicates a programming error, not recoverable input.
func (s FSMState) Transition(target Phase) FSMState {
	if !s.CanTransition(target) {
		panic(fmt.Sprintf("hivemind: invalid transition: %s -> %s", s.Phase, target))
	}
	return FSMState{Phase: target, Context: s.Context}
}
