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

// Package orchestrator is the mediator that drives a full pipeline pass:
// build execution context (guard + memory + evidence), short-circuit on a
// guard block, then walk the hivemind pipeline through its 7 phases.
package orchestrator

import (
	"github.com/google/uuid"

	"github.com/yannabadie/ygn-brain/pkg/evidence"
	"github.com/yannabadie/ygn-brain/pkg/guard"
	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

// ExecutionContext is the full execution context for a pipeline run.
type ExecutionContext struct {
	UserInput   string
	SessionID   string
	Memories    []tieredmemory.Entry
	GuardResult guard.Result
	Evidence    *evidence.Pack
}

// ContextBuilder assembles an ExecutionContext from user input and
// services.
type ContextBuilder struct{}

// Build generates a session id if sessionID is empty, retrieves up to 5
// relevant memories, evaluates the guard pipeline, and records both to a
// fresh evidence pack.
func (ContextBuilder) Build(userInput, sessionID string, memory tieredmemory.Service, pipeline *guard.Pipeline) ExecutionContext {
	sid := sessionID
	if sid == "" {
		sid = uuid.New().String()[:12]
	}

	var memories []tieredmemory.Entry
	if memory != nil {
		if m, err := memory.Recall(userInput, 5, sid); err == nil {
			memories = m
		}
	}

	if pipeline == nil {
		pipeline = guard.NewPipeline()
	}
	guardResult := pipeline.Evaluate(userInput)

	pack := evidence.NewPack(sid)
	pack.Add("context", evidence.KindInput, map[string]interface{}{"user_input": userInput})
	if len(memories) > 0 {
		pack.Add("context", evidence.KindDecision, map[string]interface{}{"memories_retrieved": len(memories)})
	}
	pack.Add("context", evidence.KindDecision, map[string]interface{}{
		"guard_allowed": guardResult.Allowed,
		"threat_level":  string(guardResult.ThreatLevel),
	})

	return ExecutionContext{
		UserInput:   userInput,
		SessionID:   sid,
		Memories:    memories,
		GuardResult: guardResult,
		Evidence:    pack,
	}
}
