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

import "fmt"

// Executor runs a task under a specific swarm mode, synchronously and
// without a provider. Used by Engine.Run for the canned/deterministic path.
type Executor interface {
	Execute(ctx ExecContext) Result
}

// ExecContext is the analysis-derived context an Executor runs against.
type ExecContext struct {
	UserInput string
	Domains   []string
}

// ParallelExecutor simulates fan-out multi-agent execution.
type ParallelExecutor struct{}

func (ParallelExecutor) Execute(c ExecContext) Result {
	return Result{
		Mode:     ModeParallel,
		Output:   fmt.Sprintf("[parallel] Processed: %s", c.UserInput),
		Metadata: map[string]interface{}{"agents": 3, "strategy": "fan-out-fan-in"},
	}
}

// SequentialExecutor simulates single-agent chained execution.
type SequentialExecutor struct{}

func (SequentialExecutor) Execute(c ExecContext) Result {
	return Result{
		Mode:     ModeSequential,
		Output:   fmt.Sprintf("[sequential] Processed: %s", c.UserInput),
		Metadata: map[string]interface{}{"agents": 1, "strategy": "chain"},
	}
}

// SpecialistExecutor simulates expert-routed execution.
type SpecialistExecutor struct{}

func (SpecialistExecutor) Execute(c ExecContext) Result {
	domains := c.Domains
	if len(domains) == 0 {
		domains = []string{"general"}
	}
	return Result{
		Mode:   ModeSpecialist,
		Output: fmt.Sprintf("[specialist] Processed: %s", c.UserInput),
		Metadata: map[string]interface{}{
			"agents":   len(domains),
			"domains":  domains,
			"strategy": "expert-routing",
		},
	}
}

func defaultExecutors() map[Mode]Executor {
	return map[Mode]Executor{
		ModeParallel:   ParallelExecutor{},
		ModeSequential: SequentialExecutor{},
		ModeSpecialist: SpecialistExecutor{},
	}
}
