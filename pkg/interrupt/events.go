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

// Package interrupt wraps tool execution with typed events, output
// normalization (schema validation + secret redaction), and artifact
// externalization for oversized results.
package interrupt

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToolEventKind enumerates the lifecycle states of a tool interaction.
type ToolEventKind string

const (
	ToolEventCall    ToolEventKind = "tool_call"
	ToolEventSuccess ToolEventKind = "tool_success"
	ToolEventError   ToolEventKind = "tool_error"
	ToolEventTimeout ToolEventKind = "tool_timeout"
)

// ToolEvent is a typed tool interaction event.
type ToolEvent struct {
	EventID    string
	Timestamp  time.Time
	Kind       ToolEventKind
	ToolName   string
	Arguments  map[string]interface{}
	Result     string
	Error      string
	LatencyMs  float64
	Normalized map[string]interface{}
}

// NewToolEvent builds a ToolEvent with a generated event id and the
// current timestamp.
func NewToolEvent(kind ToolEventKind, toolName string, arguments map[string]interface{}, result, errMsg string, latencyMs float64, normalized map[string]interface{}) ToolEvent {
	if arguments == nil {
		arguments = map[string]interface{}{}
	}
	now := time.Now()
	return ToolEvent{
		EventID:    fmt.Sprintf("%012x-%s", now.UnixMilli(), uuid.New().String()[:12]),
		Timestamp:  now,
		Kind:       kind,
		ToolName:   toolName,
		Arguments:  arguments,
		Result:     result,
		Error:      errMsg,
		LatencyMs:  latencyMs,
		Normalized: normalized,
	}
}
