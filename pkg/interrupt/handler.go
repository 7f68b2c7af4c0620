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

package interrupt

import (
	"context"
	"fmt"
	"time"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/wcontext"
)

// ToolBridge executes a named tool with arguments and returns its raw
// string result. pkg/mcpclient.Client does not satisfy it directly: its
// method is CallTool, not Execute.
type ToolBridge interface {
	Execute(ctx context.Context, name string, arguments map[string]interface{}) (string, error)
}

// defaultExternalizeThreshold mirrors the original's 1024-byte cutoff for
// moving large tool results into artifact storage.
const defaultExternalizeThreshold = 1024

// Handler wraps a ToolBridge with typed event emission, output
// normalization, and artifact externalization for oversized results.
type Handler struct {
	bridge     ToolBridge
	normalizer PerceptionAligner
	session    *wcontext.Session
	store      artifact.Store
	threshold  int
}

// NewHandler builds a handler. store may be nil to disable
// externalization. threshold <= 0 defaults to 1024 bytes.
func NewHandler(bridge ToolBridge, normalizer PerceptionAligner, session *wcontext.Session, store artifact.Store, threshold int) *Handler {
	if threshold <= 0 {
		threshold = defaultExternalizeThreshold
	}
	return &Handler{bridge: bridge, normalizer: normalizer, session: session, store: store, threshold: threshold}
}

// Call executes a tool with event emission, normalization, and optional
// externalization, within timeout.
func (h *Handler) Call(ctx context.Context, toolName string, arguments map[string]interface{}, timeout time.Duration) ToolEvent {
	h.session.Record("tool_call", map[string]interface{}{
		"tool_name": toolName,
		"arguments": arguments,
	}, 10)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := h.bridge.Execute(callCtx, toolName, arguments)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	if callCtx.Err() == context.DeadlineExceeded {
		event := NewToolEvent(ToolEventTimeout, toolName, arguments, "",
			fmt.Sprintf("tool %q timed out after %s", toolName, timeout), latencyMs, nil)
		h.session.Record("tool_timeout", map[string]interface{}{
			"tool_name":   toolName,
			"timeout_sec": timeout.Seconds(),
		}, 5)
		return event
	}
	if err != nil {
		event := NewToolEvent(ToolEventError, toolName, arguments, "", err.Error(), latencyMs, nil)
		h.session.Record("tool_error", map[string]interface{}{
			"tool_name": toolName,
			"error":     err.Error(),
		}, 5)
		return event
	}

	normalized := h.normalizer.Normalize(toolName, result)

	if h.store != nil && len(result) >= h.threshold {
		handle, storeErr := h.store.Store([]byte(result), fmt.Sprintf("tool:%s", toolName), "text/plain")
		if storeErr == nil {
			h.session.Record("artifact_stored", map[string]interface{}{
				"handle": handle.ArtifactID,
				"source": handle.Source,
			}, 10)
		}
	}

	event := NewToolEvent(ToolEventSuccess, toolName, arguments, result, "", latencyMs, map[string]interface{}{
		"valid":             normalized.Valid,
		"data":              normalized.Data,
		"summary_concise":   normalized.SummaryConcise,
		"summary_detailed":  normalized.SummaryDetailed,
		"redacted_fields":   normalized.RedactedFields,
		"validation_errors": normalized.ValidationErrors,
	})
	h.session.Record("tool_success", map[string]interface{}{
		"tool_name":  toolName,
		"latency_ms": latencyMs,
	}, 5)
	return event
}
