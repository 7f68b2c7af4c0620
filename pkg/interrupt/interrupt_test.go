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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/artifact"
	"github.com/yannabadie/ygn-brain/pkg/wcontext"
)

type stubBridge struct {
	result string
	err    error
	delay  time.Duration
}

func (b stubBridge) Execute(ctx context.Context, _ string, _ map[string]interface{}) (string, error) {
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return b.result, b.err
}

func TestNewToolEventGeneratesID(t *testing.T) {
	e := NewToolEvent(ToolEventSuccess, "read_file", nil, "ok", "", 5.0, nil)
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, ToolEventSuccess, e.Kind)
	assert.NotNil(t, e.Arguments)
}

func TestRedactAPIKey(t *testing.T) {
	out, fields := redact("key is sk-abcdefgh12345678")
	assert.Contains(t, out, "[REDACTED_API_KEY]")
	assert.NotEmpty(t, fields)
}

func TestTruncateAtWordBoundary(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps running for a while longer than expected here"
	out := truncate(text, 20)
	assert.True(t, len(out) <= 24)
	assert.Contains(t, out, "...")
}

func TestSchemaRegistryValidateRequiredField(t *testing.T) {
	r := NewSchemaRegistry()
	r.Register("search", map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"query"},
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string"},
		},
	})

	valid, errs := r.Validate("search", map[string]interface{}{"query": "hello"})
	assert.True(t, valid)
	assert.Empty(t, errs)

	valid, errs = r.Validate("search", map[string]interface{}{})
	assert.False(t, valid)
	assert.NotEmpty(t, errs)
}

func TestSchemaRegistryNoSchemaAlwaysValid(t *testing.T) {
	r := NewSchemaRegistry()
	valid, errs := r.Validate("unregistered", map[string]interface{}{"x": 1})
	assert.True(t, valid)
	assert.Empty(t, errs)
}

func TestPerceptionAlignerNormalizesJSON(t *testing.T) {
	registry := NewSchemaRegistry()
	aligner := NewPerceptionAligner(registry)
	n := aligner.Normalize("tool", `{"status":"ok"}`)
	assert.True(t, n.Valid)
	assert.Empty(t, n.ValidationErrors)
}

func TestPerceptionAlignerRedactsSecrets(t *testing.T) {
	registry := NewSchemaRegistry()
	aligner := NewPerceptionAligner(registry)
	n := aligner.Normalize("tool", "password=hunter2 leaked here")
	assert.Contains(t, n.SummaryConcise, "[REDACTED_PASSWORD]")
}

func TestHandlerCallSuccess(t *testing.T) {
	session := wcontext.NewSession("sess-1")
	aligner := NewPerceptionAligner(NewSchemaRegistry())
	h := NewHandler(stubBridge{result: "done"}, aligner, session, nil, 0)

	event := h.Call(context.Background(), "write_file", map[string]interface{}{"path": "a.txt"}, time.Second)
	assert.Equal(t, ToolEventSuccess, event.Kind)
	assert.Equal(t, "done", event.Result)
}

func TestHandlerCallTimeout(t *testing.T) {
	session := wcontext.NewSession("sess-2")
	aligner := NewPerceptionAligner(NewSchemaRegistry())
	h := NewHandler(stubBridge{result: "done", delay: 50 * time.Millisecond}, aligner, session, nil, 0)

	event := h.Call(context.Background(), "slow_tool", nil, 5*time.Millisecond)
	assert.Equal(t, ToolEventTimeout, event.Kind)
	assert.Contains(t, event.Error, "timed out")
}

func TestHandlerCallError(t *testing.T) {
	session := wcontext.NewSession("sess-3")
	aligner := NewPerceptionAligner(NewSchemaRegistry())
	h := NewHandler(stubBridge{err: errors.New("boom")}, aligner, session, nil, 0)

	event := h.Call(context.Background(), "broken_tool", nil, time.Second)
	assert.Equal(t, ToolEventError, event.Kind)
	assert.Equal(t, "boom", event.Error)
}

func TestHandlerExternalizesLargeResult(t *testing.T) {
	session := wcontext.NewSession("sess-4")
	aligner := NewPerceptionAligner(NewSchemaRegistry())
	store := artifact.NewInMemoryStore()
	big := make([]byte, 2000)
	for i := range big {
		big[i] = 'a'
	}
	h := NewHandler(stubBridge{result: string(big)}, aligner, session, store, 1024)

	event := h.Call(context.Background(), "big_tool", nil, time.Second)
	require.Equal(t, ToolEventSuccess, event.Kind)

	handles, err := store.ListHandles("")
	require.NoError(t, err)
	assert.Len(t, handles, 1)
}
