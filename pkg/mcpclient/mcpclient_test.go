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

package mcpclient

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsCommand(t *testing.T) {
	c := New(nil, nil)
	assert.Equal(t, defaultCoreCommand, c.command)
	assert.NotNil(t, c.log)
}

func TestSetLoggerReplacesLogger(t *testing.T) {
	c := New(nil, nil)
	custom := hclog.NewNullLogger()
	c.SetLogger(custom)
	assert.Equal(t, custom, c.log)
}

func TestToolRegistryStartsEmpty(t *testing.T) {
	r := NewToolRegistry()
	assert.Equal(t, 0, r.Count())
	_, ok := r.Lookup("search")
	assert.False(t, ok)
}

func TestToolRegistryDiscoverRequiresStartedClient(t *testing.T) {
	r := NewToolRegistry()
	c := New(nil, nil)
	err := r.Discover(context.Background(), c)
	assert.Error(t, err)
}

func TestNewKeepsGivenCommand(t *testing.T) {
	c := New([]string{"ygn-core", "mcp", "--verbose"}, []string{"FOO=bar"})
	assert.Equal(t, []string{"ygn-core", "mcp", "--verbose"}, c.command)
	assert.Equal(t, []string{"FOO=bar"}, c.env)
}

func TestMcpErrorMessage(t *testing.T) {
	err := &McpError{Code: -32601, Message: "method not found"}
	assert.Equal(t, "MCP error -32601: method not found", err.Error())
}

func TestListToolsBeforeStartErrors(t *testing.T) {
	c := New(nil, nil)
	_, err := c.ListTools(context.Background())
	assert.Error(t, err)
}

func TestCallToolBeforeStartErrors(t *testing.T) {
	c := New(nil, nil)
	_, err := c.CallTool(context.Background(), "anything", nil)
	assert.Error(t, err)
}

func TestConvertSchemaRoundTrips(t *testing.T) {
	schema := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]any{"path": map[string]any{"type": "string"}},
		Required:   []string{"path"},
	}
	out := convertSchema(schema)
	assert.Equal(t, "object", out["type"])
	assert.Contains(t, out, "properties")
}
