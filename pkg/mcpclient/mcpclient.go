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

// Package mcpclient is a Model Context Protocol client that communicates
// with an MCP server over stdio, used to let the runtime discover and
// call tools exposed by an external process.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// protocolVersion is the MCP protocol version announced during handshake.
const protocolVersion = "2024-11-05"

var defaultCoreCommand = []string{"ygn-core", "mcp"}

// McpError wraps a JSON-RPC error object returned by the MCP server.
type McpError struct {
	Code    int
	Message string
	Data    any
}

func (e *McpError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// ToolSpec is a tool advertised by the MCP server.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Client spawns an MCP server as a subprocess and exchanges JSON-RPC 2.0
// messages with it over stdio.
type Client struct {
	command []string
	env     []string
	inner   *client.Client
	log     hclog.Logger
}

// New builds a client that will spawn command (argv form, e.g.
// ["ygn-core", "mcp"]) when Start is called. An empty command defaults to
// ["ygn-core", "mcp"].
func New(command []string, env []string) *Client {
	if len(command) == 0 {
		command = defaultCoreCommand
	}
	return &Client{
		command: command,
		env:     env,
		log:     hclog.New(&hclog.LoggerOptions{Name: "mcpclient", Level: hclog.Warn}),
	}
}

// SetLogger replaces the client's subprocess supervision logger.
func (c *Client) SetLogger(log hclog.Logger) {
	c.log = log
}

// Start spawns the MCP server subprocess and performs the initialize
// handshake.
func (c *Client) Start(ctx context.Context) error {
	c.log.Debug("starting MCP server subprocess", "command", c.command)

	inner, err := client.NewStdioMCPClient(c.command[0], c.env, c.command[1:]...)
	if err != nil {
		c.log.Error("failed to create stdio client", "command", c.command, "error", err)
		return fmt.Errorf("mcpclient: failed to create client: %w", err)
	}
	if err := inner.Start(ctx); err != nil {
		c.log.Error("failed to start subprocess", "command", c.command, "error", err)
		return fmt.Errorf("mcpclient: failed to start subprocess: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ClientInfo = mcp.Implementation{Name: "ygn-brain", Version: "0.1.0"}
	initReq.Params.ProtocolVersion = protocolVersion

	if _, err := inner.Initialize(ctx, initReq); err != nil {
		inner.Close()
		c.log.Error("handshake failed", "error", err)
		return fmt.Errorf("mcpclient: failed to initialize: %w", err)
	}

	c.inner = inner
	c.log.Info("MCP server subprocess ready", "command", c.command[0])
	return nil
}

// Stop closes the MCP server subprocess.
func (c *Client) Stop() error {
	if c.inner == nil {
		return nil
	}
	err := c.inner.Close()
	c.inner = nil
	if err != nil {
		c.log.Warn("error closing subprocess", "error", err)
	} else {
		c.log.Debug("MCP server subprocess stopped")
	}
	return err
}

// ListTools discovers available tools from the MCP server.
func (c *Client) ListTools(ctx context.Context) ([]ToolSpec, error) {
	if c.inner == nil {
		return nil, fmt.Errorf("mcpclient: not started")
	}
	resp, err := c.inner.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("mcpclient: list tools failed: %w", err)
	}

	specs := make([]ToolSpec, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		specs = append(specs, ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: convertSchema(t.InputSchema),
		})
	}
	return specs, nil
}

// CallTool calls a tool on the MCP server and returns its concatenated
// text result.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (string, error) {
	if c.inner == nil {
		return "", fmt.Errorf("mcpclient: not started")
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	resp, err := c.inner.CallTool(ctx, req)
	if err != nil {
		c.log.Warn("tool call failed", "tool", name, "error", err)
		return "", fmt.Errorf("mcpclient: call tool %q failed: %w", name, err)
	}

	var texts []string
	for _, content := range resp.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			texts = append(texts, tc.Text)
		}
	}

	result := ""
	for i, t := range texts {
		if i > 0 {
			result += "\n"
		}
		result += t
	}

	if resp.IsError {
		return result, &McpError{Code: -1, Message: result}
	}
	return result, nil
}

func convertSchema(schema mcp.ToolInputSchema) map[string]any {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}
