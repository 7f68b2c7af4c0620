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
	"fmt"

	"github.com/yannabadie/ygn-brain/pkg/registry"
)

// ToolRegistry tracks tool specs discovered across one or more MCP
// clients, keyed by tool name, so a dispatcher can look up which spec
// (and therefore schema) backs a call without re-listing every time.
type ToolRegistry struct {
	base *registry.BaseRegistry[ToolSpec]
}

// NewToolRegistry builds an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{base: registry.NewBaseRegistry[ToolSpec]()}
}

// Discover lists tools from client and registers each by name, skipping
// ones already registered (first server to advertise a name wins).
func (r *ToolRegistry) Discover(ctx context.Context, client *Client) error {
	specs, err := client.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("mcpclient: discover failed: %w", err)
	}
	for _, spec := range specs {
		_ = r.base.Register(spec.Name, spec)
	}
	return nil
}

// Lookup returns the registered spec for a tool name.
func (r *ToolRegistry) Lookup(name string) (ToolSpec, bool) {
	return r.base.Get(name)
}

// Tools returns every registered spec.
func (r *ToolRegistry) Tools() []ToolSpec {
	return r.base.List()
}

// Count returns how many tools are registered.
func (r *ToolRegistry) Count() int {
	return r.base.Count()
}
