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
	"fmt"
	"sync"
)

// SchemaRegistry holds per-tool output JSON schemas and validates parsed
// tool output against them.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]map[string]interface{}
}

// NewSchemaRegistry builds an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: make(map[string]map[string]interface{})}
}

// Register associates schema with toolName.
func (r *SchemaRegistry) Register(toolName string, schema map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[toolName] = schema
}

// Get returns the schema registered for toolName, if any.
func (r *SchemaRegistry) Get(toolName string) (map[string]interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[toolName]
	return s, ok
}

// Validate checks data against toolName's registered schema. A tool with
// no registered schema is always valid.
func (r *SchemaRegistry) Validate(toolName string, data interface{}) (bool, []string) {
	r.mu.RLock()
	schema, ok := r.schemas[toolName]
	r.mu.RUnlock()
	if !ok {
		return true, nil
	}

	var errs []string
	expectedType, _ := schema["type"].(string)

	obj, isObject := data.(map[string]interface{})
	if expectedType == "object" && !isObject {
		return false, []string{fmt.Sprintf("expected object, got %T", data)}
	}
	if expectedType != "object" || !isObject {
		return len(errs) == 0, errs
	}

	if required, ok := schema["required"].([]interface{}); ok {
		for _, f := range required {
			field, _ := f.(string)
			if _, present := obj[field]; !present {
				errs = append(errs, fmt.Sprintf("missing required field: %s", field))
			}
		}
	}

	props, _ := schema["properties"].(map[string]interface{})
	for key, val := range obj {
		propSchema, ok := props[key].(map[string]interface{})
		if !ok {
			continue
		}
		propType, _ := propSchema["type"].(string)
		switch propType {
		case "string":
			if _, ok := val.(string); !ok {
				errs = append(errs, fmt.Sprintf("field %q: expected string, got %T", key, val))
			}
		case "number":
			switch val.(type) {
			case float64, int, int64:
			default:
				errs = append(errs, fmt.Sprintf("field %q: expected number, got %T", key, val))
			}
		case "boolean":
			if _, ok := val.(bool); !ok {
				errs = append(errs, fmt.Sprintf("field %q: expected boolean, got %T", key, val))
			}
		}
	}

	return len(errs) == 0, errs
}

// AutoDiscover imports output schemas from an MCP tools/list response.
func (r *SchemaRegistry) AutoDiscover(tools []map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tool := range tools {
		name, _ := tool["name"].(string)
		outputSchema, ok := tool["outputSchema"].(map[string]interface{})
		if name != "" && ok {
			r.schemas[name] = outputSchema
		}
	}
}
