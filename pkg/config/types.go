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

// Package config provides layered configuration loading for the cognitive
// control plane: a YAML file merged with environment variable overrides,
// unmarshaled into the typed Config below.
//
// Example config:
//
//	provider:
//	  default: gemini
//	  fallback: true
//	  gemini:
//	    model: gemini-2.0-flash
//	  ollama:
//	    url: http://localhost:11434
//	    model: llama3
//
//	guard:
//	  backend: regex
//
//	memory:
//	  hot_ttl: 5m
//	  warm_max_age: 24h
//
//	harness:
//	  max_rounds: 3
//	  min_score: 0.8
//
//	mcp:
//	  command: ["ygn-core", "mcp"]
package config

import "time"

// Config is the root configuration structure for a ygn-brain process.
type Config struct {
	Provider ProviderConfig `yaml:"provider,omitempty"`
	Guard    GuardConfig    `yaml:"guard,omitempty"`
	Memory   MemoryConfig   `yaml:"memory,omitempty"`
	Harness  HarnessConfig  `yaml:"harness,omitempty"`
	MCP      MCPConfig      `yaml:"mcp,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// ProviderConfig selects and configures the LLM providers available to the
// ProviderFactory.
type ProviderConfig struct {
	// Default is the provider name the factory resolves when no explicit
	// override is given (gemini, ollama, stub).
	Default string `yaml:"default,omitempty"`

	// Fallback enables falling across providers when Default is unset or
	// unreachable.
	Fallback bool `yaml:"fallback,omitempty"`

	Gemini GeminiConfig `yaml:"gemini,omitempty"`
	Ollama OllamaConfig `yaml:"ollama,omitempty"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// OllamaConfig configures the Ollama provider.
type OllamaConfig struct {
	URL     string        `yaml:"url,omitempty"`
	Model   string        `yaml:"model,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// GuardConfig selects the guard pipeline's backend.
type GuardConfig struct {
	// Backend names a guard backend: "regex", "ollama" or "tool_invocation".
	// The value is only stored; no code parses it, comma-separated chaining
	// is not supported, and cmd/ygn-brain always builds a regex pipeline.
	Backend string `yaml:"backend,omitempty"`

	// OllamaModel names the classifier model when Backend includes
	// "ollama".
	OllamaModel string `yaml:"ollama_model,omitempty"`
}

// MemoryConfig configures the tiered memory service's retention windows.
type MemoryConfig struct {
	HotTTL     time.Duration `yaml:"hot_ttl,omitempty"`
	WarmMaxAge time.Duration `yaml:"warm_max_age,omitempty"`
}

// HarnessConfig configures the refinement harness's stopping policy.
type HarnessConfig struct {
	MaxRounds    int     `yaml:"max_rounds,omitempty"`
	MinScore     float64 `yaml:"min_score,omitempty"`
	CandidateN   int     `yaml:"candidate_count,omitempty"`
	VerifierKind string  `yaml:"verifier,omitempty"`
}

// MCPConfig configures how the MCP client launches its tool server
// subprocess.
type MCPConfig struct {
	Command []string          `yaml:"command,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}
