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

package config

import "time"

// DefaultConfig returns the configuration a process should fall back to
// when no file is given: fallback-enabled provider resolution, a regex
// guard, a five-minute hot memory tier, and the harness's default policy.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Fallback: true,
			Gemini:   GeminiConfig{Model: "gemini-2.0-flash"},
			Ollama: OllamaConfig{
				URL:     "http://localhost:11434",
				Model:   "llama3",
				Timeout: 30 * time.Second,
			},
		},
		Guard: GuardConfig{
			Backend: "regex",
		},
		Memory: MemoryConfig{
			HotTTL:     5 * time.Minute,
			WarmMaxAge: 24 * time.Hour,
		},
		Harness: HarnessConfig{
			MaxRounds:    3,
			MinScore:     0.8,
			CandidateN:   3,
			VerifierKind: "text",
		},
		MCP: MCPConfig{
			Command: []string{"ygn-core", "mcp"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "simple",
		},
	}
}
