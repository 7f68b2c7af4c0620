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

package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yannabadie/ygn-brain/pkg/tieredmemory"
)

const harnessSessionID = "harness"

// Pattern is a recalled winning candidate pattern.
type Pattern struct {
	Task     string
	Provider string
	Model    string
	Score    float64
	Prompt   string
}

// MemoryStore persists winning harness candidates in cold-tier memory so
// that successful provider/model/prompt combinations can be recalled
// across sessions.
type MemoryStore struct {
	memory *tieredmemory.TieredService
}

// NewMemoryStore wraps memory for harness pattern storage.
func NewMemoryStore(memory *tieredmemory.TieredService) MemoryStore {
	return MemoryStore{memory: memory}
}

// StorePattern persists a winning candidate pattern in cold-tier memory.
func (m MemoryStore) StorePattern(task string, candidate Candidate, feedback Feedback) {
	if m.memory == nil {
		return
	}
	key := fmt.Sprintf("harness:%s", candidate.ID)
	prompt := candidate.Prompt
	if len(prompt) > 200 {
		prompt = prompt[:200]
	}
	content := fmt.Sprintf(
		"task: %s\nprovider: %s\nmodel: %s\nscore: %v\nprompt: %s",
		task, candidate.Provider, candidate.Model, feedback.Score, prompt,
	)
	m.memory.Store(key, content, tieredmemory.CategoryCore, harnessSessionID, nil, tieredmemory.TierCold)
}

// RecallPatterns recalls stored patterns matching task via word-overlap
// search, returning at most limit results.
func (m MemoryStore) RecallPatterns(task string, limit int) []Pattern {
	if m.memory == nil {
		return nil
	}
	entries := m.memory.Recall(task, limit, harnessSessionID, tieredmemory.RecallOptions{Tier: tieredmemory.TierCold})

	var patterns []Pattern
	for _, e := range entries {
		if !strings.HasPrefix(e.Key, "harness:") {
			continue
		}
		pattern := Pattern{}
		for _, line := range strings.Split(e.Content, "\n") {
			k, v, ok := strings.Cut(line, ": ")
			if !ok {
				continue
			}
			switch k {
			case "task":
				pattern.Task = v
			case "provider":
				pattern.Provider = v
			case "model":
				pattern.Model = v
			case "score":
				pattern.Score, _ = strconv.ParseFloat(v, 64)
			case "prompt":
				pattern.Prompt = v
			}
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}
