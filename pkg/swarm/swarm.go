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

// Package swarm implements the hybrid Swarm Engine: heuristic task analysis
// over a fixed domain-keyword table, and a set of execution modes ranging
// from a canned synchronous stub path to an LLM-backed async path that fans
// a task out to specialist agents, chains it through sequential steps, or
// routes it to a single expert call.
package swarm

import "github.com/yannabadie/ygn-brain/pkg/provider"

// Mode names one of the swarm's execution strategies.
type Mode string

const (
	ModeParallel    Mode = "parallel"
	ModeSequential  Mode = "sequential"
	ModeRedBlue     Mode = "red_blue"
	ModePingPong    Mode = "ping_pong"
	ModeLeadSupport Mode = "lead_support"
	ModeSpecialist  Mode = "specialist"
)

// TaskAnalysis is the result of analyzing a task's complexity and domains.
type TaskAnalysis struct {
	Complexity   provider.TaskComplexity
	Domains      []string
	SuggestedMode Mode
}

// Result is the output of a swarm execution, synchronous or provider-backed.
type Result struct {
	Mode     Mode
	Output   string
	Metadata map[string]interface{}
}

// domainKeywords maps a domain label to the keywords that trigger it when
// found anywhere in the lower-cased task text.
var domainKeywords = map[string][]string{
	"code":     {"code", "function", "class", "debug", "refactor", "implement", "program"},
	"math":     {"calculate", "equation", "formula", "prove", "theorem", "math"},
	"writing":  {"write", "essay", "article", "draft", "summarize", "story"},
	"research": {"research", "analyze", "compare", "investigate", "study", "review"},
	"data":     {"data", "dataset", "csv", "json", "database", "query", "sql"},
	"design":   {"design", "architecture", "ui", "ux", "layout", "wireframe"},
}

// domainOrder fixes iteration order over domainKeywords so TaskAnalyzer's
// output is deterministic.
var domainOrder = []string{"code", "math", "writing", "research", "data", "design"}
