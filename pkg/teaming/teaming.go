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

// Package teaming implements dynamic team formation and flow control over a
// pool of agent profiles, plus a distributed swarm engine that drives a
// simulated multi-agent conversation and, when RunDistributedWithDispatcher
// is given a UACPDispatcher, exchanges turns as uACP frames over pkg/uacp.
package teaming

import "github.com/yannabadie/ygn-brain/pkg/swarm"

// AgentProfile describes a single agent in the distributed grid.
type AgentProfile struct {
	AgentID      string
	NodeID       string
	Role         string // "planner", "executor", "validator", "specialist"
	Capabilities []string
	TrustLevel   float64
	IsLocal      bool
}

// TeamFormation is a formed team of agents ready to execute a task.
type TeamFormation struct {
	TeamID      string
	Agents      []AgentProfile
	LeadAgentID string
	Strategy    swarm.Mode
	CreatedAt   int64 // unix millis
}

// Turn is one spoken turn in a simulated multi-agent conversation.
type Turn struct {
	AgentID string
	Role    string
	Content string
}
