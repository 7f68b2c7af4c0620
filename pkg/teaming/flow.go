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

package teaming

import (
	"sort"
	"strings"
)

// FlowPolicy selects the strategy a FlowController uses to pick the next
// speaker in a multi-agent conversation.
type FlowPolicy string

const (
	PolicyRoundRobin      FlowPolicy = "round_robin"
	PolicyLeadFirst       FlowPolicy = "lead_first"
	PolicyCapabilityMatch FlowPolicy = "capability_match"
	PolicyDebate          FlowPolicy = "debate"
)

// FlowController picks the next speaker among a fixed set of agents
// according to its policy, and decides when the conversation should stop.
type FlowController struct {
	policy FlowPolicy
	agents []AgentProfile
}

// NewFlowController builds a controller over agents using policy.
func NewFlowController(policy FlowPolicy, agents []AgentProfile) *FlowController {
	return &FlowController{policy: policy, agents: append([]AgentProfile(nil), agents...)}
}

// NextSpeaker picks the next agent to speak given the conversation so far.
func (f *FlowController) NextSpeaker(conversation []Turn) AgentProfile {
	switch f.policy {
	case PolicyRoundRobin:
		return f.roundRobin(conversation)
	case PolicyLeadFirst:
		return f.leadFirst(conversation)
	case PolicyCapabilityMatch:
		return f.capabilityMatch(conversation)
	default:
		return f.debate(conversation)
	}
}

// ShouldConclude decides whether the discussion has run its course.
func (f *FlowController) ShouldConclude(conversation []Turn, maxRounds int) bool {
	if len(f.agents) == 0 {
		return true
	}
	rounds := len(conversation) / len(f.agents)
	return rounds >= maxRounds

}

func (f *FlowController) roundRobin(conversation []Turn) AgentProfile {
	idx := len(conversation) % len(f.agents)
	return f.agents[idx]
}

func (f *FlowController) leadFirst(conversation []Turn) AgentProfile {
	if len(conversation) == 0 {
		return maxByTrust(f.agents)
	}
	lead := maxByTrust(f.agents)
	var nonLead []AgentProfile
	for _, a := range sortedByTrustDesc(f.agents) {
		if a.AgentID != lead.AgentID {
			nonLead = append(nonLead, a)
		}
	}
	if len(nonLead) == 0 {
		return lead
	}
	idx := (len(conversation) - 1) % len(nonLead)
	return nonLead[idx]
}

func (f *FlowController) capabilityMatch(conversation []Turn) AgentProfile {
	unresolved := map[string]bool{}
	for _, turn := range conversation {
		for _, w := range strings.Fields(strings.ToLower(turn.Content)) {
			unresolved[w] = true
		}
	}

	best := f.agents[0]
	bestScore := -1
	for _, a := range f.agents {
		score := 0
		for _, cap := range a.Capabilities {
			if unresolved[strings.ToLower(cap)] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func (f *FlowController) debate(conversation []Turn) AgentProfile {
	if len(conversation) == 0 {
		return f.agents[0]
	}

	lastSpeakerID := conversation[len(conversation)-1].AgentID
	var lastRole string
	for _, a := range f.agents {
		if a.AgentID == lastSpeakerID {
			lastRole = a.Role
			break
		}
	}

	for _, a := range f.agents {
		if a.Role != lastRole {
			return a
		}
	}
	return f.roundRobin(conversation)
}

func maxByTrust(agents []AgentProfile) AgentProfile {
	best := agents[0]
	for _, a := range agents[1:] {
		if a.TrustLevel > best.TrustLevel {
			best = a
		}
	}
	return best
}

func sortedByTrustDesc(agents []AgentProfile) []AgentProfile {
	out := append([]AgentProfile(nil), agents...)
	sort.Slice(out, func(i, j int) bool { return out[i].TrustLevel > out[j].TrustLevel })
	return out
}
