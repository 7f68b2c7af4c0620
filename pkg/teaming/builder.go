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
	"sync"

	"github.com/google/uuid"

	"github.com/yannabadie/ygn-brain/pkg/provider"
	"github.com/yannabadie/ygn-brain/pkg/swarm"
)

// TeamBuilder forms and dissolves teams from a pool of available agents.
type TeamBuilder struct {
	mu        sync.Mutex
	available []AgentProfile
	active    map[string]TeamFormation
}

// NewTeamBuilder builds a TeamBuilder over the given agent pool.
func NewTeamBuilder(available []AgentProfile) *TeamBuilder {
	return &TeamBuilder{available: available, active: map[string]TeamFormation{}}
}

// SetAvailable replaces the pool of agents considered by FormTeam.
func (b *TeamBuilder) SetAvailable(agents []AgentProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.available = agents
}

// FormTeam selects up to maxSize agents by domain-capability match and
// trust level, assigns a lead, and chooses a strategy from the task's
// complexity.
func (b *TeamBuilder) FormTeam(analysis swarm.TaskAnalysis, maxSize int, nowUnixMs int64) TeamFormation {
	b.mu.Lock()
	defer b.mu.Unlock()

	type scored struct {
		agent AgentProfile
		score int
	}
	domainSet := map[string]bool{}
	for _, d := range analysis.Domains {
		domainSet[d] = true
	}

	pairs := make([]scored, len(b.available))
	for i, a := range b.available {
		score := 0
		for _, cap := range a.Capabilities {
			if domainSet[cap] {
				score++
			}
		}
		pairs[i] = scored{agent: a, score: score}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].agent.TrustLevel > pairs[j].agent.TrustLevel
	})

	var selected []AgentProfile
	for i, p := range pairs {
		if i >= maxSize {
			break
		}
		selected = append(selected, p.agent)
	}
	if len(selected) == 0 && len(b.available) > 0 {
		end := maxSize
		if end > len(b.available) {
			end = len(b.available)
		}
		selected = append(selected, b.available[:end]...)
	}

	lead := maxByTrust(selected)
	strategy := pickStrategy(analysis.Complexity)

	team := TeamFormation{
		TeamID:      uuid.New().String()[:12],
		Agents:      selected,
		LeadAgentID: lead.AgentID,
		Strategy:    strategy,
		CreatedAt:   nowUnixMs,
	}
	b.active[team.TeamID] = team
	return team
}

// DissolveTeam removes a team from the active roster.
func (b *TeamBuilder) DissolveTeam(teamID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.active, teamID)
}

// ActiveTeams returns a snapshot of the currently active teams.
func (b *TeamBuilder) ActiveTeams() map[string]TeamFormation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]TeamFormation, len(b.active))
	for k, v := range b.active {
		out[k] = v
	}
	return out
}

// pickStrategy maps task complexity to a swarm.Mode strategy.
func pickStrategy(complexity provider.TaskComplexity) swarm.Mode {
	switch complexity {
	case provider.ComplexityTrivial, provider.ComplexitySimple:
		return swarm.ModeSequential
	case provider.ComplexityModerate:
		return swarm.ModeLeadSupport
	case provider.ComplexityComplex:
		return swarm.ModeParallel
	default: // ComplexityExpert
		return swarm.ModeSpecialist
	}
}
