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
	"fmt"
	"strings"

	"github.com/yannabadie/ygn-brain/pkg/swarm"
)

// strategyToPolicy maps a formed team's strategy to the flow policy used to
// drive its simulated conversation.
var strategyToPolicy = map[swarm.Mode]FlowPolicy{
	swarm.ModeParallel:    PolicyRoundRobin,
	swarm.ModeSequential:  PolicyRoundRobin,
	swarm.ModeRedBlue:     PolicyDebate,
	swarm.ModePingPong:    PolicyDebate,
	swarm.ModeLeadSupport: PolicyLeadFirst,
	swarm.ModeSpecialist:  PolicyCapabilityMatch,
}

// DistributedSwarmEngine extends the swarm concept with team formation and
// flow control: it forms a team for the task, then simulates a turn-taking
// conversation among the team's agents until the flow controller concludes.
type DistributedSwarmEngine struct {
	builder  *TeamBuilder
	analyzer swarm.TaskAnalyzer
}

// NewDistributedSwarmEngine builds a DistributedSwarmEngine over builder.
func NewDistributedSwarmEngine(builder *TeamBuilder) *DistributedSwarmEngine {
	return &DistributedSwarmEngine{builder: builder, analyzer: swarm.NewTaskAnalyzer()}
}

// RunDistributed analyzes the task, forms a team from availableAgents,
// simulates the resulting multi-agent conversation, and aggregates the
// output.
func (e *DistributedSwarmEngine) RunDistributed(input string, availableAgents []AgentProfile, nowUnixMs int64) swarm.Result {
	analysis := e.analyzer.Analyze(input)

	e.builder.SetAvailable(availableAgents)
	team := e.builder.FormTeam(analysis, 4, nowUnixMs)

	policy, ok := strategyToPolicy[team.Strategy]
	if !ok {
		policy = PolicyRoundRobin
	}
	controller := NewFlowController(policy, team.Agents)

	var conversation []Turn
	const maxRounds = 5
	for !controller.ShouldConclude(conversation, maxRounds) {
		speaker := controller.NextSpeaker(conversation)
		conversation = append(conversation, Turn{
			AgentID: speaker.AgentID,
			Role:    speaker.Role,
			Content: fmt.Sprintf("[%s] Response to: %s", speaker.Role, input),
		})
	}

	return aggregateConversation(team, conversation, input)
}

// aggregateConversation joins a conversation's turn content and packages it
// as a swarm.Result, shared by RunDistributed and
// RunDistributedWithDispatcher.
func aggregateConversation(team TeamFormation, conversation []Turn, input string) swarm.Result {
	agentIDs := make([]string, 0, len(team.Agents))
	for _, a := range team.Agents {
		agentIDs = append(agentIDs, a.AgentID)
	}

	output := fmt.Sprintf("Processed: %s", input)
	if len(conversation) > 0 {
		parts := make([]string, 0, len(conversation))
		for _, turn := range conversation {
			parts = append(parts, turn.Content)
		}
		output = strings.Join(parts, "\n")
	}

	return swarm.Result{
		Mode:   team.Strategy,
		Output: output,
		Metadata: map[string]interface{}{
			"team_id":            team.TeamID,
			"lead_agent_id":      team.LeadAgentID,
			"agents":             agentIDs,
			"conversation_turns": len(conversation),
			"strategy":           string(team.Strategy),
		},
	}
}
