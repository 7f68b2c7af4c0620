package teaming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yannabadie/ygn-brain/pkg/swarm"
)

func sampleAgents() []AgentProfile {
	return []AgentProfile{
		{AgentID: "a1", Role: "planner", Capabilities: []string{"code"}, TrustLevel: 0.9, IsLocal: true},
		{AgentID: "a2", Role: "executor", Capabilities: []string{"data"}, TrustLevel: 0.5, IsLocal: true},
		{AgentID: "a3", Role: "validator", Capabilities: []string{"research"}, TrustLevel: 0.7, IsLocal: true},
	}
}

func TestFlowControllerRoundRobin(t *testing.T) {
	fc := NewFlowController(PolicyRoundRobin, sampleAgents())
	first := fc.NextSpeaker(nil)
	assert.Equal(t, "a1", first.AgentID)
	second := fc.NextSpeaker([]Turn{{AgentID: "a1"}})
	assert.Equal(t, "a2", second.AgentID)
}

func TestFlowControllerLeadFirstPicksHighestTrust(t *testing.T) {
	fc := NewFlowController(PolicyLeadFirst, sampleAgents())
	lead := fc.NextSpeaker(nil)
	assert.Equal(t, "a1", lead.AgentID)
}

func TestFlowControllerShouldConclude(t *testing.T) {
	fc := NewFlowController(PolicyRoundRobin, sampleAgents())
	conversation := make([]Turn, 15)
	assert.True(t, fc.ShouldConclude(conversation, 5))
	assert.False(t, fc.ShouldConclude(conversation[:2], 5))
}

func TestFlowControllerDebateAlternatesRoles(t *testing.T) {
	fc := NewFlowController(PolicyDebate, sampleAgents())
	next := fc.NextSpeaker([]Turn{{AgentID: "a1"}})
	assert.NotEqual(t, "planner", next.Role)
}

func TestTeamBuilderFormTeamPicksLeadByTrust(t *testing.T) {
	builder := NewTeamBuilder(sampleAgents())
	analysis := swarm.TaskAnalysis{Complexity: 3, Domains: []string{"code", "data"}, SuggestedMode: swarm.ModeParallel}
	team := builder.FormTeam(analysis, 4, 1000)
	require.NotEmpty(t, team.Agents)
	assert.Equal(t, "a1", team.LeadAgentID)
	assert.Len(t, builder.ActiveTeams(), 1)
}

func TestTeamBuilderDissolveTeam(t *testing.T) {
	builder := NewTeamBuilder(sampleAgents())
	analysis := swarm.TaskAnalysis{Complexity: 0, Domains: []string{"general"}, SuggestedMode: swarm.ModeSequential}
	team := builder.FormTeam(analysis, 4, 1000)
	builder.DissolveTeam(team.TeamID)
	assert.Empty(t, builder.ActiveTeams())
}

func TestDistributedSwarmEngineRunDistributed(t *testing.T) {
	builder := NewTeamBuilder(nil)
	engine := NewDistributedSwarmEngine(builder)
	result := engine.RunDistributed("please refactor the code", sampleAgents(), 1000)
	assert.NotEmpty(t, result.Output)
	assert.Contains(t, result.Metadata, "team_id")
}

func TestRunDistributedWithDispatcherUsesLocalDispatcher(t *testing.T) {
	builder := NewTeamBuilder(nil)
	engine := NewDistributedSwarmEngine(builder)
	result, err := engine.RunDistributedWithDispatcher("hi", sampleAgents(), 1000, LocalDispatcher{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Output)
}
