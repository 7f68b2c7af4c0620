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

	"github.com/yannabadie/ygn-brain/pkg/swarm"
	"github.com/yannabadie/ygn-brain/pkg/uacp"
)

// TurnDispatcher produces a turn's content for a given speaker and prompt.
// RunDistributedWithDispatcher calls it for every turn in place of
// RunDistributed's local canned text. It does not look at
// AgentProfile.IsLocal, so with a UACPDispatcher every speaker, local or
// not, is contacted over the wire.
type TurnDispatcher interface {
	Dispatch(speaker AgentProfile, prompt string) (string, error)
}

// LocalDispatcher fabricates canned turn content, matching the original
// simulation's in-process behavior.
type LocalDispatcher struct{}

func (LocalDispatcher) Dispatch(speaker AgentProfile, prompt string) (string, error) {
	return fmt.Sprintf("[%s] Response to: %s", speaker.Role, prompt), nil
}

// UACPDispatcher sends a TELL frame to a remote agent over a pool of
// established uACP connections, keyed by AgentID, and waits for its reply
// frame.
type UACPDispatcher struct {
	conns     map[string]*uacp.Conn
	sender    string
	nextMsgID uint32
}

// NewUACPDispatcher builds a dispatcher over pre-established connections,
// one per remote agent id.
func NewUACPDispatcher(sender string, conns map[string]*uacp.Conn) *UACPDispatcher {
	return &UACPDispatcher{conns: conns, sender: sender}
}

// Dispatch sends prompt to speaker's connection as a TELL frame and returns
// the payload of its reply frame as the turn's content.
func (d *UACPDispatcher) Dispatch(speaker AgentProfile, prompt string) (string, error) {
	conn, ok := d.conns[speaker.AgentID]
	if !ok {
		return "", fmt.Errorf("teaming: no uacp connection for agent %q", speaker.AgentID)
	}

	d.nextMsgID++
	msg := uacp.Message{
		Verb:      uacp.VerbTell,
		MessageID: d.nextMsgID,
		Sender:    d.sender,
		Payload:   []byte(prompt),
	}
	if err := conn.Send(msg); err != nil {
		return "", fmt.Errorf("teaming: send to %q: %w", speaker.AgentID, err)
	}

	reply, err := conn.Receive()
	if err != nil {
		return "", fmt.Errorf("teaming: receive from %q: %w", speaker.AgentID, err)
	}
	return string(reply.Payload), nil
}

// RunDistributedWithDispatcher is RunDistributed generalized over a
// TurnDispatcher, so local simulation and remote uACP-backed agents share
// the exact same team-formation and flow-control logic; only how a turn's
// content is produced changes.
func (e *DistributedSwarmEngine) RunDistributedWithDispatcher(
	input string,
	availableAgents []AgentProfile,
	nowUnixMs int64,
	dispatcher TurnDispatcher,
) (swarm.Result, error) {
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
		content, err := dispatcher.Dispatch(speaker, input)
		if err != nil {
			return swarm.Result{}, fmt.Errorf("teaming: turn for agent %q: %w", speaker.AgentID, err)
		}
		conversation = append(conversation, Turn{AgentID: speaker.AgentID, Role: speaker.Role, Content: content})
	}

	return aggregateConversation(team, conversation, input), nil
}
