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
	"context"
	"os/exec"
	"strings"
	"time"
)

// Verifier scores a candidate against a task.
type Verifier interface {
	Verify(ctx context.Context, candidate Candidate, task string) Feedback
}

var refusalPhrases = []string{
	"i cannot", "i can't", "i'm not able to", "as an ai", "i'm sorry, but",
}

// TextVerifier scores free-text output heuristically: length, refusal
// detection, relevance to the task, and basic structure.
type TextVerifier struct{}

func (TextVerifier) Verify(_ context.Context, candidate Candidate, task string) Feedback {
	output := strings.TrimSpace(candidate.Output)
	if output == "" {
		return Feedback{Passed: false, Score: 0.0, Diagnostics: "empty output"}
	}
	lower := strings.ToLower(output)

	var score float64
	var diagnostics []string

	switch {
	case len(output) == 0:
		diagnostics = append(diagnostics, "empty output")
	case len(output) < 20:
		score += 0.1
		diagnostics = append(diagnostics, "output too short")
	default:
		score += 0.3
	}

	refused := false
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			refused = true
			break
		}
	}
	if refused {
		diagnostics = append(diagnostics, "output appears to be a refusal")
	} else {
		score += 0.3
	}

	taskWords := strings.Fields(strings.ToLower(task))
	matched := 0
	for _, w := range taskWords {
		if len(w) > 3 && strings.Contains(lower, w) {
			matched++
		}
	}
	if len(taskWords) > 0 && float64(matched)/float64(len(taskWords)) > 0.2 {
		score += 0.2
	} else {
		diagnostics = append(diagnostics, "output does not appear relevant to the task")
	}

	if strings.Contains(output, "\n") || strings.Contains(output, ". ") {
		score += 0.2
	} else {
		diagnostics = append(diagnostics, "output lacks structure")
	}

	passed := score >= 0.8 && !refused
	diag := "looks good"
	if len(diagnostics) > 0 {
		diag = strings.Join(diagnostics, "; ")
	}

	return Feedback{
		Passed:      passed,
		Score:       score,
		Diagnostics: diag,
		Artifacts:   map[string]interface{}{"matched_words": matched},
	}
}

// CommandVerifier scores a candidate by running a shell command against it
// and checking the exit code.
type CommandVerifier struct {
	Timeout time.Duration
}

// NewCommandVerifier defaults Timeout to 30s as in the original.
func NewCommandVerifier(timeout time.Duration) CommandVerifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return CommandVerifier{Timeout: timeout}
}

func (v CommandVerifier) Verify(ctx context.Context, candidate Candidate, _ string) Feedback {
	cmdStr := strings.TrimSpace(candidate.Prompt)
	if cmdStr == "" {
		return Feedback{Passed: false, Score: 0.0, Diagnostics: "no command configured"}
	}

	runCtx, cancel := context.WithTimeout(ctx, v.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", cmdStr)
	cmd.Stdin = strings.NewReader(candidate.Output)
	out, err := cmd.CombinedOutput()

	if runCtx.Err() == context.DeadlineExceeded {
		return Feedback{Passed: false, Score: 0.0, Diagnostics: "command timed out", Artifacts: map[string]interface{}{"output": string(out)}}
	}
	if err != nil {
		return Feedback{Passed: false, Score: 0.0, Diagnostics: "command failed: " + err.Error(), Artifacts: map[string]interface{}{"output": string(out)}}
	}
	return Feedback{Passed: true, Score: 1.0, Diagnostics: "command succeeded", Artifacts: map[string]interface{}{"output": string(out)}}
}
