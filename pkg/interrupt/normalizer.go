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

package interrupt

import (
	"encoding/json"
	"regexp"
	"strings"
)

type secretPattern struct {
	re          *regexp.Regexp
	replacement string
}

var secretPatterns = []secretPattern{
	{regexp.MustCompile(`sk-[A-Za-z0-9]{8,}`), "[REDACTED_API_KEY]"},
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9._\-]{10,}`), "[REDACTED_BEARER]"},
	{regexp.MustCompile(`(?i)password\s*[=:]\s*\S+`), "[REDACTED_PASSWORD]"},
	{regexp.MustCompile(`(?i)api[_-]?key\s*[=:]\s*\S+`), "[REDACTED_API_KEY]"},
	{regexp.MustCompile(`(?i)secret\s*[=:]\s*\S+`), "[REDACTED_SECRET]"},
	{regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`), "[REDACTED_GH_TOKEN]"},
	{regexp.MustCompile(`gho_[A-Za-z0-9]{36}`), "[REDACTED_GH_TOKEN]"},
}

func redact(text string) (string, []string) {
	var redactedFields []string
	result := text
	for _, p := range secretPatterns {
		if p.re.MatchString(result) {
			redactedFields = append(redactedFields, p.replacement)
			result = p.re.ReplaceAllString(result, p.replacement)
		}
	}
	return result, redactedFields
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	truncated := text[:maxLen]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// Normalized is the result of normalizing a raw tool output.
type Normalized struct {
	Valid            bool
	Data             interface{}
	SummaryConcise   string
	SummaryDetailed  string
	RedactedFields   []string
	ValidationErrors []string
}

// PerceptionAligner normalizes raw tool output strings for LLM
// consumption: schema validation, secret redaction, and length-capped
// summaries.
type PerceptionAligner struct {
	registry *SchemaRegistry
}

// NewPerceptionAligner builds an aligner backed by registry.
func NewPerceptionAligner(registry *SchemaRegistry) PerceptionAligner {
	return PerceptionAligner{registry: registry}
}

// Normalize normalizes a raw tool output string.
func (a PerceptionAligner) Normalize(toolName, rawOutput string) Normalized {
	var parsed interface{}
	isJSON := json.Unmarshal([]byte(rawOutput), &parsed) == nil

	valid := true
	var validationErrors []string
	if isJSON {
		valid, validationErrors = a.registry.Validate(toolName, parsed)
	} else {
		parsed = rawOutput
	}

	var toRedact string
	if isJSON {
		b, _ := json.Marshal(parsed)
		toRedact = string(b)
	} else {
		toRedact = rawOutput
	}
	redactedText, redactedFields := redact(toRedact)

	return Normalized{
		Valid:            valid,
		Data:             parsed,
		SummaryConcise:   truncate(redactedText, 200),
		SummaryDetailed:  truncate(redactedText, 2000),
		RedactedFields:   redactedFields,
		ValidationErrors: validationErrors,
	}
}
