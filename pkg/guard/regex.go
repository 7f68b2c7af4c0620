package guard

import "regexp"

// instructionOverridePatterns and roleManipulationPatterns both map to a
// HIGH threat level (score 75); delimiterInjectionPatterns maps to CRITICAL
// (score 100). Order matters: the first matching group wins, evaluated
// instruction-override, then role-manipulation, then delimiter-injection.
var (
	instructionOverridePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+(instructions|rules)`),
		regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior)\s+(instructions|rules)`),
		regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior)\s+(instructions|rules|context)`),
		regexp.MustCompile(`(?i)you\s+are\s+now\s+(?:a|an)\s+\w+`),
		regexp.MustCompile(`(?i)new\s+instructions?:`),
	}

	roleManipulationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bsystem\s*:\s*`),
		regexp.MustCompile(`(?i)\bassistant\s*:\s*`),
		regexp.MustCompile(`(?i)\b(?:act|behave|pretend)\s+as\s+(?:if\s+you\s+are|a)\b`),
		regexp.MustCompile(`(?i)you\s+must\s+obey`),
	}

	delimiterInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile("(?i)```\\s*system"),
		regexp.MustCompile(`(?i)<\|(?:im_start|im_end|system|endoftext)\|>`),
		regexp.MustCompile(`(?i)###\s*(?:SYSTEM|INSTRUCTION)`),
		regexp.MustCompile(`(?i)\[INST\]`),
	}
)

const (
	scoreHigh     = 75.0
	scoreCritical = 100.0
)

// RegexGuard matches the three canonical pattern groups named in spec §4.4.
// It is the default backend installed when a Pipeline is built with no
// explicit backends.
type RegexGuard struct{}

// NewRegexGuard constructs the default pattern-based backend.
func NewRegexGuard() *RegexGuard { return &RegexGuard{} }

func (g *RegexGuard) Name() string { return "regex" }

func (g *RegexGuard) Check(text string) Result {
	for _, pat := range instructionOverridePatterns {
		if pat.MatchString(text) {
			return Result{
				Allowed:     false,
				ThreatLevel: ThreatHigh,
				Reason:      "instruction override detected: " + pat.String(),
				Score:       scoreHigh,
			}
		}
	}
	for _, pat := range roleManipulationPatterns {
		if pat.MatchString(text) {
			return Result{
				Allowed:     false,
				ThreatLevel: ThreatHigh,
				Reason:      "role manipulation detected: " + pat.String(),
				Score:       scoreHigh,
			}
		}
	}
	for _, pat := range delimiterInjectionPatterns {
		if pat.MatchString(text) {
			return Result{
				Allowed:     false,
				ThreatLevel: ThreatCritical,
				Reason:      "delimiter injection detected: " + pat.String(),
				Score:       scoreCritical,
			}
		}
	}
	return Result{
		Allowed:     true,
		ThreatLevel: ThreatNone,
		Reason:      "input passed all checks",
		Score:       0,
	}
}
