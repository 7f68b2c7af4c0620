package tieredmemory

import "regexp"

// EntityExtractor pulls entity names (functions, classes, URLs, paths) out
// of cold-tier content for the relation index, mirroring the original's
// EntityExtractor abstract base.
type EntityExtractor interface {
	Extract(text string) []string
}

// StubEntityExtractor returns no entities. For tests.
type StubEntityExtractor struct{}

func (StubEntityExtractor) Extract(string) []string { return nil }

var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdef\s+(\w+)`),
	regexp.MustCompile(`\bclass\s+(\w+)`),
	regexp.MustCompile(`\bfn\s+(\w+)`),
	regexp.MustCompile(`(https?://\S+)`),
	regexp.MustCompile(`(/[\w/.-]+\.\w+)`),
}

// RegexEntityExtractor extracts function names, class names, URLs, and file
// paths via fixed regex patterns, matching the original's
// RegexEntityExtractor exactly.
type RegexEntityExtractor struct{}

func (RegexEntityExtractor) Extract(text string) []string {
	if text == "" {
		return nil
	}
	var entities []string
	seen := make(map[string]struct{})
	for _, pattern := range entityPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			entity := match[0]
			if len(match) > 1 && match[1] != "" {
				entity = match[1]
			}
			if _, ok := seen[entity]; ok {
				continue
			}
			seen[entity] = struct{}{}
			entities = append(entities, entity)
		}
	}
	return entities
}
