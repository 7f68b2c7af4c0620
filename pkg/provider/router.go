package provider

import "fmt"

// TaskComplexity grades how much reasoning a task is expected to need.
// Defined here (rather than in pkg/swarm) so ModelSelector has no import
// cycle back onto the swarm engine; pkg/swarm reuses this type for its own
// TaskAnalyzer output.
type TaskComplexity int

const (
	ComplexityTrivial TaskComplexity = iota
	ComplexitySimple
	ComplexityModerate
	ComplexityComplex
	ComplexityExpert
)

// prefixMap routes a model-name prefix to the provider that serves it,
// mirroring provider_router.py's _PREFIX_MAP. Order matters only in that it
// is iterated deterministically below via prefixOrder.
var prefixMap = map[string]string{
	"claude":  "claude",
	"gpt":     "openai",
	"o1":      "openai",
	"o3":      "openai",
	"gemini":  "gemini",
	"llama":   "ollama",
	"mistral": "ollama",
	"phi":     "ollama",
}

// prefixOrder fixes iteration order over prefixMap so route() is
// deterministic regardless of Go's randomized map iteration.
var prefixOrder = []string{"claude", "gpt", "o1", "o3", "gemini", "llama", "mistral", "phi"}

// ProviderRouter maps model names to registered providers and tracks a
// default used when no mapping or prefix matches.
type ProviderRouter struct {
	providers map[string]Provider
	modelMap  map[string]string
	def       string
}

// NewProviderRouter builds an empty router. The prefix map (claude-* ->
// claude, gpt-*/o1-*/o3-* -> openai, etc.) is applied automatically by
// Route; callers must still Register the providers they want reachable.
func NewProviderRouter() *ProviderRouter {
	return &ProviderRouter{
		providers: make(map[string]Provider),
		modelMap:  make(map[string]string),
	}
}

// Register adds provider under its own Name().
func (r *ProviderRouter) Register(p Provider) {
	r.providers[p.Name()] = p
}

// SetDefault designates the provider used when no mapping or prefix matches.
func (r *ProviderRouter) SetDefault(name string) error {
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("provider: unknown provider %q", name)
	}
	r.def = name
	return nil
}

// MapModel explicitly binds modelName to a registered provider name.
func (r *ProviderRouter) MapModel(modelName, providerName string) error {
	if _, ok := r.providers[providerName]; !ok {
		return fmt.Errorf("provider: unknown provider %q", providerName)
	}
	r.modelMap[modelName] = providerName
	return nil
}

// Route resolves modelName to a provider: explicit mapping, then prefix
// heuristic, then the default, else an error.
func (r *ProviderRouter) Route(modelName string) (Provider, error) {
	if name, ok := r.modelMap[modelName]; ok {
		return r.providers[name], nil
	}

	lower := toLower(modelName)
	for _, prefix := range prefixOrder {
		if hasPrefix(lower, prefix) {
			if p, ok := r.providers[prefixMap[prefix]]; ok {
				return p, nil
			}
		}
	}

	if r.def != "" {
		return r.providers[r.def], nil
	}
	return nil, fmt.Errorf("provider: no provider found for model %q", modelName)
}

// Get returns a registered provider by its canonical name.
func (r *ProviderRouter) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider: unknown provider %q", name)
	}
	return p, nil
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// complexityModels maps task complexity to a default model name, mirroring
// provider_router.py's _COMPLEXITY_MODELS.
var complexityModels = map[TaskComplexity]string{
	ComplexityTrivial:  "claude-3-haiku-20240307",
	ComplexitySimple:   "claude-3-haiku-20240307",
	ComplexityModerate: "claude-3-5-sonnet-20241022",
	ComplexityComplex:  "claude-3-5-sonnet-20241022",
	ComplexityExpert:   "claude-3-opus-20240229",
}

const defaultComplexityModel = "claude-3-5-sonnet-20241022"

// ModelSelector picks the best model name for a task's complexity and an
// optional preferred provider.
type ModelSelector struct {
	router *ProviderRouter
}

// NewModelSelector builds a selector, optionally bound to router (unused by
// Select itself but kept for callers that want selection and routing
// coupled, matching the original's constructor shape).
func NewModelSelector(router *ProviderRouter) *ModelSelector {
	return &ModelSelector{router: router}
}

// Select returns the model name best suited for complexity. When
// preferredProvider is non-empty, a sensible model for that provider is
// returned instead of the complexity default.
func (m *ModelSelector) Select(complexity TaskComplexity, requiresVision bool, preferredProvider string) string {
	if preferredProvider != "" {
		return modelForProvider(preferredProvider, complexity)
	}
	if model, ok := complexityModels[complexity]; ok {
		return model
	}
	return defaultComplexityModel
}

func modelForProvider(providerName string, complexity TaskComplexity) string {
	switch providerName {
	case "openai":
		if complexity == ComplexityExpert || complexity == ComplexityComplex {
			return "gpt-4o"
		}
		return "gpt-4o-mini"
	case "gemini":
		return "gemini-1.5-pro"
	case "ollama":
		return "llama3"
	default:
		if model, ok := complexityModels[complexity]; ok {
			return model
		}
		return defaultComplexityModel
	}
}
