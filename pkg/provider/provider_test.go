package provider

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProviderChat(t *testing.T) {
	resp, err := (StubProvider{}).Chat(context.Background(), Request{
		Model:    "stub-model",
		Messages: []Message{{Role: RoleUser, Content: "hello there"}},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "stub-model")
	assert.NotNil(t, resp.Usage)
}

func TestStubProviderChatWithTools(t *testing.T) {
	resp, err := (StubProvider{}).ChatWithTools(context.Background(), Request{Model: "m"},
		[]ToolSpec{{Name: "search"}})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "search", resp.ToolCalls[0].ToolName)
}

func TestProviderFactoryDefaultsToStub(t *testing.T) {
	os.Unsetenv(EnvProviderVar)
	f := NewProviderFactory(FactoryConfig{})
	p, err := f.Create(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
}

func TestProviderFactoryUnknownEnvValueFails(t *testing.T) {
	os.Setenv(EnvProviderVar, "not-a-real-provider")
	defer os.Unsetenv(EnvProviderVar)
	f := NewProviderFactory(FactoryConfig{})
	_, err := f.Create(context.Background(), false)
	assert.Error(t, err)
}

func TestProviderFactoryExplicitStub(t *testing.T) {
	os.Setenv(EnvProviderVar, "stub")
	defer os.Unsetenv(EnvProviderVar)
	f := NewProviderFactory(FactoryConfig{})
	p, err := f.Create(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
}

func TestProviderFactoryFallbackDegradesToStub(t *testing.T) {
	os.Unsetenv(EnvProviderVar)
	f := NewProviderFactory(FactoryConfig{})
	p := f.createFallback(context.Background())
	assert.Equal(t, "stub", p.Name())
}

func TestProviderRouterExplicitMapping(t *testing.T) {
	r := NewProviderRouter()
	r.Register(StubProvider{})
	require.NoError(t, r.MapModel("my-custom-model", "stub"))
	p, err := r.Route("my-custom-model")
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
}

func TestProviderRouterPrefixHeuristic(t *testing.T) {
	r := NewProviderRouter()
	r.Register(gemStub{})
	p, err := r.Route("gemini-1.5-pro")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}

func TestProviderRouterDefaultFallback(t *testing.T) {
	r := NewProviderRouter()
	r.Register(StubProvider{})
	require.NoError(t, r.SetDefault("stub"))
	p, err := r.Route("some-unknown-model-xyz")
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
}

func TestProviderRouterNoMatchErrors(t *testing.T) {
	r := NewProviderRouter()
	_, err := r.Route("some-unknown-model-xyz")
	assert.Error(t, err)
}

func TestModelSelectorComplexityDefaults(t *testing.T) {
	sel := NewModelSelector(nil)
	assert.Equal(t, "claude-3-haiku-20240307", sel.Select(ComplexityTrivial, false, ""))
	assert.Equal(t, "claude-3-opus-20240229", sel.Select(ComplexityExpert, false, ""))
}

func TestModelSelectorPreferredProvider(t *testing.T) {
	sel := NewModelSelector(nil)
	assert.Equal(t, "gpt-4o", sel.Select(ComplexityExpert, false, "openai"))
	assert.Equal(t, "gpt-4o-mini", sel.Select(ComplexityTrivial, false, "openai"))
	assert.Equal(t, "llama3", sel.Select(ComplexityModerate, false, "ollama"))
}

// gemStub is a minimal Provider stand-in named "gemini" for router tests,
// avoiding a real network-bound GeminiProvider construction in unit tests.
type gemStub struct{ StubProvider }

func (gemStub) Name() string { return "gemini" }
