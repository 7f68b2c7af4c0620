package provider

import (
	"context"
	"fmt"
	"strings"
)

const stubCannedReply = "This is a stub response for testing purposes."

// StubProvider returns deterministic canned responses without making any
// network calls. Used for tests, offline development, and as the
// ProviderFactory's default when no real provider is configured.
type StubProvider struct{}

func (StubProvider) Name() string { return "stub" }

func (StubProvider) Capabilities() Capabilities {
	return Capabilities{NativeToolCalling: false, Vision: false, Streaming: false}
}

func (StubProvider) Chat(_ context.Context, req Request) (Response, error) {
	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += len(strings.Fields(m.Content))
	}
	reply := fmt.Sprintf("%s (model=%s)", stubCannedReply, req.Model)
	return Response{
		Content: reply,
		Usage: &TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: len(strings.Fields(reply)),
		},
	}, nil
}

func (s StubProvider) ChatWithTools(ctx context.Context, req Request, tools []ToolSpec) (Response, error) {
	resp, err := s.Chat(ctx, req)
	if err != nil {
		return resp, err
	}
	if len(tools) > 0 {
		resp.ToolCalls = []ToolCall{{
			ToolName:  tools[0].Name,
			Arguments: map[string]interface{}{"input": "stub"},
		}}
	}
	return resp, nil
}
