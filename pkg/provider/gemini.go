package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider against Google's Gemini models using the
// official google.golang.org/genai SDK, grounded on pkg/model/gemini's client
// construction and config-building pattern but trimmed to this package's
// flat Request/Response contract instead of a2a message parts.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a client bound to apiKey. model defaults to
// "gemini-2.0-flash" when empty.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("provider: gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("provider: create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Capabilities() Capabilities {
	return Capabilities{NativeToolCalling: true, Vision: true, Streaming: true}
}

func (p *GeminiProvider) Chat(ctx context.Context, req Request) (Response, error) {
	return p.chatWithTools(ctx, req, nil)
}

func (p *GeminiProvider) ChatWithTools(ctx context.Context, req Request, tools []ToolSpec) (Response, error) {
	return p.chatWithTools(ctx, req, tools)
}

func (p *GeminiProvider) chatWithTools(ctx context.Context, req Request, tools []ToolSpec) (Response, error) {
	contents, systemInstruction := buildGeminiContents(req)
	config := buildGeminiConfig(req, systemInstruction, tools)

	modelName := req.Model
	if modelName == "" {
		modelName = p.model
	}

	genResp, err := p.client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return Response{}, fmt.Errorf("provider: gemini generation failed: %w", err)
	}
	return parseGeminiResponse(genResp)
}

func buildGeminiContents(req Request) ([]*genai.Content, *genai.Content) {
	var systemInstruction *genai.Content
	var contents []*genai.Content

	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			systemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
				Role:  "user",
			}
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: m.Content}},
			Role:  role,
		})
	}
	return contents, systemInstruction
}

func buildGeminiConfig(req Request, systemInstruction *genai.Content, tools []ToolSpec) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{SystemInstruction: systemInstruction}

	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	if len(tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, t := range tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toGenaiSchema(t.Parameters),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

func toGenaiSchema(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		s.Type = genai.Type(t)
	}
	if desc, ok := schema["description"].(string); ok {
		s.Description = desc
	}
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]interface{}); ok {
				s.Properties[name] = toGenaiSchema(propMap)
			}
		}
	}
	if required, ok := schema["required"].([]interface{}); ok {
		for _, r := range required {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}
	return s
}

func parseGeminiResponse(genResp *genai.GenerateContentResponse) (Response, error) {
	if len(genResp.Candidates) == 0 {
		return Response{}, fmt.Errorf("provider: empty response from gemini")
	}
	candidate := genResp.Candidates[0]

	var resp Response
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				resp.Content += part.Text
			}
			if part.FunctionCall != nil {
				resp.ToolCalls = append(resp.ToolCalls, ToolCall{
					ToolName:  part.FunctionCall.Name,
					Arguments: part.FunctionCall.Args,
				})
			}
		}
	}
	if genResp.UsageMetadata != nil {
		resp.Usage = &TokenUsage{
			PromptTokens:     int(genResp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(genResp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return resp, nil
}
