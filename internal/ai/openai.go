package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/wellness"
)

const (
	defaultModel = "gpt-4o-mini"
	// SourceOpenAI tags documents produced by this generator.
	SourceOpenAI = "openai"
)

// OpenAI generates plans with an OpenAI chat model in structured output
// mode.
type OpenAI struct {
	Model   string
	client  openai.Client
	logger  *slog.Logger
	OnDelta func(text string) // optional: called with streamed content chunks
}

func NewOpenAI(apiKey, model, baseURL string, logger *slog.Logger) *OpenAI {
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		Model:  model,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (o *OpenAI) params(req wellness.GenerateRequest) (openai.ChatCompletionNewParams, error) {
	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt()),
			openai.UserMessage(userPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "unified_plan",
					Description: openai.String("A coordinated daily wellness plan"),
					Schema:      PlanSchema(),
					Strict:      openai.Bool(false),
				},
			},
		},
	}, nil
}

// Generate asks the model for a plan and wraps it as
// {"unified_plan": ...} so it reads like a plan service response.
func (o *OpenAI) Generate(ctx context.Context, req wellness.GenerateRequest) (plan.Document, error) {
	params, err := o.params(req)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("requesting plan from OpenAI",
		"model", o.Model,
		"user", req.UserID,
		"streaming", o.OnDelta != nil,
	)

	start := time.Now()
	var content string
	if o.OnDelta != nil {
		content, err = o.runStreaming(ctx, params)
	} else {
		content, err = o.runBuffered(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("OpenAI plan received",
		"elapsed", time.Since(start),
		"content_len", len(content),
		"content", truncateStr(content, 2000),
	)

	return wrapPlan(content)
}

func (o *OpenAI) runBuffered(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Error("OpenAI request failed", "error", err)
		return "", fmt.Errorf("requesting plan: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("requesting plan: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

func (o *OpenAI) runStreaming(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			sb.WriteString(text)
			o.OnDelta(text)
		}
	}
	if err := stream.Err(); err != nil {
		o.logger.Error("OpenAI stream failed", "error", err, "received", sb.Len())
		return "", fmt.Errorf("streaming plan: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("streaming plan: no content received")
	}
	return sb.String(), nil
}

// wrapPlan turns model output into a plan document. Output that is
// already wrapped is kept as is; markdown code fences are stripped.
func wrapPlan(content string) (plan.Document, error) {
	content = stripFences(content)
	if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		return nil, fmt.Errorf("parsing plan: model output is not a JSON object (raw: %s)", truncateStr(content, 500))
	}

	if gjson.Get(content, "unified_plan").IsObject() {
		doc, err := sjson.SetBytes([]byte(content), "source", SourceOpenAI)
		if err != nil {
			return nil, fmt.Errorf("tagging plan: %w", err)
		}
		return plan.Document(doc), nil
	}

	doc, err := sjson.SetRawBytes([]byte(`{}`), "unified_plan", []byte(content))
	if err == nil {
		doc, err = sjson.SetBytes(doc, "source", SourceOpenAI)
	}
	if err != nil {
		return nil, fmt.Errorf("wrapping plan: %w", err)
	}
	return plan.Document(doc), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
