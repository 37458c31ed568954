package aifilter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIAssistant turns queries into conditions with an OpenAI-compatible
// chat completion endpoint.
type OpenAIAssistant struct {
	client ChatCompleter
	model  string
	logger *zap.Logger
}

func NewOpenAIAssistant(apiKey, baseURL, model string, logger *zap.Logger) *OpenAIAssistant {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return NewOpenAIAssistantWithClient(openai.NewClientWithConfig(cfg), model, logger)
}

func NewOpenAIAssistantWithClient(client ChatCompleter, model string, logger *zap.Logger) *OpenAIAssistant {
	return &OpenAIAssistant{client: client, model: model, logger: logger.Named("ai_filter")}
}

func (a *OpenAIAssistant) Filter(ctx context.Context, req Request) (Response, error) {
	req, err := Prepare(req)
	if err != nil {
		return Response{}, err
	}

	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.TableName)}}
	for _, turn := range req.History {
		role := openai.ChatMessageRoleAssistant
		if turn.Type == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Query})

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          a.model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		a.logger.Error("chat completion failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return Response{}, fmt.Errorf("ai filter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("ai filter: no choices in response")
	}
	a.logger.Info("chat completion done",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return ParseReply(resp.Choices[0].Message.Content), nil
}

// ParseReply decodes the model's JSON reply. Anything that is not a JSON
// object with a known variant is returned as a plain message.
func ParseReply(content string) Response {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var out Response
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil || out.Kind() == KindEmpty {
		return Response{Message: strings.TrimSpace(content)}
	}
	return out.Normalize()
}

func systemPrompt(table string) string {
	return fmt.Sprintf(`You translate requests about the %q table into structured filters.
Reply with one JSON object and nothing else, using exactly one of these shapes:
{"filters":[{"field":"<field>","operator":"equals|contains|in","value":<string or list>}],"message":"<short confirmation>"}
{"clarification":"<question when the request is ambiguous>"}
{"message":"<answer when no filter is requested>"}
Allowed fields: %s.
Use "in" with a list value for alternatives. Combine conditions with AND.`, table, strings.Join(Fields, ", "))
}
