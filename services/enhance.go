package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/errs"
)

const maxEnhanceInput = 8000

type EnhanceKind string

const (
	EnhanceGeneral      EnhanceKind = "general"
	EnhanceProject      EnhanceKind = "project_description"
	EnhanceBio          EnhanceKind = "bio"
	EnhanceBestPractice EnhanceKind = "best_practice"
	EnhanceFeedback     EnhanceKind = "feedback"
)

var enhancePrompts = map[EnhanceKind]string{
	EnhanceGeneral:      "Improve the clarity and grammar of the user's text. Keep the meaning and roughly the same length. Reply with the rewritten text only.",
	EnhanceProject:      "Rewrite the user's hackathon project description so that the problem, the solution and the help needed are clear. Reply with the rewritten text only.",
	EnhanceBio:          "Rewrite the user's profile bio in a friendly first-person voice that highlights their skills. Reply with the rewritten text only.",
	EnhanceBestPractice: "Rewrite the user's best-practice article as well structured markdown with short sections. Reply with the rewritten text only.",
	EnhanceFeedback:     "Rewrite the user's product feedback so that it is specific, polite and actionable. Reply with the rewritten text only.",
}

func (k EnhanceKind) Valid() bool {
	_, ok := enhancePrompts[k]
	return ok
}

type EnhanceRequest struct {
	Text string      `json:"text"`
	Kind EnhanceKind `json:"kind"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type EnhanceResult struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
}

// Enhancer rewrites user supplied text.
type Enhancer interface {
	Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResult, error)
}

type LLMEnhancer struct {
	model     llms.Model
	maxTokens int
	breaker   *gobreaker.CircuitBreaker
	logger    zerolog.Logger
}

// NewLLMEnhancer builds an OpenAI compatible client from LLM_API_KEY, LLM_MODEL and LLM_BASE_URL.
func NewLLMEnhancer(c map[string]string) (*LLMEnhancer, error) {
	apiKey := config.GetString(c, "LLM_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewConfigMissingError("LLM_API_KEY")
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(config.GetString(c, "LLM_MODEL", "gpt-4o-mini")),
	}
	if baseURL := config.GetString(c, "LLM_BASE_URL", ""); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewLLMEnhancerWithModel(model, config.GetInt(c, "LLM_MAX_TOKENS", 1024)), nil
}

func NewLLMEnhancerWithModel(model llms.Model, maxTokens int) *LLMEnhancer {
	return &LLMEnhancer{
		model:     model,
		maxTokens: maxTokens,
		breaker:   newBreaker("llm", 30*time.Second),
		logger:    log.With().Str("service", "llmEnhancer").Logger(),
	}
}

func (e *LLMEnhancer) Enhance(ctx context.Context, req EnhanceRequest) (*EnhanceResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errs.NewMissingRequiredFieldError("text")
	}
	if len(text) > maxEnhanceInput {
		return nil, errs.NewContextLengthExceededError(maxEnhanceInput)
	}
	if req.Kind == "" {
		req.Kind = EnhanceGeneral
	}
	if !req.Kind.Valid() {
		return nil, errs.NewInvalidFieldError("kind", "unknown enhancement kind")
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, enhancePrompts[req.Kind]),
		llms.TextParts(schema.ChatMessageTypeHuman, text),
	}

	resp, err := execute(e.breaker, "llm", func() (*llms.ContentResponse, error) {
		return e.model.GenerateContent(ctx, messages,
			llms.WithTemperature(0.3),
			llms.WithMaxTokens(e.maxTokens),
		)
	})
	if err != nil {
		e.logger.Error().Err(err).Str("kind", string(req.Kind)).Msg("Enhancement failed")
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errs.NewUpstreamError("llm", errs.ErrUpstream)
	}

	choice := resp.Choices[0]
	result := &EnhanceResult{
		Text: strings.TrimSpace(choice.Content),
		Usage: TokenUsage{
			PromptTokens:     intFromInfo(choice.GenerationInfo, "PromptTokens"),
			CompletionTokens: intFromInfo(choice.GenerationInfo, "CompletionTokens"),
			TotalTokens:      intFromInfo(choice.GenerationInfo, "TotalTokens"),
		},
	}
	if result.Usage.TotalTokens == 0 {
		result.Usage.TotalTokens = result.Usage.PromptTokens + result.Usage.CompletionTokens
	}

	e.logger.Info().
		Str("kind", string(req.Kind)).
		Int("totalTokens", result.Usage.TotalTokens).
		Msg("Enhanced text")
	return result, nil
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
