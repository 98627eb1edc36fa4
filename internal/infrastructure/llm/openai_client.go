package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kinhealth/config"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrUpstreamStatus = errors.New("completion endpoint returned non-success status")
	ErrEmptyChoices   = errors.New("completion response has no choices")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to an OpenAI-compatible /chat/completions endpoint in JSON mode.
// It never retries; callers bound it with a context deadline.
type OpenAIClient struct {
	httpClient *resty.Client
	model      string
	log        *logrus.Logger
}

func NewOpenAIClient(cfg config.LLMConfig, log *logrus.Logger) *OpenAIClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &OpenAIClient{
		httpClient: client,
		model:      cfg.Model,
		log:        log,
	}
}

// Complete sends one system + user message pair and returns the first choice's content
func (c *OpenAIClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	ctx, span := otel.Tracer("kinhealth/llm").Start(ctx, "llm.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	var response chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("llm call: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		c.log.WithField("status", resp.StatusCode()).Warn("Completion endpoint returned an error status")
		span.SetStatus(codes.Error, resp.Status())
		return "", fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
	}

	if len(response.Choices) == 0 {
		span.SetStatus(codes.Error, "empty choices")
		return "", ErrEmptyChoices
	}

	return response.Choices[0].Message.Content, nil
}
