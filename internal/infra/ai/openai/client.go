package openai

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/ai"
	"github.com/bryanwahyu/siren-alert/internal/infra/ai/prompt"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = float32(0.2)
	maxTokens          = 2048
	serviceName        = "OpenAI"
)

// Client implements ai.Analyzer on the chat completion endpoint.
type Client struct {
	api         *openai.Client
	apiKey      string
	Model       string
	Temperature float32
}

// Config for NewClient. Zero values fall back to defaults.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	BaseURL     string
	HTTPClient  *http.Client
}

func NewClient(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	next := cfg.HTTPClient
	if next == nil {
		next = http.DefaultClient
	}
	oc.HTTPClient = &capturingDoer{next: next}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	temp := cfg.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		apiKey:      cfg.APIKey,
		Model:       model,
		Temperature: temp,
	}
}

// AnalyzeText sends one strict-schema completion request. No retry.
func (c *Client) AnalyzeText(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.InvalidInputf("text input is empty")
	}
	if c.apiKey == "" {
		return nil, domain.Configurationf("OPENAI_API_KEY is not set")
	}

	req := openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   prompt.SchemaName,
				Schema: prompt.Schema(),
				Strict: true,
			},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens and the fixed temperature
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
		req.Temperature = c.Temperature
	}

	capture := &responseCapture{}
	resp, err := c.api.CreateChatCompletion(withCapture(ctx, capture), req)
	if err != nil {
		return nil, translateError(ctx, err, capture)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.ResponseFormatf("OpenAI response missing content")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, domain.ResponseFormatf("OpenAI response missing content")
	}
	return domain.ParseResult(content)
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

func translateError(ctx context.Context, err error, capture *responseCapture) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: apiErr.HTTPStatusCode,
			Body:       capture.body,
			Message:    apiErr.Message,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: reqErr.HTTPStatusCode,
			Body:       capture.body,
		}
	}
	// got a 2xx but the envelope would not decode
	if capture.status >= 200 && capture.status < 300 {
		return domain.ResponseFormatf("decode OpenAI response: %v", err)
	}
	return &domain.UpstreamError{Service: serviceName, Message: err.Error()}
}

type captureKey struct{}

// responseCapture records the status and, for failures, the raw body of the
// response to a single request.
type responseCapture struct {
	status int
	body   string
}

func withCapture(ctx context.Context, c *responseCapture) context.Context {
	return context.WithValue(ctx, captureKey{}, c)
}

type capturingDoer struct {
	next *http.Client
}

func (d *capturingDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if err != nil {
		return resp, err
	}
	c, ok := req.Context().Value(captureKey{}).(*responseCapture)
	if !ok {
		return resp, nil
	}
	c.status = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	b, rerr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if rerr != nil {
		return nil, rerr
	}
	c.body = string(b)
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return resp, nil
}
