package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	domain "github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

const (
	featureDocumentText = "DOCUMENT_TEXT_DETECTION"
	DefaultLanguageHint = "ko"
	serviceName         = "Vision"
)

var errNoText = fmt.Errorf("%w: no text detected in image", domain.ErrEmptyResult)

// Client implements ai.TextExtractor on the Cloud Vision images:annotate endpoint.
type Client struct {
	svc          *vision.Service
	languageHint string
}

// Config for NewClient. Endpoint is only set in tests or for a proxy.
type Config struct {
	APIKey       string
	Endpoint     string
	LanguageHint string
}

// NewClient builds the client. Without an API key it still succeeds; every
// call then fails with a configuration error.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	hint := cfg.LanguageHint
	if hint == "" {
		hint = DefaultLanguageHint
	}
	c := &Client{languageHint: hint}
	if cfg.APIKey == "" {
		return c, nil
	}

	// key dikirim sebagai query parameter ?key=
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return c, nil
}

// ExtractText runs document text detection once and returns the first
// non-empty text found.
func (c *Client) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	if c.svc == nil {
		return "", domain.Configurationf("GOOGLE_VISION_API_KEY is not set")
	}
	if imageBase64 == "" {
		return "", domain.InvalidInputf("image input is empty")
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:        &vision.Image{Content: imageBase64},
				Features:     []*vision.Feature{{Type: featureDocumentText}},
				ImageContext: &vision.ImageContext{LanguageHints: []string{c.languageHint}},
			},
		},
	}
	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", translateError(ctx, err)
	}
	return textFromResponse(resp)
}

func textFromResponse(resp *vision.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", errNoText
	}
	first := resp.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return "", &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.HTTPStatusCode,
			Message:    first.Error.Message,
		}
	}

	var text string
	if first.FullTextAnnotation != nil {
		text = first.FullTextAnnotation.Text
	}
	if text == "" && len(first.TextAnnotations) > 0 && first.TextAnnotations[0] != nil {
		text = first.TextAnnotations[0].Description
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}
	return text, nil
}

func translateError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		msg := gErr.Message
		if msg == "" {
			msg = responseErrorMessage(gErr.Body)
		}
		return &domain.UpstreamError{
			Service:    serviceName,
			StatusCode: gErr.Code,
			Body:       gErr.Body,
			Message:    msg,
		}
	}
	return &domain.UpstreamError{Service: serviceName, Message: err.Error()}
}

// responseErrorMessage reads responses[0].error.message from a non-2xx body.
func responseErrorMessage(body string) string {
	var resp vision.BatchAnnotateImagesResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return ""
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil || resp.Responses[0].Error == nil {
		return ""
	}
	return resp.Responses[0].Error.Message
}
