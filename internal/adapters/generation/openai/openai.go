// Package openai implements the image half of ports.GenerationClient on
// the OpenAI Images API. Model generation is not available on this
// backend; pair the client with another provider through
// generation.Composite when 3D output is needed.
package openai

import (
	"context"
	"fmt"
	"net/http"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/scenesmith/scenesmith/internal/adapters/generation"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Images generates 2D assets through the OpenAI Images API.
type Images struct {
	client sdk.Client
	model  sdk.ImageModel
}

var _ ports.GenerationClient = (*Images)(nil)

// Option configures the client.
type Option func(*settings)

type settings struct {
	model   sdk.ImageModel
	reqOpts []option.RequestOption
}

// WithModel selects the image model. Defaults to DALL-E 3.
func WithModel(model string) Option {
	return func(s *settings) {
		s.model = sdk.ImageModel(model)
	}
}

// WithBaseURL points the client at an alternative API endpoint, for
// proxies and compatible self-hosted services.
func WithBaseURL(url string) Option {
	return func(s *settings) {
		s.reqOpts = append(s.reqOpts, option.WithBaseURL(url))
	}
}

// WithHTTPClient substitutes the transport, typically an
// httptest.Server client in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.reqOpts = append(s.reqOpts, option.WithHTTPClient(client))
	}
}

// New builds a client authenticated with the given API key.
func New(apiKey string, opts ...Option) *Images {
	cfg := settings{
		model:   sdk.ImageModelDallE3,
		reqOpts: []option.RequestOption{option.WithAPIKey(apiKey)},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Images{
		client: sdk.NewClient(cfg.reqOpts...),
		model:  cfg.model,
	}
}

// GenerateImage submits the prompt and returns the URL of the produced
// image. The negative prompt has no first-class field on this API, so
// it is folded into the prompt text.
func (c *Images) GenerateImage(ctx context.Context, prompt string, p domain.ImageParams, progress ports.ProgressFunc) (string, error) {
	if progress != nil {
		progress("submitting image request")
	}

	full := prompt
	if p.NegativePrompt != "" {
		full = fmt.Sprintf("%s\n\nAvoid: %s", prompt, p.NegativePrompt)
	}

	resp, err := c.client.Images.Generate(ctx, sdk.ImageGenerateParams{
		Prompt:         full,
		Model:          c.model,
		N:              sdk.Int(1),
		ResponseFormat: sdk.ImageGenerateParamsResponseFormatURL,
		Size:           sizeForRatio(p.Ratio),
	})
	if err != nil {
		return "", fmt.Errorf("openai: generate image: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("openai: empty image response")
	}

	img := resp.Data[0]
	switch {
	case img.URL != "":
		return img.URL, nil
	case img.B64JSON != "":
		return "data:image/png;base64," + img.B64JSON, nil
	default:
		return "", fmt.Errorf("openai: response carried no image payload")
	}
}

// GenerateModel always fails: the Images API has no 3D output.
func (c *Images) GenerateModel(ctx context.Context, imageURL string, progress ports.ProgressFunc) (string, error) {
	return "", fmt.Errorf("openai: model generation: %w", generation.ErrUnsupported)
}

// sizeForRatio maps the editor's aspect ratios onto the sizes the API
// accepts. Unknown ratios fall back to square output.
func sizeForRatio(ratio string) sdk.ImageGenerateParamsSize {
	switch ratio {
	case "16:9":
		return sdk.ImageGenerateParamsSize1792x1024
	case "9:16":
		return sdk.ImageGenerateParamsSize1024x1792
	default:
		return sdk.ImageGenerateParamsSize1024x1024
	}
}
