// Package api wraps the OpenAI SDK behind a small typed surface. Each call
// forwards its parameters to the vendor and maps the loosely-typed response
// into the explicit result types the commands consume.
package api

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Service is the vendor API surface the commands depend on.
type Service interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
	RetrieveModel(ctx context.Context, modelID string) (ModelInfo, error)
	CreateCompletion(ctx context.Context, params CompletionParams) (CompletionResult, error)
	CreateEdit(ctx context.Context, params EditParams) (EditResult, error)
	CreateImages(ctx context.Context, params ImageParams) ([]ImageData, error)
	ListFineTunes(ctx context.Context) ([]FineTuneInfo, error)
}

// CompletionParams are the completion options exposed on the command line.
type CompletionParams struct {
	Model            string
	Prompt           string
	Suffix           string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	Echo             bool
	Stop             []string
}

// EditParams are the edit options exposed on the command line.
type EditParams struct {
	Model       string
	Input       string
	Instruction string
	N           int
	Temperature float64
}

// ImageParams are the image generation options exposed on the command line.
type ImageParams struct {
	Prompt         string
	N              int
	Size           string
	ResponseFormat string
}

// Config carries client construction options.
type Config struct {
	APIKey       string
	Organization string
	APIBase      string
}

// Client implements Service against the OpenAI API.
type Client struct {
	client *openai.Client
	org    string
}

var _ Service = (*Client)(nil)

// NewClient builds a Client from config. APIBase overrides the SDK's
// default endpoint when set.
func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientConfig.BaseURL = cfg.APIBase
	}
	if cfg.Organization != "" {
		clientConfig.OrgID = cfg.Organization
	}
	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		org:    cfg.Organization,
	}
}

// Organization returns the configured organization identifier.
func (c *Client) Organization() string {
	return c.org
}

// IsAuthError reports whether err is an authentication failure from the API.
func IsAuthError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 401
	}
	return false
}

// ListModels returns all available models.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	response, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if len(response.Models) == 0 {
		return nil, errors.New("no model data found")
	}

	models := make([]ModelInfo, 0, len(response.Models))
	for _, m := range response.Models {
		models = append(models, modelFromSDK(m))
	}
	return models, nil
}

// RetrieveModel returns details for a single model. More than one permission
// object on the response is treated as fatal; the multi-permission semantics
// are unclear and guessing at them would be worse than failing.
func (c *Client) RetrieveModel(ctx context.Context, modelID string) (ModelInfo, error) {
	model, err := c.client.GetModel(ctx, modelID)
	if err != nil {
		return ModelInfo{}, err
	}
	info := modelFromSDK(model)
	if info.ID == "" {
		return ModelInfo{}, errors.New("no model data found")
	}
	if len(info.Permissions) > 1 {
		return ModelInfo{}, errors.New("more than one permission found")
	}
	return info, nil
}

// CreateCompletion generates a completion from a prompt.
func (c *Client) CreateCompletion(ctx context.Context, params CompletionParams) (CompletionResult, error) {
	request := openai.CompletionRequest{
		Model:            params.Model,
		Prompt:           params.Prompt,
		Suffix:           params.Suffix,
		MaxTokens:        params.MaxTokens,
		Temperature:      float32(params.Temperature),
		TopP:             float32(params.TopP),
		FrequencyPenalty: float32(params.FrequencyPenalty),
		PresencePenalty:  float32(params.PresencePenalty),
		Echo:             params.Echo,
		Stop:             params.Stop,
	}

	response, err := c.client.CreateCompletion(ctx, request)
	if err != nil {
		return CompletionResult{}, err
	}
	if len(response.Choices) == 0 {
		return CompletionResult{}, errors.New("no completion produced")
	}

	var usage Usage
	if response.Usage != nil {
		usage = usageFromSDK(*response.Usage)
	}
	return CompletionResult{
		Text:         response.Choices[0].Text,
		FinishReason: string(response.Choices[0].FinishReason),
		Usage:        usage,
		Raw:          rawJSON(response),
	}, nil
}

// CreateEdit edits an input string given an instruction.
func (c *Client) CreateEdit(ctx context.Context, params EditParams) (EditResult, error) {
	model := params.Model
	request := openai.EditsRequest{
		Model:       &model,
		Input:       params.Input,
		Instruction: params.Instruction,
		N:           params.N,
		Temperature: float32(params.Temperature),
	}

	response, err := c.client.Edits(ctx, request)
	if err != nil {
		return EditResult{}, err
	}
	if len(response.Choices) == 0 {
		return EditResult{}, errors.New("no edit produced")
	}

	texts := make([]string, 0, len(response.Choices))
	for _, choice := range response.Choices {
		texts = append(texts, choice.Text)
	}
	return EditResult{
		Texts: texts,
		Usage: usageFromSDK(response.Usage),
		Raw:   rawJSON(response),
	}, nil
}

// CreateImages generates one or more images from a prompt.
func (c *Client) CreateImages(ctx context.Context, params ImageParams) ([]ImageData, error) {
	request := openai.ImageRequest{
		Prompt:         params.Prompt,
		N:              params.N,
		Size:           params.Size,
		ResponseFormat: params.ResponseFormat,
	}

	response, err := c.client.CreateImage(ctx, request)
	if err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, errors.New("no image data produced")
	}

	images := make([]ImageData, 0, len(response.Data))
	for _, data := range response.Data {
		images = append(images, ImageData{
			B64JSON: data.B64JSON,
			URL:     data.URL,
		})
	}
	return images, nil
}

// ListFineTunes returns all fine-tune jobs.
func (c *Client) ListFineTunes(ctx context.Context) ([]FineTuneInfo, error) {
	response, err := c.client.ListFineTunes(ctx)
	if err != nil {
		return nil, err
	}
	if len(response.Data) == 0 {
		return nil, errors.New("no fine_tune data found")
	}

	fineTunes := make([]FineTuneInfo, 0, len(response.Data))
	for _, f := range response.Data {
		fineTunes = append(fineTunes, fineTuneFromSDK(f))
	}
	return fineTunes, nil
}
