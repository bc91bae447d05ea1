package backend

import (
	"context"

	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini client. baseURL is optional.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (c *GeminiClient, err error) {
	var client *genai.Client
	client, err = genai.NewClient(ctx, geminiConfig(apiKey, baseURL))
	if err != nil {
		err = errors.Wrap(err, "failed to create Gemini client")
		return c, err
	}

	c = &GeminiClient{client: client}
	return c, err
}

// geminiConfig bounds every call by DefaultRequestTimeout like the other clients.
func geminiConfig(apiKey, baseURL string) (cfg *genai.ClientConfig) {
	timeout := DefaultRequestTimeout
	cfg = &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL, Timeout: &timeout},
	}
	return cfg
}

// Complete sends prompt as a single user turn. A reply with no candidates
// yields "" so the orchestrator treats it as an empty result.
func (c *GeminiClient) Complete(ctx context.Context, model, prompt string) (text string, err error) {
	var resp *genai.GenerateContentResponse
	resp, err = c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		err = geminiError(err)
		return text, err
	}

	text = resp.Text()
	return text, err
}

// geminiError surfaces the HTTP status of a genai API error.
func geminiError(err error) (wrapped error) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		wrapped = &completion.StatusError{Code: apiErr.Code, Message: apiErr.Message, Cause: err}
		return wrapped
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		wrapped = &completion.StatusError{Code: apiErrPtr.Code, Message: apiErrPtr.Message, Cause: err}
		return wrapped
	}
	wrapped = errors.Wrap(err, "gemini request failed")
	return wrapped
}
