package backend

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/pkg/errors"
)

// AnthropicMaxTokens caps the length of a Claude reply.
const AnthropicMaxTokens = 4096

// AnthropicClient talks to the Anthropic Messages API through the official SDK.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a Claude client. baseURL is optional.
// SDK retries are disabled; retry policy belongs to the orchestrator.
func NewAnthropicClient(apiKey, baseURL string) (c *AnthropicClient) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(DefaultRequestTimeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c = &AnthropicClient{client: anthropic.NewClient(opts...)}
	return c
}

// Complete sends prompt as a single user message and returns the text blocks
// of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, model, prompt string) (text string, err error) {
	var msg *anthropic.Message
	msg, err = c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: AnthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			err = &completion.StatusError{Code: apiErr.StatusCode, Message: "anthropic API error", Cause: err}
			return text, err
		}
		err = errors.Wrap(err, "anthropic request failed")
		return text, err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		err = errors.Wrap(completion.ErrEmptyResult, "no text content in Anthropic response")
		return text, err
	}

	text = sb.String()
	return text, err
}
