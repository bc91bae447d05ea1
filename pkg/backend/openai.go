package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// OpenAIEndpoint is the chat completions endpoint.
const OpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// DefaultRequestTimeout bounds a single provider call.
const DefaultRequestTimeout = 120 * time.Second

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIClient talks to the OpenAI chat completions API over plain HTTP.
type OpenAIClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAI client. An empty endpoint uses OpenAIEndpoint.
func NewOpenAIClient(apiKey, endpoint string) (client *OpenAIClient) {
	if endpoint == "" {
		endpoint = OpenAIEndpoint
	}
	client = &OpenAIClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
	}
	return client
}

// Complete sends prompt as a single user message.
func (c *OpenAIClient) Complete(ctx context.Context, model, prompt string) (text string, err error) {
	var reqBody []byte
	reqBody, err = json.Marshal(openAIRequest{
		Model:    model,
		Messages: []openAIMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return text, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return text, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return text, err
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		err = &completion.StatusError{Code: resp.StatusCode, Message: msg}
		return text, err
	}

	if !gjson.ValidBytes(respBody) {
		err = errors.Errorf("failed to parse OpenAI response: %s", string(respBody))
		return text, err
	}

	choice := gjson.GetBytes(respBody, "choices.0.message.content")
	if !choice.Exists() {
		err = errors.Wrap(completion.ErrEmptyResult, "no choices in OpenAI response")
		return text, err
	}

	text = choice.String()
	return text, err
}
