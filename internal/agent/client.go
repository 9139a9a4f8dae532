package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// LLMClient abstracts the Responses API of the Foundry project for testability.
type LLMClient interface {
	CreateResponse(ctx context.Context, params responses.ResponseNewParams) (string, error)
}

type FoundryConfig struct {
	Endpoint   string
	APIKey     string
	AgentName  string
	APIVersion string
}

// foundryClient wraps the official SDK and pins every request to a named agent.
type foundryClient struct {
	client    openai.Client
	agentName string
}

func NewFoundryClient(cfg FoundryConfig) LLMClient {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/") + "/openai/"),
		option.WithAPIKey(cfg.APIKey),
		option.WithHeader("api-key", cfg.APIKey),
		// 429s are retried by Service with its own fixed delay.
		option.WithMaxRetries(0),
	}
	if cfg.APIVersion != "" {
		opts = append(opts, option.WithQuery("api-version", cfg.APIVersion))
	}
	return &foundryClient{
		client:    openai.NewClient(opts...),
		agentName: cfg.AgentName,
	}
}

func (c *foundryClient) CreateResponse(ctx context.Context, params responses.ResponseNewParams) (string, error) {
	resp, err := c.client.Responses.New(ctx, params,
		option.WithJSONSet("agent", map[string]string{
			"name": c.agentName,
			"type": "agent_reference",
		}),
	)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

// IsRateLimited reports whether err is an HTTP 429 from the agent endpoint.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "429")
}
