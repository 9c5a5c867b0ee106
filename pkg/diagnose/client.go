// Package diagnose dispatches GPT-lane queries to an OpenAI-compatible
// endpoint. It lives entirely outside the classification core: the pipeline
// never calls it, and its failures never affect a lane decision.
package diagnose

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/canonical"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
)

const systemPrompt = `You are a marine engineering assistant on a vessel's planned maintenance system. Answer diagnostic questions about shipboard equipment concisely and practically. If the resolved equipment context is insufficient, say what additional readings are needed.`

// Client wraps an OpenAI-compatible chat completions endpoint.
type Client struct {
	client openai.Client
	model  string
}

// NewClient builds a dispatcher from config, or returns nil when no
// endpoint is configured.
func NewClient(cfg config.DiagnoseConfig) *Client {
	if cfg.Endpoint == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithBaseURL(cfg.Endpoint)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Diagnose forwards the query with its resolved entities as context and
// returns the model's answer.
func (c *Client) Diagnose(ctx context.Context, query string, entities []canonical.Entity) (string, error) {
	logging.Infof("Dispatching GPT-lane query to %q (%d entities)", c.model, len(entities))

	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt + entityContext(entities)),
			openai.UserMessage(query),
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error calling chat completions: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

func entityContext(entities []canonical.Entity) string {
	if len(entities) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nResolved entities:")
	for _, entity := range entities {
		fmt.Fprintf(&b, "\n- %s: %s (%q, confidence %.2f)", entity.Type, entity.Canonical, entity.Value, entity.Confidence)
	}
	return b.String()
}
