// Package llm wraps the model API behind a small completion interface with
// retries and a TTL response cache.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mamaope/legalconsult/internal/httputil"
	"github.com/mamaope/legalconsult/internal/metrics"
)

const completionTimeout = 2 * time.Minute

// Completer produces a model completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client calls the chat completions API.
type Client struct {
	client openai.Client
	model  string
}

// NewClient creates a completion client. It reads the OPENAI_API_KEY
// environment variable for authentication.
func NewClient(model string) (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httputil.NewClientWithTimeout(completionTimeout)),
	)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Complete requests a completion, retrying transient failures with
// exponential backoff. Client-side errors are permanent.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	var content string
	operation := func() error {
		start := time.Now()
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			},
		})
		metrics.ModelLatency.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
		if err != nil {
			var apierr *openai.Error
			if errors.As(err, &apierr) {
				if apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500 {
					metrics.ModelCallsTotal.WithLabelValues(c.model, "retryable").Inc()
					return fmt.Errorf("completion: status %d: %w", apierr.StatusCode, err)
				}
				metrics.ModelCallsTotal.WithLabelValues(c.model, "error").Inc()
				return backoff.Permanent(fmt.Errorf("completion: status %d: %w", apierr.StatusCode, err))
			}
			metrics.ModelCallsTotal.WithLabelValues(c.model, "retryable").Inc()
			return fmt.Errorf("completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			metrics.ModelCallsTotal.WithLabelValues(c.model, "empty").Inc()
			return backoff.Permanent(errors.New("no choices returned"))
		}
		content = resp.Choices[0].Message.Content
		metrics.ModelCallsTotal.WithLabelValues(c.model, "ok").Inc()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 3 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}

	log.Printf("llm: completion of %d chars from %s", len(content), c.model)
	return content, nil
}
