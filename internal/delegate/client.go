// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package delegate implements the external text-classification capability
// behind the classifier's third tier: a single binary question posed to an
// OpenAI-compatible chat-completions endpoint. The delegate is fallible,
// latent, and possibly rate-limited; callers must treat every error as a
// signal to fail open, never as a scan failure.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lexscan/internal/resilience"
)

// Options holds the minimum configuration for the delegate endpoint.
type Options struct {
	BaseURL   string        // e.g. https://api.openai.com/v1
	Model     string        // empty selects the default model
	APIKeyEnv string        // environment variable holding the key
	APIKey    string        // explicit key; takes precedence over APIKeyEnv
	Timeout   time.Duration // per-request timeout
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.Model == "" {
		o.Model = "gpt-4.1-mini"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
}

// Client asks the delegate endpoint yes/no questions about term usage. It
// retries transient failures with backoff and trips a circuit breaker so a
// dead endpoint degrades a long scan quickly instead of stalling it.
type Client struct {
	hc      *http.Client
	url     string
	apiKey  string
	model   string
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewClient builds a delegate client. It fails when no API key is
// available, so a misconfigured delegate is caught at startup rather than
// silently degrading every scan.
func NewClient(opts Options) (*Client, error) {
	opts.defaults()

	key := opts.APIKey
	if key == "" {
		key = os.Getenv(opts.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("delegate: missing API key (set %s)", opts.APIKeyEnv)
	}

	return &Client{
		hc:      &http.Client{Timeout: opts.Timeout},
		url:     strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		apiKey:  key,
		model:   opts.Model,
		retry:   resilience.DelegateRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("classifier-delegate")),
	}, nil
}

const askPromptTemplate = `You are reviewing a document for a compliance check.

In the passage below, does the term %q refer to a formal institution (it is part of the proper name of an organization, place, program, or facility), or is it used descriptively?

Answer with exactly one word: INSTITUTIONAL or DESCRIPTIVE.

Passage:
%s`

// Ask poses the binary question for one match. It reports descriptive=true
// when the term is used descriptively (the match should be flagged) and
// descriptive=false for institutional/formal usage.
func (c *Client) Ask(ctx context.Context, snippet, term string) (bool, error) {
	prompt := fmt.Sprintf(askPromptTemplate, term, snippet)

	answer, err := resilience.RetryWithResult(ctx, c.retry, func(ctx context.Context) (string, error) {
		var content string
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var e error
			content, e = c.complete(ctx, prompt)
			return e
		})
		return content, err
	})
	if err != nil {
		return false, err
	}

	normalized := strings.ToUpper(answer)
	switch {
	case strings.Contains(normalized, "INSTITUTIONAL"):
		return false, nil
	case strings.Contains(normalized, "DESCRIPTIVE"):
		return true, nil
	default:
		return false, fmt.Errorf("delegate: malformed answer %q", firstLine(answer))
	}
}

const reviewPromptTemplate = `You are a compliance checker. Review the following text and flag any language that directly or indirectly relates to these restricted themes: %s.

Flag explicit terms as well as paraphrased or implied references. Provide a short reason for each issue.

Text:
%s

Return a bullet list of all flagged issues.`

// Review asks the delegate for a whole-document advisory pass covering
// paraphrased or implied references the term matcher cannot see. The
// returned notes are advisory only and never affect findings.
func (c *Client) Review(ctx context.Context, text string, terms []string) (string, error) {
	prompt := fmt.Sprintf(reviewPromptTemplate, strings.Join(terms, ", "), text)
	return resilience.RetryWithResult(ctx, c.retry, func(ctx context.Context) (string, error) {
		var content string
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var e error
			content, e = c.complete(ctx, prompt)
			return e
		})
		return content, err
	})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one chat-completions round trip.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		return "", resilience.NewPermanentError("delegate: encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", resilience.NewPermanentError("delegate: build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", resilience.NewTransientError("delegate: too many requests", nil)
	}
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := fmt.Sprintf("delegate: upstream %d: %s", resp.StatusCode, firstLine(string(slurp)))
		if resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode/100 == 5 {
			return "", resilience.NewTransientError(msg, nil)
		}
		return "", resilience.NewPermanentError(msg, nil)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", resilience.NewPermanentError("delegate: decode response", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", resilience.NewPermanentError("delegate: empty response", nil)
	}
	return parsed.Choices[0].Message.Content, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
