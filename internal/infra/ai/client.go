package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ragchat-storage/internal/config"
	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time assurance this client satisfies the port
var _ adapter.CompletionAdapter = (*Client)(nil)

const (
	maxAttempts       = 2
	defaultRetryDelay = 5 * time.Second

	systemPrompt = "You are a helpful AI assistant. Provide clear, accurate, and concise responses."

	replyBadCredentials = "Invalid API key. Please check your credentials."
	replyProviderLimit  = "Rate limit exceeded. Please try again later."
	replyMisconfigured  = "Model not found or endpoint incorrect. Please check configuration."
	replyUnavailable    = "AI service temporarily unavailable. Please try again."
	replyDefault        = "I'm here to help! Could you please rephrase your question?"
)

// chatRequest is the chat-completions wire format. Generation parameters are
// fixed: bounded output, moderate sampling, no streaming.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"` // "system", "assistant", "user"
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completions endpoint. Every failure
// is absorbed into a degraded CompletionResult; nothing propagates as an
// error past this boundary. The call blocks through the fixed retry delay,
// so it must only run where multi-second stalls are acceptable.
type Client struct {
	apiKey     string
	base       string // e.g., https://router.huggingface.co/v1
	model      string
	client     *http.Client
	retryDelay time.Duration
	log        *zerolog.Logger
}

func NewClient(cfg config.AIConfig, logger *zerolog.Logger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		client:     &http.Client{Timeout: 30 * time.Second},
		retryDelay: defaultRetryDelay,
		log:        logger,
	}
}

func (c *Client) Complete(ctx context.Context, userText, priorContext string) adapter.CompletionResult {
	start := time.Now()
	res := c.complete(ctx, userText, priorContext)
	metrics.ObserveCompletion(time.Since(start).Milliseconds(), !res.Degraded)
	if res.Degraded {
		metrics.CompletionDegraded(res.Reason)
	}
	return res
}

func (c *Client) complete(ctx context.Context, userText, priorContext string) adapter.CompletionResult {
	body, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    buildMessages(userText, priorContext),
		MaxTokens:   512,
		Temperature: 0.7,
		TopP:        0.9,
		Stream:      false,
	})

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c.log.Info().Int("attempt", attempt).Str("model", c.model).Msg("completion request")

		status, reply, err := c.send(ctx, body)
		if err != nil {
			metrics.CompletionAttempt("transport_error")
			c.log.Error().Err(err).Msg("completion transport error")
			return degraded(replyUnavailable, "unavailable", priorContext)
		}
		metrics.CompletionAttempt(strconv.Itoa(status))

		switch {
		case status >= 200 && status < 300:
			reply = strings.TrimSpace(reply)
			if reply == "" {
				c.log.Warn().Msg("empty or invalid completion response")
				return degraded(replyDefault, "empty_response", priorContext)
			}
			return adapter.CompletionResult{
				Reply:       reply,
				NextContext: appendContext(priorContext, reply),
			}
		case status == http.StatusInternalServerError || status == http.StatusServiceUnavailable:
			if attempt < maxAttempts {
				c.log.Warn().Int("status", status).Dur("delay", c.retryDelay).Msg("transient completion error, retrying")
				select {
				case <-time.After(c.retryDelay):
					continue
				case <-ctx.Done():
					return degraded(replyUnavailable, "unavailable", priorContext)
				}
			}
			c.log.Error().Int("status", status).Msg("completion retries exhausted")
			return degraded(replyUnavailable, "unavailable", priorContext)
		case status == http.StatusUnauthorized:
			c.log.Error().Int("status", status).Msg("completion auth failure")
			return degraded(replyBadCredentials, "auth", priorContext)
		case status == http.StatusTooManyRequests:
			c.log.Error().Int("status", status).Msg("completion provider rate limit")
			return degraded(replyProviderLimit, "provider_rate_limit", priorContext)
		case status == http.StatusNotFound:
			c.log.Error().Int("status", status).Msg("completion endpoint or model not found")
			return degraded(replyMisconfigured, "not_found", priorContext)
		default:
			c.log.Error().Int("status", status).Msg("completion error")
			return degraded(replyUnavailable, "unavailable", priorContext)
		}
	}

	return degraded(replyUnavailable, "unavailable", priorContext)
}

// send performs one HTTP attempt. The returned reply is the first non-empty
// choice content; a 2xx with an unparseable body yields an empty reply, not
// an error.
func (c *Client) send(ctx context.Context, body []byte) (status int, reply string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the keep-alive connection survives for the retry.
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, "", nil
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return resp.StatusCode, "", nil
	}
	for _, choice := range payload.Choices {
		if choice.Message.Content != "" {
			return resp.StatusCode, choice.Message.Content, nil
		}
	}
	return resp.StatusCode, "", nil
}

// buildMessages assembles the role-tagged sequence: fixed system instruction,
// prior context injected as an assistant turn when present, then the user turn.
func buildMessages(userText, priorContext string) []chatMessage {
	msgs := make([]chatMessage, 0, 3)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	if priorContext != "" {
		msgs = append(msgs, chatMessage{Role: "assistant", Content: priorContext})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: userText})
	return msgs
}

func appendContext(prior, reply string) string {
	if prior == "" {
		return reply
	}
	return prior + "\n" + reply
}

// degraded substitutes a user-facing reply and passes the caller's context
// through unchanged.
func degraded(reply, reason, priorContext string) adapter.CompletionResult {
	return adapter.CompletionResult{
		Reply:       reply,
		NextContext: priorContext,
		Degraded:    true,
		Reason:      reason,
	}
}
