// Package generator implements ports.ScheduleGenerator: an HTTP client for an
// Ollama-compatible /api/generate endpoint, a deterministic offline planner,
// and a wrapper that falls back from the first to the second.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
)

// OllamaClient asks a language model for the day plan.
type OllamaClient struct {
	cfg    config.GeneratorConfig
	http   *http.Client
	logger *slog.Logger
}

// Ensure OllamaClient implements ports.ScheduleGenerator.
var _ ports.ScheduleGenerator = (*OllamaClient)(nil)

// NewOllamaClient creates a client for cfg.Endpoint. A nil logger discards.
func NewOllamaClient(cfg config.GeneratorConfig, logger *slog.Logger) *OllamaClient {
	if logger == nil {
		logger = config.DiscardLogger()
	}
	return &OllamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
	}
}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Name identifies the generator.
func (c *OllamaClient) Name() string {
	return "ollama:" + c.cfg.Model
}

// Generate requests a plan for profile.
func (c *OllamaClient) Generate(ctx context.Context, profile *domain.UserProfile) (*domain.GenerationResponse, error) {
	if len(profile.Subjects) == 0 {
		return nil, domain.ErrNoSubjects
	}

	start := time.Now()
	if timeout := time.Duration(c.cfg.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := c.doRequest(ctx, ollamaRequest{
		Model:  c.cfg.Model,
		System: systemPrompt,
		Prompt: buildPrompt(profile),
		Format: "json",
		Stream: false,
	})
	latency := time.Since(start)
	if err != nil {
		c.logger.Warn("plan generation failed", "model", c.cfg.Model, "latency", latency, "error", err)
		switch {
		case ctx.Err() != nil:
			return nil, ErrTimeout
		case isConnectionError(err):
			return nil, ErrUnavailable
		}
		return nil, err
	}

	gen, err := parseGeneration(resp.Response)
	if err != nil {
		c.logger.Warn("plan generation returned invalid output", "model", resp.Model, "error", err)
		return nil, err
	}

	c.logger.Info("plan generated", "model", resp.Model, "latency", latency, "items", len(gen.Schedule))
	return gen, nil
}

func (c *OllamaClient) doRequest(ctx context.Context, body ollamaRequest) (*ollamaResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp ollamaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}

	return &resp, nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
