// Package extract calls the structured-extraction service that turns a
// job posting excerpt into the four tracked fields.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ozgung/JobsAnalyzer/internal/domain"
)

const (
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 1000
	defaultTimeout   = 60 * time.Second

	apiVersion = "2023-06-01"
)

// Config holds the extraction service settings.
//
// Environment variables:
//   - ANTHROPIC_API_KEY: API key (required for requests)
//   - EXTRACT_API_URL:   endpoint override
//   - EXTRACT_MODEL:     model override
//   - EXTRACT_MAX_TOKENS: response token budget
type Config struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ConfigFromEnv builds a Config from the environment with defaults. A
// missing API key is not an error here; it fails on the first Extract
// call, before any network traffic.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		APIURL:    os.Getenv("EXTRACT_API_URL"),
		Model:     os.Getenv("EXTRACT_MODEL"),
		MaxTokens: defaultMaxTokens,
		Timeout:   defaultTimeout,
	}
	if v := os.Getenv("EXTRACT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	return cfg
}

// Client implements domain.Extractor against the Anthropic messages API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates an extraction client. Zero config values fall back to the
// defaults.
func New(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Extract sends the excerpt to the service and validates the result
// into a Posting. An unset API key fails before any network call.
func (c *Client) Extract(ctx context.Context, text string) (*domain.Posting, error) {
	if c.cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	reqBody, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: buildPrompt(text)}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &domain.ExtractionError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ExtractionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ExtractionError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ExtractionError{Status: resp.StatusCode, Body: string(body)}
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &domain.ParseError{Raw: string(body)}
	}
	if len(decoded.Content) == 0 {
		return nil, &domain.ParseError{Raw: string(body)}
	}

	return parsePosting(decoded.Content[0].Text)
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Analyze this job posting content and extract the following information:

Content: %s

Extract and return ONLY a JSON object with these fields:
- company_name: The name of the company
- job_title: The job title/position
- location: The job location
- job_summary: A brief 2-3 sentence summary of the job

Return only valid JSON, no other text.`, text)
}

// parsePosting validates the model's text output into a Posting. All
// four keys must be JSON strings; missing or non-string values default
// to empty, unknown keys are ignored. Anything that is not a JSON
// object is a ParseError.
func parsePosting(raw string) (*domain.Posting, error) {
	cleaned := stripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &domain.ParseError{Raw: raw}
	}

	return &domain.Posting{
		CompanyName: stringField(fields, "company_name"),
		JobTitle:    stringField(fields, "job_title"),
		Location:    stringField(fields, "location"),
		JobSummary:  stringField(fields, "job_summary"),
	}, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// stripFences removes a surrounding markdown code fence, which models
// sometimes wrap JSON in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
