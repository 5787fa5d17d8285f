package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/schedule"
)

// Client is the typed HTTP client for the gateway's two endpoints.
// It satisfies the same Service interface the server is built on.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Generation can take a while; no client-side cancellation
		// beyond the caller's context.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}

func (c *Client) GeneratePlan(ctx context.Context, p plan.EventPlan) (string, error) {
	var out GenerateResponse
	if err := c.post(ctx, "/", p, &out); err != nil {
		return "", err
	}
	return out.Schedule, nil
}

func (c *Client) RegenerateActivity(ctx context.Context, day string, act schedule.Activity, prompt string) (schedule.Activity, error) {
	var out RegenerateResponse
	req := RegenerateRequest{Day: day, Activity: act, Prompt: prompt}
	if err := c.post(ctx, "/regenerate-activity", req, &out); err != nil {
		return schedule.Activity{}, err
	}
	return out.Activity, nil
}
