package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

type submitResponse struct {
	JobID string `json:"job_id"`
}

type statusResponse struct {
	JobID  string `json:"job_id"`
	Status Status `json:"status"`
}

type httpClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates a Client for an external analysis service
// exposing submit and status endpoints under the given base URL.
func NewHTTPClient(endpoint, apiKey string, logger *slog.Logger) Client {
	return &httpClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{},
		logger:   logger.With("system", "analysis-client"),
	}
}

func (c *httpClient) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+"/jobs",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	c.prepare(httpReq)

	var resp submitResponse
	if err := c.do(httpReq, &resp); err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}

	if resp.JobID == "" {
		return "", fmt.Errorf("submit job: empty job_id in response")
	}

	return resp.JobID, nil
}

func (c *httpClient) Status(ctx context.Context, jobID string) (Status, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.endpoint+"/jobs/"+url.PathEscape(jobID),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	c.prepare(httpReq)

	var resp statusResponse
	if err := c.do(httpReq, &resp); err != nil {
		return "", fmt.Errorf("job status: %w", err)
	}

	return resp.Status, nil
}

func (c *httpClient) prepare(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUnknownJob
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
