package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ruotong2025/Military-Communication-Performance-Evaluation/internal/ahp"
)

// HTTPClient posts evaluation requests to a remote evaluator service.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &HTTPClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("evaluator POST %s: %d %s", c.url, resp.StatusCode, string(data))
	}
	return data, nil
}

func (c *HTTPClient) Evaluate(ctx context.Context, priorities ahp.PriorityRanking) (Result, error) {
	req, err := newRequest(priorities)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode evaluator response: %w", err)
	}
	if err := checkResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Environment checks that the evaluator endpoint is reachable. Any response below
// 500 counts as reachable since the endpoint itself only accepts POST.
func (c *HTTPClient) Environment(ctx context.Context) (*Environment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("evaluator %s: %d", c.url, resp.StatusCode)
	}
	return &Environment{Mode: "http", Version: resp.Header.Get("Server"), URL: c.url}, nil
}
