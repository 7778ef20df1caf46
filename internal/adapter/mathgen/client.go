package mathgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ludora/internal/domain"
	"ludora/internal/logger"

	"go.uber.org/zap"
)

const serviceName = "math-generator"

type problemResponse struct {
	ProblemID int    `json:"problem_id"`
	Problem   string `json:"problem"`
	Solution  string `json:"solution"`
}

// Client calls the external math-problem generator over HTTP.
//
//	GET {base}/problems/random      any problem
//	GET {base}/problems/{id}        a specific catalogue entry, 404 when unknown
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a generator client. A zero timeout falls back to 5s.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Generate implements domain.QuestionGenerator.
func (c *Client) Generate(ctx context.Context, problemID *int) (*domain.GeneratedProblem, error) {
	if c.baseURL == "" {
		return nil, domain.NewUpstreamUnavailableError(serviceName, errors.New("generator base url not configured"))
	}

	path := "/problems/random"
	if problemID != nil {
		path = "/problems/" + strconv.Itoa(*problemID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build generator request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Get().Warn("Math generator request failed", zap.String("path", path), zap.Error(err))
		return nil, domain.NewUpstreamUnavailableError(serviceName, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewUpstreamUnavailableError(serviceName, fmt.Errorf("generator returned status %d", resp.StatusCode))
	}

	var payload problemResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domain.NewUpstreamUnavailableError(serviceName, fmt.Errorf("failed to decode generator response: %w", err))
	}
	if strings.TrimSpace(payload.Problem) == "" || strings.TrimSpace(payload.Solution) == "" {
		return nil, nil
	}

	return &domain.GeneratedProblem{
		ProblemID:    payload.ProblemID,
		ProblemText:  payload.Problem,
		SolutionText: payload.Solution,
	}, nil
}

var _ domain.QuestionGenerator = (*Client)(nil)
