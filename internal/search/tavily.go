package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claimlens/claimlens/internal/model"
	"github.com/claimlens/claimlens/internal/util"
)

// TavilyClient implements the Searcher interface for the Tavily search API
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// TavilyConfig holds Tavily client configuration
type TavilyConfig struct {
	APIKey  string
	BaseURL string
	Timeout int // seconds

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// Tavily API structures
type tavilyRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

type tavilyError struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// NewTavilyClient creates a new Tavily client
func NewTavilyClient(config TavilyConfig) (*TavilyClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &TavilyClient{
		apiKey:  config.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
	}, nil
}

// Search runs one query against Tavily's search endpoint
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error) {
	body, err := json.Marshal(tavilyRequest{
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, model.NewRetrievalError("marshal request", 0, err)
	}

	url := fmt.Sprintf("%s/search", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, model.NewRetrievalError("create request", 0, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, model.NewRetrievalError("execute request", 0, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, model.NewRetrievalError("read response", httpResp.StatusCode, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr tavilyError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Detail.Error != "" {
			return nil, model.NewRetrievalError(apiErr.Detail.Error, httpResp.StatusCode, nil)
		}
		return nil, model.NewRetrievalError(string(respBody), httpResp.StatusCode, nil)
	}

	var resp tavilyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, model.NewRetrievalError("unmarshal response", httpResp.StatusCode, err)
	}

	items := make([]model.EvidenceItem, 0, len(resp.Results))
	for i, r := range resp.Results {
		items = append(items, model.EvidenceItem{
			URL:     r.URL,
			Snippet: r.Content,
			Score:   r.Score,
			Rank:    i,
		})
	}

	return items, nil
}
