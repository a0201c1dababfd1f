package bigquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"trends-gateway/internal/config"
	"trends-gateway/internal/domain"
	"trends-gateway/internal/observability"
	"trends-gateway/internal/query"
)

const defaultBaseURL = "https://bigquery.googleapis.com"

// TokenSource supplies bearer tokens for outbound BigQuery calls.
type TokenSource interface {
	AccessToken(ctx context.Context, scope string) (string, error)
}

// Client executes parameterized query jobs against the BigQuery REST API.
type Client struct {
	cfg     config.BigQueryConfig
	tokens  TokenSource
	httpc   *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewClient creates a Client for the configured project.
func NewClient(cfg config.BigQueryConfig, tokens TokenSource, httpc *http.Client, logger *slog.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		tokens:  tokens,
		httpc:   httpc,
		logger:  logger,
		baseURL: defaultBaseURL,
	}
}

// RunQuery submits stmt as a synchronous query job and returns the parsed
// response envelope. Single attempt: any failure surfaces to the caller.
func (c *Client) RunQuery(ctx context.Context, stmt query.Statement) (resp *QueryResponse, err error) {
	start := time.Now()
	defer func() { observability.ObserveQuery(time.Since(start), err) }()

	token, err := c.tokens.AccessToken(ctx, c.cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	reqBody := queryRequest{
		Kind:         "bigquery#queryRequest",
		Query:        stmt.SQL,
		Location:     c.cfg.Location,
		UseLegacySQL: false,
	}
	if len(stmt.Params) > 0 {
		reqBody.ParameterMode = "NAMED"
		reqBody.QueryParameters = make([]queryParameter, len(stmt.Params))
		for i, p := range stmt.Params {
			reqBody.QueryParameters[i] = queryParameter{
				Name:           p.Name,
				ParameterType:  parameterType{Type: p.Type},
				ParameterValue: parameterValue{Value: p.Value},
			}
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, domain.ErrDecode("encode query request: %v", err)
	}

	jobURL := fmt.Sprintf("%s/bigquery/v2/projects/%s/queries", c.baseURL, c.cfg.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, jobURL, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.ErrTransport("build query request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := c.httpc.Do(req)
	if err != nil {
		return nil, domain.ErrTransport("query request: %v", err)
	}
	defer httpResp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, domain.ErrTransport("read query response: %v", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		c.logger.Error("query job rejected", "status", httpResp.StatusCode, "body", string(body))
		return nil, &domain.UpstreamError{Status: httpResp.StatusCode, Body: string(body)}
	}

	var parsed QueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, domain.ErrDecode("query response is not valid JSON: %v", err)
	}
	return &parsed, nil
}
