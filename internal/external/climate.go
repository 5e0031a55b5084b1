package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wayfarer/internal/climate"
	"wayfarer/internal/types"
)

// ClimateClientConfig holds the configuration for creating a ClimateHTTPClient.
type ClimateClientConfig struct {
	BaseURL string
	Logger  *slog.Logger
}

// climateDescriptionResponse is the body returned by the climate service for
// a seeded (city, month) pair.
type climateDescriptionResponse struct {
	City        string `json:"city"`
	Month       int    `json:"month"`
	Description string `json:"description"`
}

// ClimateHTTPClient resolves climate descriptions from the remote climate
// service through BaseClient. It is a drop-in alternative to the database
// profile repository for deployments where profiles are served centrally.
type ClimateHTTPClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

// NewClimateClient creates a ClimateHTTPClient. The httpClient timeout should
// be short; climate context is advisory and must not slow generation down.
func NewClimateClient(httpClient *http.Client, cfg ClimateClientConfig) *ClimateHTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := NewBaseClient(
		httpClient,
		"climate",
		RetryPolicy{
			MaxRetries: 2,
			MinWait:    250 * time.Millisecond,
			MaxWait:    2 * time.Second,
		},
		"Wayfarer/1.0",
	)

	return &ClimateHTTPClient{
		base:    base,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// NewClimateClientWithBase creates a ClimateHTTPClient over a pre-configured
// BaseClient. Useful for tests that want retries disabled.
func NewClimateClientWithBase(base *BaseClient, cfg ClimateClientConfig) *ClimateHTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ClimateHTTPClient{
		base:    base,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// DescriptionFor fetches the seeded description for (city, month). A 404 from
// the service means the city has no profile for that month and reports
// found=false with no error; everything else that survives the retry budget
// surfaces as an upstream AppError for the provider to absorb.
func (c *ClimateHTTPClient) DescriptionFor(ctx context.Context, city string, month int) (string, bool, error) {
	endpoint := fmt.Sprintf("%s/v1/climate?city=%s&month=%d", c.baseURL, url.QueryEscape(city), month)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create climate description request",
			err,
		)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return "", false, types.NewAppError(
			types.ErrCodeUpstreamClimate,
			"climate description lookup failed",
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WarnContext(ctx, "climate service error",
			"status_code", resp.StatusCode,
			"city", city,
			"month", month,
		)
		return "", false, types.NewAppError(
			types.ErrCodeUpstreamClimate,
			fmt.Sprintf("climate service returned %d", resp.StatusCode),
			fmt.Errorf("climate lookup for %q month %d: %s", city, month, string(bodyBytes)),
		)
	}

	var body climateDescriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false, types.NewAppError(
			types.ErrCodeUpstreamClimate,
			"failed to decode climate description response",
			err,
		)
	}

	if body.Description == "" {
		return "", false, nil
	}
	return body.Description, true, nil
}

// Compile-time interface compliance check.
var _ climate.DescriptionSource = (*ClimateHTTPClient)(nil)
