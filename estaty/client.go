// Package estaty is the client for the Estaty real-estate API. All calls
// are POSTs with a shared App-key header and a JSON body. The client does
// not retry; scheduling and throttling are the sync orchestrator's job.
package estaty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	endpointLatestCreated = "/api/v1/latestCreatedProperties"
	endpointLatestUpdated = "/api/v1/latestUpdatedProperties"
	endpointGetProperties = "/api/v1/getProperties"
	endpointGetProperty   = "/api/v1/getProperty"
	endpointGetFilters    = "/api/v1/getFilters"
	endpointFilter        = "/api/v1/filter"
)

const (
	DefaultCurrency = "AED"
	DefaultAreaUnit = "sqft"
)

// APIError is a non-success response from the upstream API.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("estaty %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FilterCriteria is the body for the filter endpoint. Currency and
// AreaUnit are mandatory upstream and defaulted when the caller leaves
// them empty.
type FilterCriteria struct {
	Currency     string `json:"currency"`
	AreaUnit     string `json:"area_unit"`
	CityID       *int64 `json:"city_id,omitempty"`
	DistrictID   *int64 `json:"district_id,omitempty"`
	DeveloperID  *int64 `json:"developer_company_id,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	SalesStatus  string `json:"sales_status,omitempty"`
}

func (c *Client) post(ctx context.Context, endpoint string, reqBody, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("App-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// listEnvelope tolerates both {"properties": [...]} and {"data": [...]}.
type listEnvelope struct {
	Properties []rawProperty `json:"properties"`
	Data       []rawProperty `json:"data"`
}

func (e *listEnvelope) normalize() []Property {
	raw := e.Properties
	if raw == nil {
		raw = e.Data
	}
	props := make([]Property, 0, len(raw))
	for i := range raw {
		props = append(props, *raw[i].normalize())
	}
	return props
}

// LatestCreated returns the bounded latest-created property list
// (typically at most 10 records, no pagination upstream).
func (c *Client) LatestCreated(ctx context.Context) ([]Property, error) {
	var env listEnvelope
	if err := c.post(ctx, endpointLatestCreated, map[string]any{}, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

// LatestUpdated returns the bounded latest-updated property list.
func (c *Client) LatestUpdated(ctx context.Context) ([]Property, error) {
	var env listEnvelope
	if err := c.post(ctx, endpointLatestUpdated, map[string]any{}, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

// GetProperty fetches one detailed property record. Returns nil when the
// response carries no property for the id.
func (c *Client) GetProperty(ctx context.Context, id int64) (*Property, error) {
	var env struct {
		Property *rawProperty `json:"property"`
		Data     *rawProperty `json:"data"`
	}
	if err := c.post(ctx, endpointGetProperty, map[string]any{"id": id}, &env); err != nil {
		return nil, err
	}
	raw := env.Property
	if raw == nil {
		raw = env.Data
	}
	if raw == nil {
		return nil, nil
	}
	return raw.normalize(), nil
}

// GetProperties returns the full property list, optionally ordered by an
// upstream sort key.
func (c *Client) GetProperties(ctx context.Context, sortKey string) ([]Property, error) {
	body := map[string]any{}
	if sortKey != "" {
		body["sort"] = sortKey
	}
	var env listEnvelope
	if err := c.post(ctx, endpointGetProperties, body, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

// FilterProperties returns the filtered property list. Currency and area
// unit are defaulted when unset (the endpoint rejects requests without
// them).
func (c *Client) FilterProperties(ctx context.Context, criteria FilterCriteria) ([]Property, error) {
	if criteria.Currency == "" {
		criteria.Currency = DefaultCurrency
	}
	if criteria.AreaUnit == "" {
		criteria.AreaUnit = DefaultAreaUnit
	}
	var env listEnvelope
	if err := c.post(ctx, endpointFilter, criteria, &env); err != nil {
		return nil, err
	}
	return env.normalize(), nil
}

// GetFilters returns the reference collections used to pre-seed
// developers, cities and districts before any property is processed. The
// endpoint has used inconsistent key names across revisions; decoding
// probes all known aliases and normalizes to one canonical shape.
func (c *Client) GetFilters(ctx context.Context) (*Filters, error) {
	var raw rawFilters
	if err := c.post(ctx, endpointGetFilters, map[string]any{}, &raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}
