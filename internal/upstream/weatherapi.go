// Package upstream holds the client for the external weather provider.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"weather-cache/internal/models"
)

// DefaultBaseURL is the provider's current-conditions endpoint.
const DefaultBaseURL = "https://api.weatherapi.com/v1/current.json"

// ErrSchema reports a 200 response whose body does not carry the fields this
// service extracts.
var ErrSchema = errors.New("weatherapi: response does not match expected schema")

// StatusError reports a non-success HTTP status from the provider. The raw
// body is kept for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weatherapi: unexpected status %d: %s", e.Code, e.Body)
}

// Client performs single-attempt lookups against the provider. Timeouts are
// the injected http.Client's business; Client adds no retry or backoff layer.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient builds a provider client. An empty baseURL selects
// DefaultBaseURL; tests point it at a local server.
func NewClient(httpClient *http.Client, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpClient,
	}
}

// currentResponse mirrors the slice of the provider's document this service
// consumes. Pointer fields distinguish an absent field from a zero one so a
// reshaped upstream document fails loudly instead of producing empty records.
type currentResponse struct {
	Location *struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"location"`
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		Condition *struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (r *currentResponse) validate() error {
	switch {
	case r.Location == nil:
		return fmt.Errorf("%w: missing location", ErrSchema)
	case r.Location.Name == "":
		return fmt.Errorf("%w: missing location.name", ErrSchema)
	case r.Current == nil:
		return fmt.Errorf("%w: missing current", ErrSchema)
	case r.Current.TempC == nil:
		return fmt.Errorf("%w: missing current.temp_c", ErrSchema)
	case r.Current.Condition == nil:
		return fmt.Errorf("%w: missing current.condition", ErrSchema)
	}
	return nil
}

// Fetch performs exactly one request for the given lookup key. The key is
// already percent-escaped, so it is spliced into the query string verbatim;
// re-encoding it would double-escape the location.
func (c *Client) Fetch(ctx context.Context, key string) (models.Weather, error) {
	if c.apiKey == "" {
		return models.Weather{}, errors.New("weatherapi: api key not configured")
	}

	reqURL := fmt.Sprintf("%s?key=%s&q=%s", c.baseURL, url.QueryEscape(c.apiKey), key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Weather{}, fmt.Errorf("weatherapi: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Weather{}, fmt.Errorf("weatherapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Weather{}, fmt.Errorf("weatherapi: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.Weather{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Weather{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := payload.validate(); err != nil {
		return models.Weather{}, err
	}

	return models.Weather{
		Location:  payload.Location.Name,
		Region:    payload.Location.Region,
		TempC:     *payload.Current.TempC,
		Condition: payload.Current.Condition.Text,
	}, nil
}
