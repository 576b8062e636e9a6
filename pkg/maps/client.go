package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
)

const (
	defaultPlacesBaseURL        = "https://places.googleapis.com/v1"
	defaultRoutesBaseURL        = "https://maps.googleapis.com/maps/api"
	autocompleteFieldMask       = "suggestions.placePrediction.placeId,suggestions.placePrediction.text"
	requestBodyReadLimit  int64 = 1024
	metersPerKm                 = 1000.0
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client wraps the Google Maps APIs used for address guidance and route
// distance. All methods are thin HTTP wrappers; failures surface as
// dependency errors so callers can hold off on quoting (a quote is never
// computed without a resolved distance).
type Client struct {
	httpClient     *http.Client
	placesBaseURL  string
	routesBaseURL  string
	apiKey         string
	includedRegion string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPlacesBaseURL overrides the configured Places base URL.
func WithPlacesBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.placesBaseURL = trimmed
		}
	}
}

// WithRoutesBaseURL overrides the configured Distance Matrix base URL.
func WithRoutesBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.routesBaseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key. Suggestions are
// biased to the UK, where the service operates.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:         trimmedKey,
		placesBaseURL:  defaultPlacesBaseURL,
		routesBaseURL:  defaultRoutesBaseURL,
		includedRegion: "gb",
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// AutocompleteSuggestion holds the mapped data returned by the autocomplete API.
type AutocompleteSuggestion struct {
	PlaceID     string
	Description string
}

// Autocomplete queries suggested places based on partial input.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]AutocompleteSuggestion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(input) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "autocomplete input is required")
	}

	payload, err := json.Marshal(map[string]any{
		"input":               input,
		"includedRegionCodes": []string{c.includedRegion},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal autocomplete request")
	}

	endpoint := fmt.Sprintf("%s/places:autocomplete", strings.TrimRight(c.placesBaseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build autocomplete request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", autocompleteFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute autocomplete request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "autocomplete request failed")
	}

	var apiResp struct {
		Suggestions []struct {
			Prediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode autocomplete response")
	}

	suggestions := make([]AutocompleteSuggestion, 0, len(apiResp.Suggestions))
	for _, s := range apiResp.Suggestions {
		suggestions = append(suggestions, AutocompleteSuggestion{
			PlaceID:     s.Prediction.PlaceID,
			Description: s.Prediction.Text.Text,
		})
	}

	return suggestions, nil
}

// RouteDistance is the driving distance between two addresses.
type RouteDistance struct {
	Origin      string
	Destination string
	DistanceKm  float64
	Duration    time.Duration
}

// DistanceKm resolves the driving distance for a pickup/dropoff pair via the
// Distance Matrix API. Google reports meters; the conversion to km happens
// here so pricing only ever sees kilometers.
func (c *Client) DistanceKm(ctx context.Context, origin, destination string) (*RouteDistance, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination addresses are required")
	}

	query := url.Values{}
	query.Set("units", "metric")
	query.Set("origins", origin)
	query.Set("destinations", destination)
	query.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/distancematrix/json?%s", strings.TrimRight(c.routesBaseURL, "/"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build distance request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute distance request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "distance request failed")
	}

	var apiResp struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Value int64 `json:"value"`
				} `json:"distance"`
				Duration struct {
					Value int64 `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode distance response")
	}

	if apiResp.Status != "OK" || len(apiResp.Rows) == 0 || len(apiResp.Rows[0].Elements) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("distance matrix returned status %q", apiResp.Status))
	}

	element := apiResp.Rows[0].Elements[0]
	if element.Status != "OK" || element.Distance.Value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("no drivable route (element status %q)", element.Status))
	}

	return &RouteDistance{
		Origin:      origin,
		Destination: destination,
		DistanceKm:  float64(element.Distance.Value) / metersPerKm,
		Duration:    time.Duration(element.Duration.Value) * time.Second,
	}, nil
}
