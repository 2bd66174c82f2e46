// Package places wraps the external nearby-places HTTP API used to decorate
// itineraries with restaurants, cafes and accommodation.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/exploresl/exploresl-api/internal/enhance"
	"github.com/exploresl/exploresl-api/internal/planner"
	"github.com/exploresl/exploresl-api/internal/types"
)

const defaultTimeout = 8 * time.Second

// Client talks to a Google-Places-compatible nearby search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ enhance.PlaceFinder = (*Client)(nil)

// NewClient builds a places client. baseURL points at the API root, for
// example "https://maps.googleapis.com/maps/api/place".
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "PlacesClient")),
	}
}

type nearbyResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name       string   `json:"name"`
		Rating     float64  `json:"rating"`
		PriceLevel *int     `json:"price_level"`
		PlaceID    string   `json:"place_id"`
		Types      []string `json:"types"`
		Vicinity   string   `json:"vicinity"`
		Geometry   struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// FindNearby searches around a point and returns at most req.Limit places,
// best rated first, each annotated with its distance from the search point.
func (c *Client) FindNearby(ctx context.Context, req enhance.FindRequest) ([]types.PlaceRecommendation, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", req.Latitude, req.Longitude))
	q.Set("radius", strconv.Itoa(int(req.RadiusKm*1000)))
	if req.Keyword != "" {
		q.Set("keyword", req.Keyword)
	}
	if req.Kind != "" {
		q.Set("type", req.Kind)
	}
	q.Set("minprice", strconv.Itoa(req.MinPrice))
	q.Set("maxprice", strconv.Itoa(req.MaxPrice))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	endpoint := c.baseURL + "/nearbysearch/json?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building nearby search request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nearby search: unexpected status %d: %s", resp.StatusCode, body)
	}

	var payload nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding nearby search response: %w", err)
	}
	// ZERO_RESULTS is a valid empty answer, anything else non-OK is an error.
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search: upstream status %s", payload.Status)
	}

	out := make([]types.PlaceRecommendation, 0, len(payload.Results))
	for _, r := range payload.Results {
		out = append(out, types.PlaceRecommendation{
			Name:       r.Name,
			Rating:     r.Rating,
			PriceLevel: r.PriceLevel,
			PlaceID:    r.PlaceID,
			Latitude:   r.Geometry.Location.Lat,
			Longitude:  r.Geometry.Location.Lng,
			Types:      r.Types,
			Address:    r.Vicinity,
			DistanceKm: planner.Haversine(req.Latitude, req.Longitude, r.Geometry.Location.Lat, r.Geometry.Location.Lng),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}

	c.logger.DebugContext(ctx, "nearby search completed",
		slog.String("type", req.Kind),
		slog.String("keyword", req.Keyword),
		slog.Int("results", len(out)))
	return out, nil
}
