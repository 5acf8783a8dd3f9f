package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

var ErrEmptyQuery = errors.New("query is required")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Search runs a Text Search and returns the matches in upstream order.
// ZERO_RESULTS yields an empty slice. Any other non-OK answer is ErrLookupUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]entity.CandidateBusiness, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/textsearch/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", entity.ErrLookupUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", entity.ErrLookupUnavailable, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", entity.ErrLookupUnavailable)
	}

	switch status := gjson.GetBytes(body, "status").String(); status {
	case "OK":
	case "ZERO_RESULTS":
		return []entity.CandidateBusiness{}, nil
	default:
		return nil, fmt.Errorf("%w: %s %s", entity.ErrLookupUnavailable, status, gjson.GetBytes(body, "error_message").String())
	}

	results := gjson.GetBytes(body, "results").Array()
	out := make([]entity.CandidateBusiness, 0, len(results))
	for _, r := range results {
		out = append(out, c.toCandidate(r))
	}
	return out, nil
}

func (c *Client) toCandidate(r gjson.Result) entity.CandidateBusiness {
	candidate := entity.CandidateBusiness{
		PlaceID: r.Get("place_id").String(),
		Name:    r.Get("name").String(),
		Address: r.Get("formatted_address").String(),
		Phone:   r.Get("formatted_phone_number").String(),
	}

	lat, lng := r.Get("geometry.location.lat"), r.Get("geometry.location.lng")
	if lat.Exists() && lng.Exists() {
		la, ln := lat.Float(), lng.Float()
		candidate.Latitude, candidate.Longitude = &la, &ln
	}

	if ref := r.Get("photos.0.photo_reference").String(); ref != "" {
		candidate.PhotoURL = c.PhotoURL(ref)
	}

	return candidate
}

func (c *Client) PhotoURL(reference string) string {
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photoreference", reference)
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s/photo?%s", c.baseURL, params.Encode())
}
