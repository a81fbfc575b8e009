package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/content-synth/internal/media"
	"github.com/content-synth/internal/models"
	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

const (
	defaultBaseURL = "https://api.unsplash.com"
)

// Photo represents an Unsplash photo
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AltDesc     string `json:"alt_description"`
	URLs        URLs   `json:"urls"`
	User        User   `json:"user"`
	Links       Links  `json:"links"`
}

// URLs contains different size URLs for the photo
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// User represents the photographer
type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Links contains API links for the photo
type Links struct {
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"` // Use this to trigger download count
}

// SearchResult represents the API response for photo search
type SearchResult struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// Client is the Unsplash API client
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// Option customises the client
type Option func(*Client)

// WithBaseURL points the client at another API host
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimiter shares a limiter with the rest of the application
func WithRateLimiter(l *ratelimit.MultiLimiter) Option {
	return func(c *Client) { c.rateLimiter = l }
}

// NewClient creates a new Unsplash client
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.WithComponent("unsplash"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rateLimiter == nil {
		c.rateLimiter = ratelimit.NewDefaultLimiter()
	}
	return c
}

// SearchPhotos searches for photos matching the query
func (c *Client) SearchPhotos(ctx context.Context, query, orientation string, perPage int) ([]Photo, error) {
	if perPage <= 0 {
		perPage = 5
	}
	if perPage > 30 {
		perPage = 30
	}

	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterUnsplash); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/search/photos", c.baseURL)
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	req.Header.Set("Accept-Version", "v1")

	c.log.Debug().Str("query", query).Msg("Searching Unsplash photos")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug().
		Int("total", result.Total).
		Int("returned", len(result.Results)).
		Msg("Search completed")

	return result.Results, nil
}

// GetAttribution returns the attribution text for a photo (required by Unsplash)
func (c *Client) GetAttribution(photo *Photo) string {
	return fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name)
}

// GetBestPhoto searches and returns a random photo from the top results for variety
func (c *Client) GetBestPhoto(ctx context.Context, query, orientation string) (*Photo, error) {
	photos, err := c.SearchPhotos(ctx, query, orientation, 10)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos found for query: %s", query)
	}
	idx := rand.IntN(len(photos))
	c.log.Debug().
		Int("total_results", len(photos)).
		Int("selected_index", idx).
		Str("photo_id", photos[idx].ID).
		Msg("Randomly selected photo from search results")
	return &photos[idx], nil
}

// trackDownload pings the download endpoint, which Unsplash requires when a photo is used
func (c *Client) trackDownload(ctx context.Context, photo *Photo) {
	if photo.Links.DownloadLocation == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, "GET", photo.Links.DownloadLocation, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("photo_id", photo.ID).Msg("Download tracking failed")
		return
	}
	resp.Body.Close()
}

// FindImage picks a photo for the visual prompt and sizes it to the nearest supported resolution
func (c *Client) FindImage(ctx context.Context, prompt string, width, height int) (*models.ImageResult, error) {
	size := media.ResolveImageSize(width, height)

	photo, err := c.GetBestPhoto(ctx, prompt, size.Orientation())
	if err != nil {
		return nil, err
	}
	c.trackDownload(ctx, photo)

	imageURL, err := sizedURL(photo, size)
	if err != nil {
		return nil, err
	}

	c.log.Info().
		Str("photo_id", photo.ID).
		Str("size", size.String()).
		Str("photographer", photo.User.Name).
		Msg("Image selected")

	return &models.ImageResult{
		URL:         imageURL,
		Attribution: c.GetAttribution(photo),
		Prompt:      prompt,
		Width:       size.Width,
		Height:      size.Height,
	}, nil
}

// sizedURL asks the Unsplash image CDN for a crop at the given size
func sizedURL(photo *Photo, size media.Size) (string, error) {
	raw := photo.URLs.Raw
	if raw == "" {
		raw = photo.URLs.Full
	}
	if raw == "" {
		return "", fmt.Errorf("photo %s has no usable URL", photo.ID)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid photo URL: %w", err)
	}
	q := u.Query()
	q.Set("w", fmt.Sprintf("%d", size.Width))
	q.Set("h", fmt.Sprintf("%d", size.Height))
	q.Set("fit", "crop")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
