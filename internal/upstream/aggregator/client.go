// Package aggregator is a client for the sankavollerei download API, which
// fronts extraction for Facebook, Instagram, TikTok, Spotify and YouTube
// behind one host with per-platform sub-paths.
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yogaxd/downloader/internal/upstream"
)

const defaultBaseURL = "https://www.sankavollerei.com"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// statusFlag mirrors the aggregator's loosely typed status field. The API has
// been observed returning booleans, numbers and strings; anything falsy in
// the JS sense means the request logically failed.
type statusFlag bool

func (s *statusFlag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "false", "null", "0", `""`, `"false"`:
		*s = false
	default:
		*s = true
	}
	return nil
}

// envelope is the common response wrapper. Most endpoints put the payload in
// "result"; Spotify uses "data".
type envelope struct {
	Status  statusFlag      `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
	Data    json.RawMessage `json:"data"`
}

type VideoVariant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type FacebookResult struct {
	Title     string          `json:"title"`
	Duration  json.RawMessage `json:"duration"`
	Thumbnail string          `json:"thumbnail"`
	Video     []VideoVariant  `json:"video"`
	Music     string          `json:"music"`
}

type MediaItem struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type InstagramResult struct {
	Author  string      `json:"author"`
	Caption string      `json:"caption"`
	Media   []MediaItem `json:"media"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type TikTokResult struct {
	Title    string          `json:"title"`
	Region   string          `json:"region"`
	Duration json.RawMessage `json:"duration"`
	Links    []Link          `json:"links"`
}

type SpotifyResult struct {
	Title    string `json:"title"`
	Artist   string `json:"artis"` // upstream misspelling, kept as-is
	Image    string `json:"image"`
	Download string `json:"download"`
}

type YouTubeResult struct {
	Title       string `json:"title"`
	DownloadURL string `json:"download_url"`
}

func (c *Client) Facebook(ctx context.Context, mediaURL string) (*FacebookResult, error) {
	var out FacebookResult
	if err := c.download(ctx, "facebook", mediaURL, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Instagram(ctx context.Context, mediaURL string) (*InstagramResult, error) {
	var out InstagramResult
	if err := c.download(ctx, "instagram", mediaURL, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TikTok(ctx context.Context, mediaURL string) (*TikTokResult, error) {
	var out TikTokResult
	if err := c.download(ctx, "tiktok-hd", mediaURL, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Spotify(ctx context.Context, mediaURL string) (*SpotifyResult, error) {
	var out SpotifyResult
	if err := c.download(ctx, "spotify", mediaURL, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// YouTube uses the aggregator's all-in-one endpoint.
func (c *Client) YouTube(ctx context.Context, mediaURL string) (*YouTubeResult, error) {
	var out YouTubeResult
	if err := c.download(ctx, "aio", mediaURL, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// download performs one GET against /download/{path} and decodes the shared
// envelope. fromData selects the "data" payload field instead of "result".
func (c *Client) download(ctx context.Context, path, mediaURL string, fromData bool, out any) error {
	u, err := url.Parse(c.baseURL + "/download/" + path)
	if err != nil {
		return err
	}

	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("url", mediaURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &upstream.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to fetch from %s API", path),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("aggregator: decode %s response: %w", path, err)
	}

	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("failed to process %s URL", path)
		}
		return &upstream.LogicalError{Message: msg}
	}

	payload := env.Result
	if fromData {
		payload = env.Data
	}
	if len(payload) == 0 {
		return &upstream.LogicalError{Message: fmt.Sprintf("%s response had no payload", path)}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("aggregator: decode %s payload: %w", path, err)
	}
	return nil
}
