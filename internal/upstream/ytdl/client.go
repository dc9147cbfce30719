// Package ytdl is a client for the job-based extraction service. A download
// is a two-step flow: create a job, then poll its status with the returned
// job id. The polling loop lives in the browser, not here; this client only
// relays the individual calls.
package ytdl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yogaxd/downloader/internal/upstream"
)

const defaultBaseURL = "https://ytdl.siputzx.my.id"

const maxBodyBytes = 1 << 20

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

// Format is one downloadable rendition reported by the info endpoint.
type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Note       string  `json:"format_note"`
	Filesize   float64 `json:"filesize"`
}

// Info models the metadata the info endpoint returns. Raw preserves the full
// upstream body.
type Info struct {
	Title     string          `json:"title"`
	Duration  float64         `json:"duration"`
	Thumbnail string          `json:"thumbnail"`
	Formats   []Format        `json:"formats"`
	Raw       json.RawMessage `json:"-"`
}

// CreateJob submits a new extraction job. formatID is optional; nil sends an
// explicit JSON null, which the service reads as "best available".
func (c *Client) CreateJob(ctx context.Context, mediaURL string, formatID *string) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		URL      string  `json:"url"`
		FormatID *string `json:"format_id"`
	}{URL: mediaURL, FormatID: formatID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/create/job", nil), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	return c.do(req)
}

// CheckJob polls the status of a previously created job.
func (c *Client) CheckJob(ctx context.Context, jobID string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/check/job", url.Values{"job_id": {jobID}}), nil)
	if err != nil {
		return nil, err
	}
	c.setAuth(req)

	return c.do(req)
}

// Info fetches metadata and the available formats for a URL.
func (c *Client) Info(ctx context.Context, mediaURL string) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/get/info", url.Values{"url": {mediaURL}}), nil)
	if err != nil {
		return nil, err
	}
	c.setAuth(req)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	info := &Info{Raw: body}
	if err := json.Unmarshal(body, info); err != nil {
		return nil, fmt.Errorf("ytdl: parse info: %w", err)
	}
	return info, nil
}

func (c *Client) endpoint(path string, extra url.Values) string {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.baseURL + path + "?" + q.Encode()
}

func (c *Client) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

// do executes the request and returns the body, tolerating unparseable 2xx
// bodies by returning nil. Non-2xx responses become HTTPError with the body
// attached for forwarding.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	var parsed json.RawMessage
	if len(body) > 0 && json.Valid(body) {
		parsed = json.RawMessage(body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstream.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       parsed,
			Message:    "ytdl request failed",
		}
	}
	return parsed, nil
}
