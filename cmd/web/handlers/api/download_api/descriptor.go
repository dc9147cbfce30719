// Package download_api provides the platform download handlers. Instead of
// one hand-written handler per platform, a single generic handler is
// parameterized by a per-platform Descriptor: which hostnames the endpoint
// accepts and how to fetch-and-normalize a result.
package download_api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/yogaxd/downloader/internal/normalize"
	"github.com/yogaxd/downloader/internal/platform"
	"github.com/yogaxd/downloader/internal/upstream/aggregator"
)

// Descriptor is the per-platform adapter record.
type Descriptor struct {
	Platform platform.Platform

	// Hosts are hostname substrings at least one of which must appear in the
	// request URL's hostname.
	Hosts []string

	// RawSubstring, when set, replaces hostname matching with a plain
	// substring check on the whole URL. Spotify links are validated this way.
	RawSubstring string

	// Fetch calls the upstream adapter and normalizes its response.
	Fetch func(ctx context.Context, mediaURL string) (normalize.Result, error)
}

// ValidateURL reports whether mediaURL belongs to this descriptor's platform.
// Handlers re-validate independently of the UI's platform detection; a
// request reaching the wrong endpoint must be rejected before any upstream
// call.
func (d Descriptor) ValidateURL(mediaURL string) bool {
	if d.RawSubstring != "" {
		return strings.Contains(mediaURL, d.RawSubstring)
	}

	u, err := url.Parse(mediaURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, h := range d.Hosts {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

// Descriptors returns the adapter table backed by the aggregator client.
func Descriptors(agg *aggregator.Client) []Descriptor {
	return []Descriptor{
		{
			Platform: platform.Facebook,
			Hosts:    []string{"facebook.com", "fb.watch"},
			Fetch: func(ctx context.Context, mediaURL string) (normalize.Result, error) {
				res, err := agg.Facebook(ctx, mediaURL)
				if err != nil {
					return nil, err
				}
				return normalize.FacebookVideo(res, time.Now())
			},
		},
		{
			Platform: platform.Instagram,
			Hosts:    []string{"instagram.com"},
			Fetch: func(ctx context.Context, mediaURL string) (normalize.Result, error) {
				res, err := agg.Instagram(ctx, mediaURL)
				if err != nil {
					return nil, err
				}
				return normalize.InstagramGallery(mediaURL, res, time.Now())
			},
		},
		{
			Platform: platform.TikTok,
			Hosts:    []string{"tiktok.com"},
			Fetch: func(ctx context.Context, mediaURL string) (normalize.Result, error) {
				res, err := agg.TikTok(ctx, mediaURL)
				if err != nil {
					return nil, err
				}
				return normalize.TikTokLinks(res, time.Now())
			},
		},
		{
			Platform:     platform.Spotify,
			RawSubstring: "open.spotify.com",
			Fetch: func(ctx context.Context, mediaURL string) (normalize.Result, error) {
				res, err := agg.Spotify(ctx, mediaURL)
				if err != nil {
					return nil, err
				}
				return normalize.SpotifyTrack(res)
			},
		},
		{
			Platform: platform.YouTube,
			Hosts:    []string{"youtube.com", "youtu.be"},
			Fetch: func(ctx context.Context, mediaURL string) (normalize.Result, error) {
				res, err := agg.YouTube(ctx, mediaURL)
				if err != nil {
					return nil, err
				}
				return normalize.YouTubeVideo(res)
			},
		},
	}
}
