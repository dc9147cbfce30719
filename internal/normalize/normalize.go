// Package normalize maps the heterogeneous upstream response schemas onto a
// single display model consumed by the UI. Each variant marshals directly to
// the wire shape of its endpoint.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/yogaxd/downloader/internal/upstream"
	"github.com/yogaxd/downloader/internal/upstream/aggregator"
)

// Kind discriminates the display-model variants.
type Kind string

const (
	KindSingleLink    Kind = "single_link"
	KindLinkList      Kind = "link_list"
	KindVideoAudioSet Kind = "video_audio_set"
	KindMediaGallery  Kind = "media_gallery"
	KindFailure       Kind = "failure"
)

// Result is the tagged union the presentation layer consumes. Values are
// constructed once per request and never mutated afterwards.
type Result interface {
	Kind() Kind
}

// Captions come from an upstream we do not control and are rendered in the
// browser; strip all markup server-side.
var captionPolicy = bluemonday.StrictPolicy()

type VideoVariant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type MediaItem struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// SingleLink is one direct download link plus metadata (Spotify, YouTube).
type SingleLink struct {
	Status      string `json:"status"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Image       string `json:"image,omitempty"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

func (*SingleLink) Kind() Kind { return KindSingleLink }

// LinkList is an ordered set of labelled links (TikTok).
type LinkList struct {
	Status   string          `json:"status"`
	Title    string          `json:"title"`
	Region   string          `json:"region,omitempty"`
	Duration json.RawMessage `json:"duration,omitempty"`
	Links    []Link          `json:"links"`
	Filename string          `json:"filename"`
}

func (*LinkList) Kind() Kind { return KindLinkList }

// VideoAudioSet is quality-labelled video variants plus an optional audio
// track (Facebook).
type VideoAudioSet struct {
	Status    string          `json:"status"`
	Title     string          `json:"title"`
	Duration  json.RawMessage `json:"duration,omitempty"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Video     []VideoVariant  `json:"video"`
	Music     string          `json:"music,omitempty"`
	Filename  string          `json:"filename"`
}

func (*VideoAudioSet) Kind() Kind { return KindVideoAudioSet }

// MediaGallery is a mixed set of videos and images (Instagram).
type MediaGallery struct {
	Status   string      `json:"status"`
	Author   string      `json:"author,omitempty"`
	Caption  string      `json:"caption,omitempty"`
	Media    []MediaItem `json:"media"`
	Filename string      `json:"filename"`
}

func (*MediaGallery) Kind() Kind { return KindMediaGallery }

// Failure marshals to the uniform error envelope.
type Failure struct {
	Message string `json:"error"`
}

func (*Failure) Kind() Kind { return KindFailure }

// FacebookVideo maps a Facebook extraction result.
func FacebookVideo(res *aggregator.FacebookResult, now time.Time) (*VideoAudioSet, error) {
	if len(res.Video) == 0 {
		return nil, &upstream.IncompleteError{Field: "video"}
	}

	video := make([]VideoVariant, 0, len(res.Video))
	for _, v := range res.Video {
		video = append(video, VideoVariant{Quality: v.Quality, URL: v.URL})
	}

	return &VideoAudioSet{
		Status:    "success",
		Title:     res.Title,
		Duration:  res.Duration,
		Thumbnail: res.Thumbnail,
		Video:     video,
		Music:     res.Music,
		Filename:  fmt.Sprintf("Facebook_%d.mp4", now.UnixMilli()),
	}, nil
}

// InstagramGallery maps an Instagram extraction result. Item types are
// recomputed rather than trusted: the upstream routinely reports reel videos
// as images, so a request URL containing /reels/ or an item URL containing
// .mp4 forces the video type.
func InstagramGallery(requestURL string, res *aggregator.InstagramResult, now time.Time) (*MediaGallery, error) {
	if len(res.Media) == 0 {
		return nil, &upstream.IncompleteError{Field: "media"}
	}

	isReel := strings.Contains(requestURL, "/reels/")

	media := make([]MediaItem, 0, len(res.Media))
	for _, item := range res.Media {
		itemType := item.Type
		if isReel || strings.Contains(item.URL, ".mp4") {
			itemType = "video"
		}
		media = append(media, MediaItem{
			URL:       item.URL,
			Type:      itemType,
			Thumbnail: item.Thumbnail,
		})
	}

	return &MediaGallery{
		Status:   "success",
		Author:   res.Author,
		Caption:  captionPolicy.Sanitize(res.Caption),
		Media:    media,
		Filename: fmt.Sprintf("Instagram_%d", now.UnixMilli()),
	}, nil
}

// TikTokLinks maps a TikTok extraction result.
func TikTokLinks(res *aggregator.TikTokResult, now time.Time) (*LinkList, error) {
	if len(res.Links) == 0 {
		return nil, &upstream.IncompleteError{Field: "links"}
	}

	links := make([]Link, 0, len(res.Links))
	for _, l := range res.Links {
		links = append(links, Link{Label: l.Label, URL: l.URL})
	}

	return &LinkList{
		Status:   "success",
		Title:    res.Title,
		Region:   res.Region,
		Duration: res.Duration,
		Links:    links,
		Filename: fmt.Sprintf("TikTok_%d.mp4", now.UnixMilli()),
	}, nil
}

// SpotifyTrack maps a Spotify extraction result.
func SpotifyTrack(res *aggregator.SpotifyResult) (*SingleLink, error) {
	if res.Download == "" {
		return nil, &upstream.IncompleteError{Field: "download"}
	}

	return &SingleLink{
		Status:      "success",
		Title:       res.Title,
		Artist:      res.Artist,
		Image:       res.Image,
		DownloadURL: res.Download,
		Filename:    fmt.Sprintf("%s - %s.mp3", res.Artist, res.Title),
	}, nil
}

// YouTubeVideo maps an all-in-one YouTube extraction result.
func YouTubeVideo(res *aggregator.YouTubeResult) (*SingleLink, error) {
	if res.DownloadURL == "" {
		return nil, &upstream.IncompleteError{Field: "download_url"}
	}

	return &SingleLink{
		Status:      "success",
		Title:       res.Title,
		DownloadURL: res.DownloadURL,
		Filename:    res.Title + ".mp4",
	}, nil
}
