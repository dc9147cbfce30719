// Package platform classifies media URLs by hosting platform.
package platform

import (
	"net/url"
	"strings"
)

// Platform is the tag for a supported media source.
type Platform string

const (
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	Spotify   Platform = "spotify"
	Other     Platform = "other"
)

// Hostname needles checked in order. Domains are disjoint, so order only
// matters for readability.
var hostTable = []struct {
	needles  []string
	platform Platform
}{
	{[]string{"youtube.com", "youtu.be"}, YouTube},
	{[]string{"tiktok.com"}, TikTok},
	{[]string{"facebook.com", "fb.watch"}, Facebook},
	{[]string{"x.com", "twitter.com"}, Twitter},
	{[]string{"instagram.com"}, Instagram},
	{[]string{"open.spotify.com"}, Spotify},
}

// Detect classifies raw by hostname. It never fails: anything that does not
// parse as a URL with a hostname comes back as Other.
func Detect(raw string) Platform {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Other
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Other
	}

	for _, entry := range hostTable {
		for _, needle := range entry.needles {
			if strings.Contains(host, needle) {
				return entry.platform
			}
		}
	}
	return Other
}

// DisplayName returns the human-facing label for a platform.
func DisplayName(p Platform) string {
	switch p {
	case YouTube:
		return "YouTube"
	case TikTok:
		return "TikTok"
	case Facebook:
		return "Facebook"
	case Instagram:
		return "Instagram"
	case Twitter:
		return "X/Twitter"
	case Spotify:
		return "Spotify"
	default:
		return "Other"
	}
}
