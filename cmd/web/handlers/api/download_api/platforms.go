package download_api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/internal/platform"
)

type platformStatus struct {
	ID     platform.Platform `json:"id"`
	Label  string            `json:"label"`
	Status string            `json:"status"`
}

// Fixed service-status table shown on the landing page. Twitter extraction
// is routed through the tunnel endpoint and currently unreliable.
var servicePlatforms = []platformStatus{
	{platform.Facebook, "Facebook Reels", "online"},
	{platform.TikTok, "TikTok Video", "online"},
	{platform.Instagram, "Instagram Reels", "online"},
	{platform.Twitter, "X/Twitter Video/Photo", "under maintenance"},
	{platform.Spotify, "Spotify Music", "online"},
	{platform.YouTube, "YouTube Video", "online"},
}

// HandlePlatforms serves the service-status table the UI renders.
func HandlePlatforms() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, servicePlatforms)
	}
}
