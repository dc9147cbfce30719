package download_api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/upstream/tunnel"
)

type tunnelRequest struct {
	URL          string `json:"url" validate:"required"`
	VideoQuality string `json:"videoQuality"`
	// DownloadMode is accepted for wire compatibility but ignored: the tunnel
	// client always requests "auto". See DESIGN.md.
	DownloadMode string `json:"downloadMode"`
}

// HandleTunnelDownload relays unclassified URLs to the generic tunnel
// extractor and passes the upstream body through verbatim.
func HandleTunnelDownload(client *tunnel.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req tunnelRequest
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "invalid json")
		}
		req.URL = strings.TrimSpace(req.URL)
		if err := c.Validate(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "url is required")
		}

		body, err := client.Resolve(c.Request().Context(), tunnel.Request{
			URL:          req.URL,
			VideoQuality: req.VideoQuality,
		})
		if err != nil {
			return common.FailUpstream(c, err)
		}
		if body == nil {
			// Unparseable 2xx bodies pass through as an explicit null.
			body = []byte("null")
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}
