package download_api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/platform"
)

type downloadRequest struct {
	URL string `json:"url" validate:"required"`
}

// HandleDownload is the generic platform handler: bind, validate the URL
// against the descriptor's domain set, fetch, respond. Upstream failures are
// terminal; there are no retries.
func HandleDownload(d Descriptor) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req downloadRequest
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "invalid json")
		}
		req.URL = strings.TrimSpace(req.URL)
		if err := c.Validate(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "url is required")
		}

		if !d.ValidateURL(req.URL) {
			return common.Fail(c, http.StatusBadRequest, "invalid "+platform.DisplayName(d.Platform)+" URL")
		}

		result, err := d.Fetch(c.Request().Context(), req.URL)
		if err != nil {
			return common.FailUpstream(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}
