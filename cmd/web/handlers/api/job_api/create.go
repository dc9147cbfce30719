// Package job_api relays the job-based extractor flow: create a job, let the
// browser poll its status, and expose format metadata for the picker. No
// job state is kept here; the correlation key lives with the upstream.
package job_api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/upstream/ytdl"
)

type createRequest struct {
	URL      string  `json:"url" validate:"required"`
	FormatID *string `json:"format_id"`
}

// HandleCreate submits a job and passes the upstream response through.
func HandleCreate(client *ytdl.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createRequest
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "invalid json")
		}
		req.URL = strings.TrimSpace(req.URL)
		if err := c.Validate(&req); err != nil {
			return common.Fail(c, http.StatusBadRequest, "url is required")
		}

		body, err := client.CreateJob(c.Request().Context(), req.URL, req.FormatID)
		if err != nil {
			return common.FailUpstream(c, err)
		}
		if body == nil {
			body = []byte("null")
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}
