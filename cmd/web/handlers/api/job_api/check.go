package job_api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/upstream/ytdl"
)

// HandleCheck polls a job's status by its id and passes the upstream
// response through. The browser drives the polling loop.
func HandleCheck(client *ytdl.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := strings.TrimSpace(c.QueryParam("job_id"))
		if jobID == "" {
			return common.Fail(c, http.StatusBadRequest, "job_id is required")
		}

		body, err := client.CheckJob(c.Request().Context(), jobID)
		if err != nil {
			return common.FailUpstream(c, err)
		}
		if body == nil {
			body = []byte("null")
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}
