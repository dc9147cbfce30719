package job_api

import (
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/upstream/ytdl"
)

type infoFormat struct {
	FormatID      string  `json:"format_id"`
	Ext           string  `json:"ext,omitempty"`
	Resolution    string  `json:"resolution,omitempty"`
	Note          string  `json:"format_note,omitempty"`
	Filesize      float64 `json:"filesize,omitempty"`
	FilesizeHuman string  `json:"filesize_human,omitempty"`
}

type infoResponse struct {
	Title     string       `json:"title"`
	Duration  float64      `json:"duration,omitempty"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Formats   []infoFormat `json:"formats"`
}

// HandleInfo fetches metadata for a URL so the UI can offer a format picker
// before creating a job. Sizes get a human-readable rendering alongside the
// raw byte count.
func HandleInfo(client *ytdl.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		mediaURL := strings.TrimSpace(c.QueryParam("url"))
		if mediaURL == "" {
			return common.Fail(c, http.StatusBadRequest, "url is required")
		}

		info, err := client.Info(c.Request().Context(), mediaURL)
		if err != nil {
			return common.FailUpstream(c, err)
		}

		resp := infoResponse{
			Title:     info.Title,
			Duration:  info.Duration,
			Thumbnail: info.Thumbnail,
			Formats:   make([]infoFormat, 0, len(info.Formats)),
		}
		for _, f := range info.Formats {
			out := infoFormat{
				FormatID:   f.FormatID,
				Ext:        f.Ext,
				Resolution: f.Resolution,
				Note:       f.Note,
				Filesize:   f.Filesize,
			}
			if f.Filesize > 0 {
				out.FilesizeHuman = humanize.Bytes(uint64(f.Filesize))
			}
			resp.Formats = append(resp.Formats, out)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
