// Package common provides helpers shared by the API handlers.
package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/internal/normalize"
	"github.com/yogaxd/downloader/internal/upstream"
)

// Fail writes the uniform {error} envelope with the given status.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, &normalize.Failure{Message: msg})
}

// FailUpstream converts an upstream client error into a response. HTTP
// errors mirror the upstream status and forward its body when one was
// parseable; logical failures become 400 with the upstream's message;
// incomplete bodies become 502; anything else is a 500.
func FailUpstream(c echo.Context, err error) error {
	var he *upstream.HTTPError
	if errors.As(err, &he) {
		if len(he.Body) > 0 {
			return c.JSONBlob(he.StatusCode, he.Body)
		}
		return Fail(c, he.StatusCode, he.Message)
	}

	var le *upstream.LogicalError
	if errors.As(err, &le) {
		return Fail(c, http.StatusBadRequest, le.Message)
	}

	var ie *upstream.IncompleteError
	if errors.As(err, &ie) {
		return Fail(c, http.StatusBadGateway, ie.Error())
	}

	slog.Error("upstream call failed", "error", err, "path", c.Path())
	return Fail(c, http.StatusInternalServerError, err.Error())
}
