// Package static serves the embedded UI assets with conditional-request
// support. Metadata (ETag, Last-Modified) is computed once at startup.
package static

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yogaxd/downloader/static"
)

// CachedFileInfo holds metadata for a static file used in HTTP cache headers.
type CachedFileInfo struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// StaticCache holds in-memory metadata for the embedded assets. The map is
// built once before the server starts and is read-only afterwards.
type StaticCache struct {
	entries map[string]CachedFileInfo
	fs      fs.FS
}

// NewStaticCache scans the embedded filesystem and computes ETag and
// Last-Modified for each file.
func NewStaticCache() (*StaticCache, error) {
	c := &StaticCache{
		entries: make(map[string]CachedFileInfo),
		fs:      static.FS,
	}

	err := fs.WalkDir(static.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		f, err := static.FS.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		modTime := info.ModTime()
		if modTime.IsZero() {
			modTime = time.Now()
		}

		c.entries[path] = CachedFileInfo{
			ETag:         fmt.Sprintf("%q", fmt.Sprintf("%x", h.Sum(nil))),
			Size:         info.Size(),
			LastModified: modTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ServeStaticFile serves an asset under prefix with ETag/If-Modified-Since
// handling.
func (s *StaticCache) ServeStaticFile(prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := strings.TrimPrefix(c.Request().URL.Path, prefix)
		return s.serve(c, path)
	}
}

// ServeIndex serves the landing page.
func (s *StaticCache) ServeIndex() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.serve(c, "index.html")
	}
}

func (s *StaticCache) serve(c echo.Context, path string) error {
	ci, ok := s.entries[path]

	if ok {
		if inm := c.Request().Header.Get("If-None-Match"); inm != "" && inm == ci.ETag {
			return c.NoContent(http.StatusNotModified)
		}
		if ims := c.Request().Header.Get(echo.HeaderIfModifiedSince); ims != "" {
			if t, err := time.Parse(time.RFC1123, ims); err == nil && ci.LastModified.Before(t.Add(time.Second)) {
				return c.NoContent(http.StatusNotModified)
			}
		}
	}

	ext := filepath.Ext(path)

	// The assets are not fingerprinted; keep revalidation cheap instead of
	// caching long-lived copies that go stale on deploy.
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache, must-revalidate")

	f, err := s.fs.Open(path)
	if err != nil {
		return echo.ErrNotFound
	}
	defer f.Close()

	if ok {
		c.Response().Header().Set("ETag", ci.ETag)
		c.Response().Header().Set(echo.HeaderLastModified, ci.LastModified.Format(time.RFC1123))
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.Stream(http.StatusOK, contentType, f)
}
