package download_api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/platform"
	"github.com/yogaxd/downloader/internal/upstream/aggregator"
)

// upstreamCalls tracks outbound requests so tests can assert that rejected
// input never reaches the network.
func testDescriptors(t *testing.T, handler http.HandlerFunc, calls *atomic.Int64) []Descriptor {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return Descriptors(aggregator.NewClient(srv.URL, "k", 5*time.Second))
}

func descriptorFor(t *testing.T, ds []Descriptor, p platform.Platform) Descriptor {
	t.Helper()
	for _, d := range ds {
		if d.Platform == p {
			return d
		}
	}
	t.Fatalf("no descriptor for %s", p)
	return Descriptor{}
}

func doRequest(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestHandleDownload_EmptyURLNoUpstreamCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {}, &calls)

	for _, d := range ds {
		rec := doRequest(t, HandleDownload(d), `{"url":""}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "error")
	}
	require.Zero(t, calls.Load())
}

func TestHandleDownload_WrongHostNoUpstreamCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {}, &calls)
	fb := descriptorFor(t, ds, platform.Facebook)

	rec := doRequest(t, HandleDownload(fb), `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"invalid Facebook URL"}`, rec.Body.String())
	require.Zero(t, calls.Load())
}

func TestHandleDownload_FacebookSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"result":{
			"title":"clip","duration":30,"thumbnail":"https://cdn/t.jpg",
			"video":[{"quality":"HD","url":"https://cdn/hd.mp4"}],
			"music":"https://cdn/a.mp3"}}`))
	}, &calls)
	fb := descriptorFor(t, ds, platform.Facebook)

	rec := doRequest(t, HandleDownload(fb), `{"url":"https://www.facebook.com/watch/?v=1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"success"`)
	require.Contains(t, rec.Body.String(), `"music":"https://cdn/a.mp3"`)
	require.Contains(t, rec.Body.String(), `Facebook_`)
	require.Equal(t, int64(1), calls.Load())
}

func TestHandleDownload_SpotifySubstringValidation(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"data":{"title":"T","artis":"A","image":"i","download":"http://x"}}`))
	}, &calls)
	sp := descriptorFor(t, ds, platform.Spotify)

	rec := doRequest(t, HandleDownload(sp), `{"url":"https://open.spotify.com/track/abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"filename":"A - T.mp3"`)

	rec = doRequest(t, HandleDownload(sp), `{"url":"https://spotify.example.com/track/abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDownload_UpstreamStatusMirrored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, &calls)
	yt := descriptorFor(t, ds, platform.YouTube)

	rec := doRequest(t, HandleDownload(yt), `{"url":"https://youtu.be/abc"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestHandleDownload_UpstreamLogicalFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ds := testDescriptors(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"video not found"}`))
	}, &calls)
	tk := descriptorFor(t, ds, platform.TikTok)

	rec := doRequest(t, HandleDownload(tk), `{"url":"https://www.tiktok.com/@u/video/1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"video not found"}`, rec.Body.String())
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	fb := Descriptor{Platform: platform.Facebook, Hosts: []string{"facebook.com", "fb.watch"}}
	require.True(t, fb.ValidateURL("https://www.facebook.com/watch/?v=1"))
	require.True(t, fb.ValidateURL("https://fb.watch/xyz/"))
	require.False(t, fb.ValidateURL("https://example.com/facebook.com"))
	require.False(t, fb.ValidateURL("::::"))

	sp := Descriptor{Platform: platform.Spotify, RawSubstring: "open.spotify.com"}
	require.True(t, sp.ValidateURL("https://open.spotify.com/track/abc"))
	// Substring check tolerates the needle anywhere in the URL.
	require.True(t, sp.ValidateURL("https://example.com/?u=open.spotify.com"))
	require.False(t, sp.ValidateURL("https://spotify.com/track/abc"))
}

func TestHandlePlatforms(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/platforms", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, HandlePlatforms()(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "TikTok Video")
	require.Contains(t, rec.Body.String(), "under maintenance")
}
