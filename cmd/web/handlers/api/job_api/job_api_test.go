package job_api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	"github.com/yogaxd/downloader/internal/upstream/ytdl"
)

func newClient(t *testing.T, handler http.HandlerFunc, calls *atomic.Int64) *ytdl.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return ytdl.NewClient(srv.URL, "key", 5*time.Second)
}

func doPost(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func doGet(t *testing.T, h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestHandleCreate_Passthrough(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"url":"https://youtu.be/abc","format_id":"137"}`, string(body))
		_, _ = w.Write([]byte(`{"job_id":"j-1","status":"queued"}`))
	}, &calls)

	rec := doPost(t, HandleCreate(client), `{"url":"https://youtu.be/abc","format_id":"137"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"job_id":"j-1","status":"queued"}`, rec.Body.String())
}

func TestHandleCreate_MissingURL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {}, &calls)

	rec := doPost(t, HandleCreate(client), `{"format_id":"137"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"url is required"}`, rec.Body.String())
	require.Zero(t, calls.Load())
}

func TestHandleCheck_Passthrough(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "j-1", r.URL.Query().Get("job_id"))
		_, _ = w.Write([]byte(`{"status":"finished","result":{"url":"https://cdn/out.mp4"}}`))
	}, &calls)

	rec := doGet(t, HandleCheck(client), "/api/ytdl/check?job_id=j-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"finished"`)
}

func TestHandleCheck_MissingJobID(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {}, &calls)

	rec := doGet(t, HandleCheck(client), "/api/ytdl/check")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"job_id is required"}`, rec.Body.String())
	require.Zero(t, calls.Load())
}

func TestHandleCheck_UpstreamErrorMirrored(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown job"}`))
	}, &calls)

	rec := doGet(t, HandleCheck(client), "/api/ytdl/check?job_id=nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"unknown job"}`, rec.Body.String())
}

func TestHandleInfo_HumanizesSizes(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"title": "a video",
			"duration": 120,
			"formats": [
				{"format_id":"137","ext":"mp4","resolution":"1920x1080","filesize":10485760},
				{"format_id":"18","ext":"mp4","resolution":"640x360"}
			]
		}`))
	}, &calls)

	rec := doGet(t, HandleInfo(client), "/api/ytdl/info?url=https%3A%2F%2Fyoutu.be%2Fabc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"a video"`)
	require.Contains(t, rec.Body.String(), `"filesize_human":"10 MB"`)
	// Formats without a size skip the human rendering.
	require.NotContains(t, rec.Body.String(), `"filesize_human":""`)
}

func TestHandleInfo_MissingURL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {}, &calls)

	rec := doGet(t, HandleInfo(client), "/api/ytdl/info")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, calls.Load())
}
