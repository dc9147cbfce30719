package web

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/yogaxd/downloader/cmd/web/handlers/api/download_api"
	"github.com/yogaxd/downloader/cmd/web/handlers/api/job_api"
	"github.com/yogaxd/downloader/cmd/web/handlers/common"
	staticpkg "github.com/yogaxd/downloader/cmd/web/internal/web/utils/static"
	"github.com/yogaxd/downloader/internal/config"
	"github.com/yogaxd/downloader/internal/upstream/aggregator"
	"github.com/yogaxd/downloader/internal/upstream/tunnel"
	"github.com/yogaxd/downloader/internal/upstream/ytdl"
)

type Webserver struct {
	*echo.Echo
	staticCache *staticpkg.StaticCache
	aggregator  *aggregator.Client
	tunnel      *tunnel.Client
	ytdl        *ytdl.Client
}

func NewWebserver(conf *config.Config) (*Webserver, error) {
	e := echo.New()

	staticCache, err := staticpkg.NewStaticCache()
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(conf.UpstreamTimeoutSeconds) * time.Second

	webserver := &Webserver{
		Echo:        e,
		staticCache: staticCache,
		aggregator:  aggregator.NewClient(conf.AggregatorBaseURL, conf.AggregatorAPIKey, timeout),
		tunnel:      tunnel.NewClient(conf.TunnelBaseURL, timeout),
		ytdl:        ytdl.NewClient(conf.YTDLBaseURL, conf.YTDLAPIKey, timeout),
	}

	webserver.registerRoutes()
	webserver.setupMiddleware()

	return webserver, nil
}

func (s *Webserver) setupMiddleware() {
	s.HideBanner = true
	s.HidePort = true
	s.Validator = common.NewRequestValidator()
	s.Use(middleware.BodyLimit("64K"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Webserver) registerRoutes() {
	apiGroup := s.Group("/api")

	// One endpoint per platform, all backed by the same generic handler.
	for _, d := range download_api.Descriptors(s.aggregator) {
		apiGroup.POST("/"+string(d.Platform), download_api.HandleDownload(d))
	}
	apiGroup.POST("/dl", download_api.HandleTunnelDownload(s.tunnel))
	apiGroup.GET("/platforms", download_api.HandlePlatforms())

	apiGroup.POST("/ytdl/create", job_api.HandleCreate(s.ytdl))
	apiGroup.GET("/ytdl/check", job_api.HandleCheck(s.ytdl))
	apiGroup.GET("/ytdl/info", job_api.HandleInfo(s.ytdl))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	// Static file serving
	s.GET("/static/*", s.staticCache.ServeStaticFile("/static/"))
	s.GET("/", s.staticCache.ServeIndex())
}
