package server

import (
	"context"
	"net/http"
	"time"

	"valentine-pages/internal/config"
	"valentine-pages/internal/handler"
	appmiddleware "valentine-pages/internal/middleware"
	"valentine-pages/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// documents carry up to 20 photo references plus text; images themselves
// are uploaded elsewhere
const bodyLimit = "2M"

type Server struct {
	echo               *echo.Echo
	cfg                config.HTTPServer
	checkoutHandler    *handler.CheckoutHandler
	publishHandler     *handler.PublishHandler
	webhookHandler     *handler.WebhookHandler
	entitlementHandler *handler.EntitlementHandler
	pageHandler        *handler.PageHandler
}

func NewServer(
	cfg config.HTTPServer,
	logger logrus.FieldLogger,
	checkoutService service.CheckoutService,
	publishService service.PublishService,
	webhookService service.WebhookService,
	entitlementService service.EntitlementService,
	pageService service.PageService,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			appmiddleware.DeviceHeader,
		},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	s := &Server{
		echo:               e,
		cfg:                cfg,
		checkoutHandler:    handler.NewCheckoutHandler(checkoutService),
		publishHandler:     handler.NewPublishHandler(publishService),
		webhookHandler:     handler.NewWebhookHandler(webhookService),
		entitlementHandler: handler.NewEntitlementHandler(entitlementService),
		pageHandler:        handler.NewPageHandler(pageService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.cfg.RateLimit),
		Burst:     s.cfg.RateBurst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return appmiddleware.DeviceID(c), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests)
		},
	})
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- payment provider callbacks --------
	// not rate limited per device: the provider retries from a few addresses
	api.POST("/webhooks/payment", s.webhookHandler.PaymentWebhook)

	client := api.Group("", appmiddleware.DeviceMiddleware())
	if s.cfg.RateLimit > 0 {
		client.Use(s.rateLimiter())
	}

	client.POST("/checkout", s.checkoutHandler.Checkout)
	client.POST("/checkout/capture", s.checkoutHandler.Capture)
	client.POST("/publish", s.publishHandler.Publish)
	client.POST("/publish/pending", s.publishHandler.PublishPending)
	client.GET("/entitlements", s.entitlementHandler.GetEntitlement)
	client.GET("/pages/:slug", s.pageHandler.GetPage)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
