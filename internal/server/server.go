package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/handler"
	authmw "marketplace-api/internal/middleware"
	"marketplace-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type Server struct {
	echo            *echo.Echo
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	vendorHandler   *handler.VendorHandler
	adminHandler    *handler.AdminHandler
}

func NewServer(
	checkoutService service.CheckoutService,
	paymentEventService service.PaymentEventService,
	vendorService service.VendorService,
	adminService service.AdminService,
	adminKey string,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	// Equivalent of echo v4.15's middleware.RequestLogger() default config;
	// spelled out because the installed echo version predates that helper.
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:       true,
		LogRemoteIP:      true,
		LogHost:          true,
		LogMethod:        true,
		LogURI:           true,
		LogRequestID:     true,
		LogUserAgent:     true,
		LogStatus:        true,
		LogError:         true,
		LogContentLength: true,
		LogResponseSize:  true,
		HandleError:      true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				slog.LogAttrs(context.Background(), slog.LevelInfo, "REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("host", v.Host),
					slog.String("bytes_in", v.ContentLength),
					slog.Int64("bytes_out", v.ResponseSize),
					slog.String("user_agent", v.UserAgent),
					slog.String("remote_ip", v.RemoteIP),
					slog.String("request_id", v.RequestID),
				)
			} else {
				slog.LogAttrs(context.Background(), slog.LevelError, "REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("host", v.Host),
					slog.String("bytes_in", v.ContentLength),
					slog.Int64("bytes_out", v.ResponseSize),
					slog.String("user_agent", v.UserAgent),
					slog.String("remote_ip", v.RemoteIP),
					slog.String("request_id", v.RequestID),
					slog.String("error", v.Error.Error()),
				)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, vendorService),
		webhookHandler:  handler.NewWebhookHandler(paymentEventService),
		vendorHandler:   handler.NewVendorHandler(vendorService),
		adminHandler:    handler.NewAdminHandler(adminService),
	}

	s.setupRoutes(adminKey)
	return s
}

func (s *Server) setupRoutes(adminKey string) {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- storefront --------
	api.POST("/checkout/sessions", s.checkoutHandler.CreateSession)
	api.POST("/orders", s.checkoutHandler.CreateDirectOrder)

	// -------- gateway webhooks --------
	api.POST("/webhooks/payment", s.webhookHandler.HandleGatewayEvent)

	// -------- vendor (opaque token) --------
	vendor := api.Group("/vendor")
	vendor.GET("/orders", s.vendorHandler.ListOrders)
	vendor.PATCH("/orders", s.vendorHandler.UpdateOrderStatus)

	// -------- admin (static credential) --------
	admin := api.Group("/admin", authmw.AdminKey(adminKey))
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.POST("/orders/:id/fulfill", s.adminHandler.FulfillOrder)
	admin.POST("/orders/:id/refund", s.adminHandler.RefundOrder)
}

// httpErrorHandler maps the error taxonomy onto HTTP. Actors always get a
// definitive outcome; reconciliation detail stays in the logs.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var (
		validationErr    *apperr.ValidationError
		authorizationErr *apperr.AuthorizationError
		notFoundErr      *apperr.NotFoundError
		preconditionErr  *apperr.PreconditionError
		upstreamErr      *apperr.UpstreamError
		inconsistencyErr *apperr.InconsistencyError
		httpErr          *echo.HTTPError
	)

	switch {
	case errors.As(err, &validationErr):
		status, message = http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &authorizationErr):
		status, message = http.StatusForbidden, authorizationErr.Error()
	case errors.As(err, &notFoundErr):
		status, message = http.StatusNotFound, notFoundErr.Error()
	case errors.As(err, &preconditionErr):
		status, message = http.StatusConflict, preconditionErr.Error()
	case errors.As(err, &upstreamErr):
		status, message = http.StatusBadGateway, upstreamErr.Error()
	case errors.As(err, &inconsistencyErr):
		// Already logged loudly at the source; the caller still learns
		// the action needs manual follow-up.
		status, message = http.StatusInternalServerError, inconsistencyErr.Error()
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	default:
		log.Errorf("unhandled error: %v", err)
	}

	if err := c.JSON(status, map[string]string{"error": message}); err != nil {
		log.Errorf("write error response: %v", err)
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
