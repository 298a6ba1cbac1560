package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tours/cart"
	"tours/checkout"
	"tours/entity"
)

type BookingsReader interface {
	Get(ctx context.Context, bookingID string) (entity.Booking, error)
	DownloadReceipt(ctx context.Context, bookingID string) ([]byte, string, error)
}

type OpsCheckoutReadModel interface {
	AllCheckouts(ctx context.Context, statusFilter string) ([]entity.OpsCheckout, error)
	CheckoutReadModel(ctx context.Context, checkoutID string) (entity.OpsCheckout, error)
}

type RepairsRepository interface {
	FindUnresolved(ctx context.Context) ([]entity.RepairTask, error)
	MarkResolved(ctx context.Context, taskID string) error
}

type Server struct {
	addr         string
	e            *echo.Echo
	carts        *cart.Registry
	checkouts    *checkout.Registry
	bookings     BookingsReader
	opsReadModel OpsCheckoutReadModel
	repairsRepo  RepairsRepository
}

func NewServer(
	addr string,
	carts *cart.Registry,
	checkouts *checkout.Registry,
	bookings BookingsReader,
	opsReadModel OpsCheckoutReadModel,
	repairsRepo RepairsRepository,
) *Server {
	e := echoHTTP.NewEcho()

	server := &Server{
		addr:         addr,
		e:            e,
		carts:        carts,
		checkouts:    checkouts,
		bookings:     bookings,
		opsReadModel: opsReadModel,
		repairsRepo:  repairsRepo,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/cart", server.GetCart)
	e.POST("/cart/items", server.PostCartItem)
	e.PUT("/cart/items/:item_id", server.PutCartItem)
	e.DELETE("/cart/items/:item_id", server.DeleteCartItem)
	e.DELETE("/cart", server.DeleteCart)

	e.GET("/checkout", server.GetCheckout)
	e.POST("/checkout/traveler", server.PostTraveler)
	e.POST("/checkout/payment-method", server.PostPaymentMethod)
	e.POST("/checkout/payment", server.PostPayment)
	e.POST("/checkout/payment/cancel", server.PostPaymentCancel)

	e.GET("/bookings/:booking_id", server.GetBooking)
	e.GET("/bookings/:booking_id/receipt", server.GetBookingReceipt)

	e.GET("/ops/checkouts", server.GetOpsCheckouts)
	e.GET("/ops/checkouts/:checkout_id", server.GetOpsCheckout)
	e.GET("/ops/repairs", server.GetOpsRepairs)
	e.PUT("/ops/repairs/:repair_id/resolve", server.PutOpsRepairResolved)

	return server
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

const sessionHeader = "Session-ID"

func sessionID(c echo.Context) (string, error) {
	id := c.Request().Header.Get(sessionHeader)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing Session-ID header")
	}
	return id, nil
}

// domainError maps domain errors onto HTTP status codes. Anything not mapped
// bubbles up as a 500 through echo's error handler.
func domainError(err error) error {
	var validationErr entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation failed",
			"fields":  validationErr.Fields,
		})
	case errors.Is(err, entity.ErrCartItemNotFound), errors.Is(err, entity.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrEmptyCart), errors.Is(err, entity.ErrInvalidQuantity):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrPaymentInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}
