package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) GetBooking(c echo.Context) error {
	booking, err := s.bookings.Get(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, booking)
}

func (s *Server) GetBookingReceipt(c echo.Context) error {
	document, contentType, err := s.bookings.DownloadReceipt(c.Request().Context(), c.Param("booking_id"))
	if err != nil {
		return domainError(err)
	}

	return c.Blob(http.StatusOK, contentType, document)
}
