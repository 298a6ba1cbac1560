package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tours/entity"
)

type postPaymentMethodRequest struct {
	Method string `json:"method"`
}

func (s *Server) GetCheckout(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	orchestrator := s.checkouts.Orchestrator(c.Request().Context(), session)

	return c.JSON(http.StatusOK, orchestrator.State())
}

func (s *Server) PostTraveler(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	var profile entity.TravelerProfile
	if err := c.Bind(&profile); err != nil {
		return err
	}

	orchestrator := s.checkouts.Orchestrator(c.Request().Context(), session)

	if err := orchestrator.SubmitTraveler(profile); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, orchestrator.State())
}

func (s *Server) PostPaymentMethod(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	var request postPaymentMethodRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	orchestrator := s.checkouts.Orchestrator(c.Request().Context(), session)

	if err := orchestrator.SelectPaymentMethod(c.Request().Context(), request.Method); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, orchestrator.State())
}

func (s *Server) PostPayment(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	orchestrator := s.checkouts.Orchestrator(c.Request().Context(), session)

	state, err := orchestrator.Pay(c.Request().Context())
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, state)
}

func (s *Server) PostPaymentCancel(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	orchestrator := s.checkouts.Orchestrator(c.Request().Context(), session)

	if err := orchestrator.Cancel(c.Request().Context()); err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, orchestrator.State())
}
