package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"tours/entity"
)

func (s *Server) GetOpsCheckouts(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" &&
		status != entity.OpsCheckoutStatusCompleted &&
		status != entity.OpsCheckoutStatusReservationPending {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
	}

	checkouts, err := s.opsReadModel.AllCheckouts(c.Request().Context(), status)
	if err != nil {
		return fmt.Errorf("failed to get checkouts: %w", err)
	}

	return c.JSON(http.StatusOK, checkouts)
}

func (s *Server) GetOpsCheckout(c echo.Context) error {
	checkout, err := s.opsReadModel.CheckoutReadModel(c.Request().Context(), c.Param("checkout_id"))
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, checkout)
}

func (s *Server) GetOpsRepairs(c echo.Context) error {
	tasks, err := s.repairsRepo.FindUnresolved(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed to get repair tasks: %w", err)
	}

	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) PutOpsRepairResolved(c echo.Context) error {
	if err := s.repairsRepo.MarkResolved(c.Request().Context(), c.Param("repair_id")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
