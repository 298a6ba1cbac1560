package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tours/entity"
)

type cartResponse struct {
	Items  []entity.CartItem `json:"items"`
	Totals entity.CartTotals `json:"totals"`
}

type postCartItemRequest struct {
	TourID     string `json:"tour_id"`
	TravelDate string `json:"travel_date"`
	PartyCount int    `json:"party_count"`
}

type putCartItemRequest struct {
	PartyCount int `json:"party_count"`
}

func (s *Server) GetCart(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	store := s.carts.Store(c.Request().Context(), session)

	return c.JSON(http.StatusOK, cartResponse{
		Items:  store.Items(),
		Totals: store.Totals(),
	})
}

func (s *Server) PostCartItem(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	var request postCartItemRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.TourID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tour_id is required")
	}

	travelDate, err := time.Parse("2006-01-02", request.TravelDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid travel_date, expected YYYY-MM-DD")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if travelDate.Before(today) {
		return echo.NewHTTPError(http.StatusBadRequest, "travel_date must be today or later")
	}

	store := s.carts.Store(c.Request().Context(), session)

	item, err := store.Add(c.Request().Context(), request.TourID, travelDate, request.PartyCount)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, item)
}

func (s *Server) PutCartItem(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	var request putCartItemRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	store := s.carts.Store(c.Request().Context(), session)

	item, err := store.SetQuantity(c.Request().Context(), c.Param("item_id"), request.PartyCount)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteCartItem(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	store := s.carts.Store(c.Request().Context(), session)

	if err := store.Remove(c.Request().Context(), c.Param("item_id")); err != nil {
		return domainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) DeleteCart(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	store := s.carts.Store(c.Request().Context(), session)

	if err := store.Clear(c.Request().Context()); err != nil {
		return domainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
