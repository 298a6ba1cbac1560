package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tours/entity"
)

// CartClient talks to the backend cart service, the authority over cart
// contents. Merging of duplicate (tour, date) items happens server-side.
type CartClient struct {
	addr   string
	client *http.Client
}

func NewCartClient(addr string, client *http.Client) CartClient {
	if addr == "" {
		panic("missing cart service addr")
	}
	if client == nil {
		panic("missing http client")
	}

	return CartClient{addr: addr, client: client}
}

type addCartItemRequest struct {
	TourID     string    `json:"tour_id"`
	TravelDate time.Time `json:"travel_date"`
	PartyCount int       `json:"party_count"`
}

type updateCartItemRequest struct {
	PartyCount int `json:"party_count"`
}

func (c CartClient) List(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	status, err := doJSON(ctx, c.client, http.MethodGet, c.addr+"/cart", sessionID, nil, &items)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for GET /cart: %d", status)
	}

	return items, nil
}

func (c CartClient) Add(
	ctx context.Context,
	sessionID string,
	tourID string,
	travelDate time.Time,
	partyCount int,
) (entity.CartItem, error) {
	request := addCartItemRequest{
		TourID:     tourID,
		TravelDate: travelDate,
		PartyCount: partyCount,
	}

	var item entity.CartItem
	status, err := doJSON(ctx, c.client, http.MethodPost, c.addr+"/cart", sessionID, request, &item)
	if err != nil {
		return entity.CartItem{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return entity.CartItem{}, fmt.Errorf("unexpected status code for POST /cart: %d", status)
	}

	return item, nil
}

func (c CartClient) Update(
	ctx context.Context,
	sessionID string,
	itemID string,
	partyCount int,
) (entity.CartItem, error) {
	var item entity.CartItem
	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPut,
		c.addr+"/cart/"+itemID,
		sessionID,
		updateCartItemRequest{PartyCount: partyCount},
		&item,
	)
	if err != nil {
		return entity.CartItem{}, err
	}
	if status == http.StatusNotFound {
		return entity.CartItem{}, entity.ErrCartItemNotFound
	}
	if status != http.StatusOK {
		return entity.CartItem{}, fmt.Errorf("unexpected status code for PUT /cart/%s: %d", itemID, status)
	}

	return item, nil
}

func (c CartClient) Remove(ctx context.Context, sessionID string, itemID string) error {
	status, err := doJSON(ctx, c.client, http.MethodDelete, c.addr+"/cart/"+itemID, sessionID, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return entity.ErrCartItemNotFound
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("unexpected status code for DELETE /cart/%s: %d", itemID, status)
	}

	return nil
}

func (c CartClient) Clear(ctx context.Context, sessionID string) error {
	status, err := doJSON(ctx, c.client, http.MethodDelete, c.addr+"/cart", sessionID, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("unexpected status code for DELETE /cart: %d", status)
	}

	return nil
}
