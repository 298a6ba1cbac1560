package gateway

import (
	"context"
	"fmt"
	"net/http"

	"tours/entity"
)

// PaymentClient wraps the external payment provider's order API. The provider's
// own widget/wire protocol stays behind create-order/capture-order calls.
type PaymentClient struct {
	addr   string
	method string
	client *http.Client
}

func NewPaymentClient(addr string, method string, client *http.Client) PaymentClient {
	if addr == "" {
		panic("missing payment provider addr")
	}
	if method == "" {
		panic("missing payment method name")
	}
	if client == nil {
		panic("missing http client")
	}

	return PaymentClient{addr: addr, method: method, client: client}
}

type createIntentRequest struct {
	Amount entity.Money `json:"amount"`
}

type createIntentResponse struct {
	OrderID string `json:"order_id"`
}

type captureResponse struct {
	ConfirmationID string       `json:"confirmation_id"`
	Amount         entity.Money `json:"amount"`
}

func (c PaymentClient) CreateIntent(ctx context.Context, amount entity.Money) (entity.PaymentIntent, error) {
	var response createIntentResponse
	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPost,
		c.addr+"/payment-intents",
		"",
		createIntentRequest{Amount: amount},
		&response,
	)
	if err != nil {
		return entity.PaymentIntent{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return entity.PaymentIntent{}, fmt.Errorf("unexpected status code for POST /payment-intents: %d", status)
	}

	return entity.PaymentIntent{
		Method:          c.method,
		ProviderOrderID: response.OrderID,
		Amount:          amount,
	}, nil
}

func (c PaymentClient) Capture(ctx context.Context, intent entity.PaymentIntent) (entity.PaymentConfirmation, error) {
	var response captureResponse
	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPost,
		c.addr+"/payment-intents/"+intent.ProviderOrderID+"/capture",
		"",
		nil,
		&response,
	)
	if err != nil {
		return entity.PaymentConfirmation{}, err
	}
	if status != http.StatusOK {
		return entity.PaymentConfirmation{}, fmt.Errorf(
			"unexpected status code for POST /payment-intents/%s/capture: %d",
			intent.ProviderOrderID, status,
		)
	}

	return entity.PaymentConfirmation{
		ConfirmationID: response.ConfirmationID,
		Amount:         response.Amount,
	}, nil
}

func (c PaymentClient) Cancel(ctx context.Context, intent entity.PaymentIntent) error {
	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPost,
		c.addr+"/payment-intents/"+intent.ProviderOrderID+"/cancel",
		"",
		nil,
		nil,
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf(
			"unexpected status code for POST /payment-intents/%s/cancel: %d",
			intent.ProviderOrderID, status,
		)
	}

	return nil
}
