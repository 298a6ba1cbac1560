package entity

// PaymentIntent is created when the traveler picks a payment method and is
// consumed exactly once by a successful capture.
type PaymentIntent struct {
	Method          string `json:"method"`
	ProviderOrderID string `json:"provider_order_id"`
	Amount          Money  `json:"amount"`
}

// PaymentConfirmation is the provider-issued proof that the payment was captured.
type PaymentConfirmation struct {
	ConfirmationID string `json:"confirmation_id"`
	Amount         Money  `json:"amount"`
}
