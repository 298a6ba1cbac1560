package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a tentative reservation: not a booking yet.
// Subtotal is always derived from UnitPrice and PartyCount, never stored.
type CartItem struct {
	ID         string    `json:"id"`
	TourID     string    `json:"tour_id"`
	TravelDate time.Time `json:"travel_date"`
	PartyCount int       `json:"party_count"`
	UnitPrice  Money     `json:"unit_price"`
}

func (i CartItem) Subtotal() Money {
	return i.UnitPrice.Mul(i.PartyCount)
}

// CartTotals is recomputed from the current items on every read, so a tax-rate
// change never leaves stale totals behind.
type CartTotals struct {
	Subtotal Money `json:"subtotal"`
	Tax      Money `json:"tax"`
	Total    Money `json:"total"`
}

func CalculateTotals(items []CartItem) CartTotals {
	if len(items) == 0 {
		return CartTotals{}
	}

	currency := items[0].UnitPrice.Currency

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal().Amount)
	}

	tax := subtotal.Mul(TaxRate).Round(2)

	return CartTotals{
		Subtotal: Money{Amount: subtotal, Currency: currency},
		Tax:      Money{Amount: tax, Currency: currency},
		Total:    Money{Amount: subtotal.Add(tax), Currency: currency},
	}
}
