package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("party count must be at least 1")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotFound         = errors.New("not found")

	// ErrPaymentInFlight guards against double capture: a capture is already
	// running for this checkout session.
	ErrPaymentInFlight = errors.New("payment capture already in progress")
)

// ValidationError blocks a checkout transition. Field names map to the reason
// the field was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		fields = append(fields, fmt.Sprintf("%s: %s", field, reason))
	}
	sort.Strings(fields)

	return "validation failed: " + strings.Join(fields, ", ")
}
