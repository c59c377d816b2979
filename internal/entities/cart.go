package entities

import (
	"math"
	"time"
)

type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Product is populated on reads that join the catalog.
	Product *Product
}

// CartSummary is the server-computed price breakdown for a set of cart items.
type CartSummary struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

func SummarizeCart(items []CartItem) CartSummary {
	var subtotal float64
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		subtotal += it.Product.Price * float64(it.Quantity)
	}
	return CartSummary{
		Subtotal: round2(subtotal),
		Tax:      round2(subtotal * TaxRate),
		Total:    round2(subtotal * (1 + TaxRate)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
