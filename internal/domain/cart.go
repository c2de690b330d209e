package domain

import "github.com/shopspring/decimal"

type CartItem struct {
	ID       ID
	Title    string
	Price    Money
	Image    string
	Quantity int
}

func (i CartItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

// CatalogEntry is what a product card offers to the cart.
type CatalogEntry struct {
	Title      string
	Price      Money
	Image      string
	HoverImage string
}

type CartSummary struct {
	Items     []CartItem
	ItemCount int
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
}
