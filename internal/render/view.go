package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

const cartTemplate = `{{define "cart"}}<div class="cart-header">
  <h2>Your Cart ({{.ItemCount}} items)</h2>
  <button class="remove-btn"><i class="ri-delete-bin-line"></i> Clear Cart</button>
</div>
<div class="cart-items">
{{- range .Items}}
<div class="cart-item" data-item-id="{{.ID}}">
  <div class="cart-item-image"><img src="{{.Image}}" alt="{{.Title}}"></div>
  <div class="cart-item-details">
    <h3 class="cart-item-title">{{.Title}}</h3>
    <div class="cart-item-price">{{.Price}}</div>
    <div class="quantity-controls">
      <button class="quantity-btn">-</button>
      <span class="quantity">{{.Quantity}}</span>
      <button class="quantity-btn">+</button>
    </div>
    <button class="remove-btn"><i class="ri-delete-bin-line"></i> Remove</button>
  </div>
</div>
{{- end}}
</div>
<div class="subtotal">{{.Subtotal}}</div>
<div class="total-amount">{{.Total}}</div>
{{end}}
{{define "badge"}}{{if gt .ItemCount 0}}<span class="cart-badge">{{.ItemCount}}</span>{{end}}{{end}}`

type itemView struct {
	ID       string
	Title    string
	Image    string
	Price    string
	Quantity int
}

type cartView struct {
	Items     []itemView
	ItemCount int
	Subtotal  string
	Total     string
}

// HTMLView keeps the current cart fragment and entry point badge. Each
// Render replaces both.
type HTMLView struct {
	tmpl   *template.Template
	prices PriceFormatter

	fragment string
	badge    string
}

func NewHTMLView(prices PriceFormatter) (*HTMLView, error) {
	tmpl, err := template.New("view").Parse(cartTemplate)
	if err != nil {
		return nil, fmt.Errorf("template.Parse: %w", err)
	}

	return &HTMLView{
		tmpl:   tmpl,
		prices: prices,
	}, nil
}

func (v *HTMLView) Render(summary domain.CartSummary) error {
	data := cartView{
		Items:     make([]itemView, 0, len(summary.Items)),
		ItemCount: summary.ItemCount,
		Subtotal:  v.prices.Format(summary.Subtotal),
		Total:     v.prices.Format(summary.Total),
	}
	for _, item := range summary.Items {
		data.Items = append(data.Items, itemView{
			ID:       item.ID.String(),
			Title:    item.Title,
			Image:    item.Image,
			Price:    v.prices.Format(item.Price.Amount),
			Quantity: item.Quantity,
		})
	}

	var fragment, badge bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&fragment, "cart", data); err != nil {
		return fmt.Errorf("execute cart template: %w", err)
	}
	if err := v.tmpl.ExecuteTemplate(&badge, "badge", data); err != nil {
		return fmt.Errorf("execute badge template: %w", err)
	}

	v.fragment = strings.TrimSpace(fragment.String())
	v.badge = badge.String()

	return nil
}

func (v *HTMLView) Fragment() string {
	return v.fragment
}

// Badge is empty when the cart holds nothing.
func (v *HTMLView) Badge() string {
	return v.badge
}
