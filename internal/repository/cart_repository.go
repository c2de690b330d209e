package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const CartKey = "cart"

type cartRepository struct {
	kv       port.KVStore
	currency currency.Unit
}

// NewCart stores the cart under CartKey. Prices are persisted as bare numbers,
// unit is the currency they are read back in.
func NewCart(kv port.KVStore, unit currency.Unit) port.CartRepository {
	return &cartRepository{
		kv:       kv,
		currency: unit,
	}
}

type cartItemRecord struct {
	ID       domain.ID   `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Quantity int         `json:"quantity"`
}

func (r *cartRepository) LoadCart(ctx context.Context) ([]domain.CartItem, error) {
	raw, err := r.kv.Get(ctx, CartKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	var records []cartItemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w: %w", domain.ErrCorruptSnapshot, err)
	}

	items, err := mapCartRecordsToDomain(records, r.currency)
	if err != nil {
		return nil, fmt.Errorf("mapCartRecordsToDomain: %w: %w", domain.ErrCorruptSnapshot, err)
	}

	return items, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, items []domain.CartItem) error {
	records := make([]cartItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapDomainToCartRecord(item))
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, CartKey, raw); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func mapDomainToCartRecord(item domain.CartItem) cartItemRecord {
	return cartItemRecord{
		ID:       item.ID,
		Title:    item.Title,
		Price:    json.Number(item.Price.Amount.String()),
		Image:    item.Image,
		Quantity: item.Quantity,
	}
}

func mapCartRecordToDomain(record cartItemRecord, unit currency.Unit) (domain.CartItem, error) {
	if record.ID.IsZero() {
		return domain.CartItem{}, errors.New("id is missing")
	}

	amount, err := decimal.NewFromString(record.Price.String())
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("price[%s] is not valid: %w", record.Price, err)
	}

	if record.Quantity < 1 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] is not positive", record.Quantity)
	}

	return domain.CartItem{
		ID:       record.ID,
		Title:    record.Title,
		Price:    domain.Money{Amount: amount, Currency: unit},
		Image:    record.Image,
		Quantity: record.Quantity,
	}, nil
}

func mapCartRecordsToDomain(records []cartItemRecord, unit currency.Unit) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0, len(records))
	seenIDs := make(map[domain.ID]struct{}, len(records))
	seenTitles := make(map[string]struct{}, len(records))

	for _, record := range records {
		item, err := mapCartRecordToDomain(record, unit)
		if err != nil {
			return nil, fmt.Errorf("mapCartRecordToDomain: %w", err)
		}

		if _, ok := seenIDs[item.ID]; ok {
			return nil, fmt.Errorf("id[%s] is duplicated", item.ID)
		}
		seenIDs[item.ID] = struct{}{}

		if _, ok := seenTitles[item.Title]; ok {
			return nil, fmt.Errorf("title[%s] is duplicated", item.Title)
		}
		seenTitles[item.Title] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}
