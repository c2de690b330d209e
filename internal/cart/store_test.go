package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/currency"
)

var pkr = currency.MustParseISO("PKR")

type recordingView struct {
	renders []domain.CartSummary
}

func (v *recordingView) Render(summary domain.CartSummary) error {
	v.renders = append(v.renders, summary)
	return nil
}

func (v *recordingView) last() domain.CartSummary {
	return v.renders[len(v.renders)-1]
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ domain.NotificationKind, message string) {
	n.messages = append(n.messages, message)
}

type failingRepo struct {
	port.CartRepository
}

func (failingRepo) SaveCart(context.Context, []domain.CartItem) error {
	return errors.New("disk full")
}

type fixture struct {
	kv       *repository.MemoryKV
	repo     port.CartRepository
	view     *recordingView
	notifier *recordingNotifier
	store    *cart.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	kv := repository.NewMemoryKV()
	f := fixture{
		kv:       kv,
		repo:     repository.NewCart(kv, pkr),
		view:     &recordingView{},
		notifier: &recordingNotifier{},
	}
	f.store = cart.New(f.repo, f.view, f.notifier, cart.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, f.store.Restore(t.Context()))

	return f
}

func entry(title string, price int64) domain.CatalogEntry {
	return domain.CatalogEntry{
		Title: title,
		Price: domain.Money{Amount: decimal.NewFromInt(price), Currency: pkr},
		Image: "/images/" + title + ".jpg",
	}
}

func TestAddSameTitleIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))
	require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1000).Equal(f.store.Total()), "total %s", f.store.Total())

	assert.Equal(t, []string{cart.AddedMessage, cart.AddedMessage}, f.notifier.messages)
}

func TestAddAssignsFreshIDs(t *testing.T) {
	ids := []domain.ID{
		domain.IDFromUUID(uuid.MustParse(gofakeit.UUID())),
		domain.IDFromUUID(uuid.MustParse(gofakeit.UUID())),
	}
	next := 0

	kv := repository.NewMemoryKV()
	store := cart.New(repository.NewCart(kv, pkr), nil, nil,
		cart.WithIDGenerator(func() domain.ID {
			id := ids[next]
			next++
			return id
		}))

	ctx := t.Context()
	require.NoError(t, store.Add(ctx, entry("Shirt", 500)))
	require.NoError(t, store.Add(ctx, entry("Hat", 250)))
	require.NoError(t, store.Add(ctx, entry("Hat", 250)))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, ids[0], items[0].ID)
	assert.Equal(t, ids[1], items[1].ID)
	assert.Equal(t, 2, next, "merge must not consume an id")
}

func TestDecrementToZeroRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.store.Add(ctx, entry("Hat", 250)))
	hatID := f.store.Items()[0].ID

	require.NoError(t, f.store.SetQuantity(ctx, hatID, -1))

	assert.Empty(t, f.store.Items())
	assert.True(t, decimal.Zero.Equal(f.store.Total()))
	assert.Equal(t, 0, f.view.last().ItemCount)
	// removal is silent
	assert.Equal(t, []string{cart.AddedMessage}, f.notifier.messages)
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		delta     int
		unknownID bool
		wantQty   int
		wantError bool
	}{
		{name: "increase: ok", delta: 1, wantQty: 3},
		{name: "decrease: ok", delta: -1, wantQty: 1},
		{name: "unknown id: no-op", delta: 1, unknownID: true, wantQty: 2},
		{name: "step of two: error", delta: 2, wantQty: 2, wantError: true},
		{name: "zero step: error", delta: 0, wantQty: 2, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := t.Context()

			require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))
			require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))
			renders := len(f.view.renders)

			id := f.store.Items()[0].ID
			if tt.unknownID {
				id = domain.IDFromUUID(uuid.MustParse(gofakeit.UUID()))
			}

			err := f.store.SetQuantity(ctx, id, tt.delta)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantQty, f.store.Items()[0].Quantity)
			if tt.unknownID || tt.wantError {
				assert.Len(t, f.view.renders, renders, "no render expected")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))
	require.NoError(t, f.store.Add(ctx, entry("Hat", 250)))
	require.NoError(t, f.store.Add(ctx, entry("Socks", 100)))

	hatID := f.store.Items()[1].ID
	require.NoError(t, f.store.Remove(ctx, hatID))

	titles := []string{}
	for _, item := range f.store.Items() {
		assert.NotEqual(t, hatID, item.ID)
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"Shirt", "Socks"}, titles)

	// unknown id is ignored
	require.NoError(t, f.store.Remove(ctx, hatID))
	assert.Len(t, f.store.Items(), 2)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	require.NoError(t, f.store.Add(ctx, entry("Shirt", 500)))
	require.NoError(t, f.store.Add(ctx, entry("Hat", 250)))
	require.NoError(t, f.store.Clear(ctx))

	assert.Empty(t, f.store.Items())
	assert.Equal(t, 0, f.store.Count())

	stored, err := f.repo.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRemoveThenRestoreRoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	for i := 0; i < 5; i++ {
		require.NoError(t, f.store.Add(ctx, entry(gofakeit.UUID(), int64(gofakeit.IntRange(1, 5000)))))
	}
	require.NoError(t, f.store.SetQuantity(ctx, f.store.Items()[3].ID, 1))
	require.NoError(t, f.store.Remove(ctx, f.store.Items()[1].ID))

	restored := cart.New(f.repo, &recordingView{}, nil)
	require.NoError(t, restored.Restore(ctx))

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
	assert.Empty(t, cmp.Diff(f.store.Items(), restored.Items(), currencyComparer))
	assert.True(t, f.store.Total().Equal(restored.Total()))
}

func TestRestoreCorruptStartsEmpty(t *testing.T) {
	ctx := t.Context()
	kv := repository.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, repository.CartKey, []byte("{broken")))

	view := &recordingView{}
	store := cart.New(repository.NewCart(kv, pkr), view, nil, cart.WithLogger(zaptest.NewLogger(t)))

	require.NoError(t, store.Restore(ctx))
	assert.Empty(t, store.Items())
	require.Len(t, view.renders, 1)
	assert.Equal(t, 0, view.last().ItemCount)
}

func TestRestoreKeepsNumericIDs(t *testing.T) {
	ctx := t.Context()
	kv := repository.NewMemoryKV()
	stored := `[{"id":1712345678901.42,"title":"Shirt","price":500,"image":"/images/Shirt.jpg","quantity":2}]`
	require.NoError(t, kv.Set(ctx, repository.CartKey, []byte(stored)))

	store := cart.New(repository.NewCart(kv, pkr), &recordingView{}, nil, cart.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, store.Restore(ctx))

	require.Len(t, store.Items(), 1)
	shirtID, err := domain.ParseID("1712345678901.42")
	require.NoError(t, err)
	assert.Equal(t, shirtID, store.Items()[0].ID)

	require.NoError(t, store.Add(ctx, entry("Hat", 250)))
	require.NoError(t, store.Add(ctx, entry("Shirt", 500)))
	require.NoError(t, store.SetQuantity(ctx, shirtID, -1))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Shirt", items[0].Title)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Hat", items[1].Title)
	assert.True(t, decimal.NewFromInt(1250).Equal(store.Total()))

	raw, err := kv.Get(ctx, repository.CartKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":1712345678901.42,`)
}

func TestPersistFailureStillRenders(t *testing.T) {
	view := &recordingView{}
	store := cart.New(failingRepo{}, view, nil, cart.WithLogger(zaptest.NewLogger(t)))

	err := store.Add(t.Context(), entry("Shirt", 500))
	require.ErrorContains(t, err, "disk full")

	require.Len(t, view.renders, 1)
	assert.Equal(t, 1, view.last().ItemCount)
	assert.Len(t, store.Items(), 1)
}

func TestTotalNeverDrifts(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	titles := []string{"Shirt", "Hat", "Socks", "Scarf"}
	prices := map[string]int64{"Shirt": 500, "Hat": 250, "Socks": 120, "Scarf": 999}

	for step := 0; step < 200; step++ {
		items := f.store.Items()

		switch op := gofakeit.IntRange(0, 3); {
		case op == 0 || len(items) == 0:
			title := titles[gofakeit.IntRange(0, len(titles)-1)]
			require.NoError(t, f.store.Add(ctx, entry(title, prices[title])))
		case op == 1:
			require.NoError(t, f.store.SetQuantity(ctx, items[gofakeit.IntRange(0, len(items)-1)].ID, 1))
		case op == 2:
			require.NoError(t, f.store.SetQuantity(ctx, items[gofakeit.IntRange(0, len(items)-1)].ID, -1))
		default:
			require.NoError(t, f.store.Remove(ctx, items[gofakeit.IntRange(0, len(items)-1)].ID))
		}

		want := decimal.Zero
		count := 0
		seen := map[string]bool{}
		for _, item := range f.store.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1)
			require.False(t, seen[item.Title], "duplicate title %s", item.Title)
			seen[item.Title] = true

			want = want.Add(item.Price.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
			count += item.Quantity
		}

		require.True(t, want.Equal(f.store.Total()), "step %d: want %s got %s", step, want, f.store.Total())
		require.True(t, want.Equal(f.view.last().Total))
		require.Equal(t, count, f.view.last().ItemCount)
	}
}
