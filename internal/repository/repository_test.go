package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

var pkr = currency.MustParseISO("PKR")

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_kv_entries.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

// kvFactories lists the local KV backends that need no container.
func kvFactories() map[string]func(t *testing.T) port.KVStore {
	return map[string]func(t *testing.T) port.KVStore{
		"memory": func(t *testing.T) port.KVStore {
			return repository.NewMemoryKV()
		},
		"sqlite": func(t *testing.T) port.KVStore {
			kv, err := repository.OpenSQLiteKV(filepath.Join(t.TempDir(), "storefront.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = kv.Close() })
			return kv
		},
	}
}

func randomCartItem() domain.CartItem {
	return domain.CartItem{
		ID:       domain.IDFromUUID(uuid.MustParse(gofakeit.UUID())),
		Title:    gofakeit.ProductName() + " " + gofakeit.UUID(),
		Price:    randomMoney(),
		Image:    gofakeit.URL(),
		Quantity: gofakeit.IntRange(1, 5),
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
		Currency: pkr,
	}
}

func currencyComparer() cmp.Option {
	return cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
}
