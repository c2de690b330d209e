package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

type postgresKV struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgresKV(pool *pgxpool.Pool) port.KVStore {
	return &postgresKV{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewPostgresKVWithTx(tx pgx.Tx) port.KVStore {
	return &postgresKV{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (s *postgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	entry, err := s.q.GetEntry(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("q.GetEntry: %w", err)
	}

	return entry.Value, nil
}

func (s *postgresKV) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	err := s.q.UpsertEntry(ctx, db.UpsertEntryParams{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertEntry: %w", err)
	}

	return nil
}

func (s *postgresKV) SetMany(ctx context.Context, entries map[string][]byte) error {
	keys, err := sortedKeys(entries)
	if err != nil {
		return err
	}

	_, err = withTx(ctx, s.pool, s.q, func(q *db.Queries) (int, error) {
		for _, key := range keys {
			err := q.UpsertEntry(ctx, db.UpsertEntryParams{
				Key:   key,
				Value: entries[key],
			})
			if err != nil {
				return 0, fmt.Errorf("q.UpsertEntry[%s]: %w", key, err)
			}
		}
		return len(keys), nil
	})
	if err != nil {
		return fmt.Errorf("withTx: %w", err)
	}

	return nil
}

func (s *postgresKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.q.DeleteEntry(ctx, key); err != nil {
		return fmt.Errorf("q.DeleteEntry: %w", err)
	}

	return nil
}

// sortedKeys fixes the write order so concurrent SetMany calls lock rows
// in the same sequence.
func sortedKeys(entries map[string][]byte) ([]string, error) {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		if key == "" {
			return nil, fmt.Errorf("key is empty")
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}
