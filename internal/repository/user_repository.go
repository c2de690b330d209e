package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

const (
	UsersKey          = "users"
	CurrentUserKey    = "currentUser"
	RememberedUserKey = "rememberedUser"
)

type userRepository struct {
	kv port.KVStore
}

func NewUser(kv port.KVStore) port.UserRepository {
	return &userRepository{kv: kv}
}

type userRecord struct {
	ID        domain.ID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *userRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := r.kv.Get(ctx, UsersKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	var records []userRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w: %w", domain.ErrCorruptSnapshot, err)
	}

	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		user, err := mapUserRecordToDomain(record)
		if err != nil {
			return nil, fmt.Errorf("mapUserRecordToDomain: %w: %w", domain.ErrCorruptSnapshot, err)
		}
		users = append(users, user)
	}

	return users, nil
}

// RegisterUser appends user to the stored list and makes it current. A list
// that cannot be read is never overwritten.
func (r *userRepository) RegisterUser(ctx context.Context, user domain.User) error {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("r.ListUsers: %w", err)
	}
	users = append(users, user)

	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, mapDomainToUserRecord(u))
	}

	rawUsers, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal users: %w", err)
	}

	rawCurrent, err := json.Marshal(mapDomainToUserRecord(user))
	if err != nil {
		return fmt.Errorf("json.Marshal current user: %w", err)
	}

	err = r.kv.SetMany(ctx, map[string][]byte{
		UsersKey:       rawUsers,
		CurrentUserKey: rawCurrent,
	})
	if err != nil {
		return fmt.Errorf("kv.SetMany: %w", err)
	}

	return nil
}

func (r *userRepository) GetCurrentUser(ctx context.Context) (domain.User, error) {
	raw, err := r.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("kv.Get: %w", err)
	}

	var record userRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.User{}, fmt.Errorf("json.Unmarshal: %w: %w", domain.ErrCorruptSnapshot, err)
	}

	user, err := mapUserRecordToDomain(record)
	if err != nil {
		return domain.User{}, fmt.Errorf("mapUserRecordToDomain: %w: %w", domain.ErrCorruptSnapshot, err)
	}

	return user, nil
}

func (r *userRepository) SetCurrentUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(mapDomainToUserRecord(user))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, CurrentUserKey, raw); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func (r *userRepository) DeleteCurrentUser(ctx context.Context) error {
	if err := r.kv.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

func (r *userRepository) GetRememberedEmail(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, RememberedUserKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("kv.Get: %w", err)
	}

	var email string
	if err := json.Unmarshal(raw, &email); err != nil {
		// older snapshots hold the bare address
		return string(raw), nil
	}

	return email, nil
}

func (r *userRepository) SetRememberedEmail(ctx context.Context, email string) error {
	raw, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, RememberedUserKey, raw); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func (r *userRepository) DeleteRememberedEmail(ctx context.Context) error {
	if err := r.kv.Delete(ctx, RememberedUserKey); err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

func mapDomainToUserRecord(user domain.User) userRecord {
	return userRecord{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Password:  user.Password,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func mapUserRecordToDomain(record userRecord) (domain.User, error) {
	if record.ID.IsZero() {
		return domain.User{}, errors.New("id is missing")
	}

	return domain.User{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		Password:  record.Password,
		CreatedAt: record.CreatedAt,
	}, nil
}
