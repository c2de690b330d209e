package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
)

const (
	minNameLength     = 2
	minPhoneLength    = 10
	minPasswordLength = 6

	LoginSucceeded    = "Login successful!"
	RegisterSucceeded = "Account created successfully!"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegisterRequest struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AgreeTerms      bool
}

type LoginRequest struct {
	Email      string
	Password   string
	RememberMe bool
}

// Manager runs the demo account flow. Passwords are compared as stored.
type Manager struct {
	users    port.UserRepository
	notifier port.Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() domain.ID
}

type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(users port.UserRepository, notifier port.Notifier, opts ...Option) *Manager {
	m := &Manager{
		users:    users,
		notifier: notifier,
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    domain.NewID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	if err := validateRegistration(name, email, phone, req); err != nil {
		return domain.User{}, m.reject(err)
	}

	users, err := m.listUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if _, ok := findByEmail(users, email); ok {
		return domain.User{}, m.reject(domain.NewValidationError("User with this email already exists. Please login instead."))
	}

	user := domain.User{
		ID:        m.newID(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Password:  req.Password,
		CreatedAt: m.now().UTC(),
	}

	if err := m.users.RegisterUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("users.RegisterUser: %w", err)
	}

	m.logger.Info("user registered", zap.Stringer("userID", user.ID))
	m.notify(domain.NotificationSuccess, RegisterSucceeded)

	return user, nil
}

func (m *Manager) Login(ctx context.Context, req LoginRequest) (domain.User, error) {
	email := strings.TrimSpace(req.Email)

	if !ValidEmail(email) {
		return domain.User{}, m.reject(domain.NewValidationError("Please enter a valid email address"))
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return domain.User{}, m.reject(domain.NewValidationError("Password must be at least 6 characters long"))
	}

	users, err := m.listUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}

	user, ok := findByEmail(users, email)
	if !ok {
		return domain.User{}, m.reject(domain.NewValidationError("User not found. Please check your email or register."))
	}
	if user.Password != req.Password {
		return domain.User{}, m.reject(domain.NewValidationError("Incorrect password. Please try again."))
	}

	if err := m.users.SetCurrentUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("users.SetCurrentUser: %w", err)
	}

	if req.RememberMe {
		err = m.users.SetRememberedEmail(ctx, email)
	} else {
		err = m.users.DeleteRememberedEmail(ctx)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("remember email: %w", err)
	}

	m.logger.Info("user logged in", zap.Stringer("userID", user.ID))
	m.notify(domain.NotificationSuccess, LoginSucceeded)

	return user, nil
}

// SocialLogin is not available in the demo and always fails.
func (m *Manager) SocialLogin(provider string) error {
	return m.reject(domain.NewValidationError(
		fmt.Sprintf("%s login is not implemented in this demo. Please use email/password.", provider)))
}

// CurrentUser reports false when nobody is logged in or the stored record
// cannot be read.
func (m *Manager) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	user, err := m.users.GetCurrentUser(ctx)
	switch {
	case err == nil:
		return user, true, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.User{}, false, nil
	case errors.Is(err, domain.ErrCorruptSnapshot):
		m.logger.Warn("stored current user is unreadable", zap.Error(err))
		return domain.User{}, false, nil
	default:
		return domain.User{}, false, fmt.Errorf("users.GetCurrentUser: %w", err)
	}
}

func (m *Manager) IsLoggedIn(ctx context.Context) (bool, error) {
	_, ok, err := m.CurrentUser(ctx)
	return ok, err
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.users.DeleteCurrentUser(ctx); err != nil {
		return fmt.Errorf("users.DeleteCurrentUser: %w", err)
	}
	return nil
}

func (m *Manager) RememberedEmail(ctx context.Context) (string, bool, error) {
	email, err := m.users.GetRememberedEmail(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("users.GetRememberedEmail: %w", err)
	}
	return email, true, nil
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateRegistration(name, email, phone string, req RegisterRequest) error {
	switch {
	case utf8.RuneCountInString(name) < minNameLength:
		return domain.NewValidationError("Name must be at least 2 characters long")
	case !ValidEmail(email):
		return domain.NewValidationError("Please enter a valid email address")
	case utf8.RuneCountInString(phone) < minPhoneLength:
		return domain.NewValidationError("Please enter a valid phone number")
	case utf8.RuneCountInString(req.Password) < minPasswordLength:
		return domain.NewValidationError("Password must be at least 6 characters long")
	case req.Password != req.ConfirmPassword:
		return domain.NewValidationError("Passwords do not match")
	case !req.AgreeTerms:
		return domain.NewValidationError("Please agree to the Terms & Conditions")
	}
	return nil
}

func (m *Manager) listUsers(ctx context.Context) ([]domain.User, error) {
	users, err := m.users.ListUsers(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			m.logger.Warn("stored users are unreadable, treating as empty", zap.Error(err))
			return nil, nil
		}
		return nil, fmt.Errorf("users.ListUsers: %w", err)
	}
	return users, nil
}

func (m *Manager) reject(err error) error {
	m.notify(domain.NotificationError, err.Error())
	return err
}

func (m *Manager) notify(kind domain.NotificationKind, message string) {
	if m.notifier != nil {
		m.notifier.Notify(kind, message)
	}
}

func findByEmail(users []domain.User, email string) (domain.User, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}
