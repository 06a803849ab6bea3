package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	// UpdateRefreshToken overwrites the stored refresh token; nil clears it.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	// RotateRefreshToken replaces presented with next only if presented is
	// still the stored value. Returns ErrStaleRefreshToken otherwise.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, presented, next string) error
	SetTwoStepEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	// UpdatePassword replaces the password hash and clears the refresh token.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// UpdatePhoneNumber replaces the phone number and turns two-step
	// verification off until the new number is verified.
	UpdatePhoneNumber(ctx context.Context, id uuid.UUID, phoneNumber string) error
}

// Account represents a registered user with authentication material.
type Account struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Username       string
	Email          string
	PasswordHash   string
	PhoneNumber    string
	TwoStepEnabled bool
	Avatar         Avatar
	RefreshToken   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Avatar points to an uploaded profile image.
type Avatar struct {
	Key string
	URL string
}

// HasRefreshToken reports whether the account holds an active refresh token.
func (a Account) HasRefreshToken() bool {
	return a.RefreshToken != nil && *a.RefreshToken != ""
}
