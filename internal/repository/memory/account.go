// Package memory provides an in-process AccountStore for local development
// and tests. All state is lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]model.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[uuid.UUID]model.Account)}
}

func (r *AccountRepository) FindByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return clone(account), nil
}

func (r *AccountRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		byEmail model.Account
		found   bool
	)
	for _, account := range r.accounts {
		if username != "" && account.Username == username {
			return clone(account), nil
		}
		if email != "" && account.Email == email {
			byEmail, found = account, true
		}
	}
	if !found {
		return model.Account{}, model.ErrNotFound
	}
	return clone(byEmail), nil
}

func (r *AccountRepository) Create(_ context.Context, account model.Account) (model.Account, error) {
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return model.Account{}, model.ErrConflict
		}
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = clone(account)

	return clone(account), nil
}

func (r *AccountRepository) UpdateRefreshToken(_ context.Context, id uuid.UUID, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil
	}
	account.RefreshToken = copyString(token)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func (r *AccountRepository) RotateRefreshToken(_ context.Context, id uuid.UUID, presented, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.RefreshToken == nil || *account.RefreshToken != presented {
		return model.ErrStaleRefreshToken
	}
	account.RefreshToken = &next
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func (r *AccountRepository) SetTwoStepEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return model.ErrNotFound
	}
	account.TwoStepEnabled = enabled
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return model.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.RefreshToken = nil
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func (r *AccountRepository) UpdatePhoneNumber(_ context.Context, id uuid.UUID, phoneNumber string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return model.ErrNotFound
	}
	account.PhoneNumber = phoneNumber
	account.TwoStepEnabled = false
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return nil
}

func clone(a model.Account) model.Account {
	a.RefreshToken = copyString(a.RefreshToken)
	return a
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
