package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// TokenService provides high-level operations for issuing, rotating,
// and revoking tokens. It composes the TokenIssuer and AccountStore.
type TokenService struct {
	issuer model.TokenIssuer
	store  model.AccountStore
	logger *logger.Logger
}

func NewTokenService(issuer model.TokenIssuer, store model.AccountStore, logger *logger.Logger) *TokenService {
	return &TokenService{issuer: issuer, store: store, logger: logger}
}

// Issue mints a token pair for account and persists the refresh token as the
// account's only valid one.
func (s *TokenService) Issue(ctx context.Context, account model.Account) (model.TokenPair, error) {
	pair, err := s.mint(account)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.store.UpdateRefreshToken(ctx, account.ID, &pair.RefreshToken); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return pair, nil
}

// Rotate exchanges a presented refresh token for a new pair. It returns
// model.ErrTokenInvalid or model.ErrTokenExpired when the token does not
// verify, model.ErrNotFound when the account is gone and
// model.ErrStaleRefreshToken when the token is not the stored one, including
// when a concurrent rotation won.
func (s *TokenService) Rotate(ctx context.Context, presented string) (model.Account, model.TokenPair, error) {
	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		return model.Account{}, model.TokenPair{}, err
	}

	account, err := s.store.FindByID(ctx, claims.AccountID)
	if err != nil {
		return model.Account{}, model.TokenPair{}, err
	}

	if !account.HasRefreshToken() || !equalTokens(*account.RefreshToken, presented) {
		s.logger.Warn("Token service: presented refresh token does not match stored one",
			"account_id", account.ID,
			"revoked", !account.HasRefreshToken())
		return model.Account{}, model.TokenPair{}, model.ErrStaleRefreshToken
	}

	pair, err := s.mint(account)
	if err != nil {
		return model.Account{}, model.TokenPair{}, err
	}

	if err := s.store.RotateRefreshToken(ctx, account.ID, presented, pair.RefreshToken); err != nil {
		s.logger.Warn("Token service: refresh token rotation failed",
			"account_id", account.ID,
			"error", err.Error())
		return model.Account{}, model.TokenPair{}, err
	}

	s.logger.Debug("Token service: refresh token rotated",
		"account_id", account.ID)

	account.RefreshToken = &pair.RefreshToken
	return account, pair, nil
}

// Revoke clears the stored refresh token. Revoking an account without one
// is not an error.
func (s *TokenService) Revoke(ctx context.Context, accountID uuid.UUID) error {
	if err := s.store.UpdateRefreshToken(ctx, accountID, nil); err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}

	s.logger.Debug("Token service: refresh token revoked",
		"account_id", accountID)
	return nil
}

// Authenticate verifies an access token and returns the identity it carries.
func (s *TokenService) Authenticate(_ context.Context, accessToken string) (model.Identity, error) {
	if accessToken == "" {
		return model.Identity{}, model.ErrMissingAccessToken
	}
	return s.issuer.VerifyAccessToken(accessToken)
}

func (s *TokenService) mint(account model.Account) (model.TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(account.ID, account.Username)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.issuer.IssueRefreshToken(account.ID, account.Username)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func equalTokens(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
