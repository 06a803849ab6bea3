package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/api/apierrors"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// dummyHash is verified against when the account does not exist, so that
// unknown identifiers cost the same KDF work as a wrong password.
const dummyHash = "00000000000000000000000000000000:" +
	"0000000000000000000000000000000000000000000000000000000000000000" +
	"0000000000000000000000000000000000000000000000000000000000000000"

// e164 matches phone numbers in the form Twilio Verify accepts.
var e164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

type Auth struct {
	accounts     model.AccountStore
	hasher       model.PasswordHasher
	tokenService *TokenService
	storage      model.Storage
	verifier     model.Verifier
	logger       *logger.Logger
}

// NewAuth creates the session lifecycle service. storage and verifier are
// optional; without them avatars are not stored and two-step verification
// is unavailable.
func NewAuth(
	accounts model.AccountStore,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	storage model.Storage,
	verifier model.Verifier,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accounts:     accounts,
		hasher:       hasher,
		tokenService: tokenService,
		storage:      storage,
		verifier:     verifier,
		logger:       logger,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Account, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if params.FirstName == "" || params.LastName == "" || params.Username == "" ||
		params.Email == "" || params.Password == "" {
		return model.Account{}, apierrors.NewBadRequest("firstName, lastName, username, email and password are required")
	}
	if params.Avatar != nil && !strings.HasPrefix(params.Avatar.ContentType, "image/") {
		return model.Account{}, apierrors.NewBadRequest("avatar must be an image")
	}

	a.logger.Debug("Auth service: registering account",
		"username", params.Username)

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := model.Account{
		ID:           uuid.New(),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(params.PhoneNumber),
	}

	if params.Avatar != nil {
		avatar, err := a.uploadAvatar(ctx, account.ID, params.Avatar)
		if err != nil {
			return model.Account{}, err
		}
		account.Avatar = avatar
	}

	saved, err := a.accounts.Create(ctx, account)
	if err != nil {
		if account.Avatar.Key != "" {
			a.discardAvatar(ctx, account.Avatar.Key)
		}
		if errors.Is(err, model.ErrConflict) {
			return model.Account{}, apierrors.NewConflict("user with this username or email already exists", err)
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	a.logger.Info("Auth service: account registered",
		"account_id", saved.ID,
		"username", saved.Username)

	return saved, nil
}

func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.Session, error) {
	if params.Password == "" || (params.Username == "" && params.Email == "") {
		return model.Session{}, apierrors.NewBadRequest("username or email and password are required")
	}

	account, err := a.accounts.FindByUsernameOrEmail(ctx, params.Username, params.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_, _ = a.hasher.Verify(params.Password, dummyHash)
			a.logger.Info("Auth service: login for unknown account",
				"username", params.Username,
				"email", params.Email)
			return model.Session{}, apierrors.NewInvalidCredentials(apierrors.KindNotFound, err)
		}
		return model.Session{}, fmt.Errorf("failed to get account: %w", err)
	}

	ok, err := a.hasher.Verify(params.Password, account.PasswordHash)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: wrong password",
			"account_id", account.ID)
		return model.Session{}, apierrors.NewInvalidCredentials(apierrors.KindBadRequest, nil)
	}

	pair, err := a.tokenService.Issue(ctx, account)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	account.RefreshToken = &pair.RefreshToken

	a.logger.Info("Auth service: account logged in",
		"account_id", account.ID)

	return model.Session{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	if refreshToken == "" {
		return model.Session{}, apierrors.NewBadRequest("refresh token is required")
	}

	account, pair, err := a.tokenService.Rotate(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenExpired):
			return model.Session{}, apierrors.NewUnauthorized("invalid refresh token", err)
		case errors.Is(err, model.ErrNotFound):
			return model.Session{}, apierrors.NewNotFound("user not found", err)
		case errors.Is(err, model.ErrStaleRefreshToken):
			a.logger.Warn("Auth service: refresh token is expired or used",
				"error", err.Error())
			return model.Session{}, apierrors.NewForbidden("refresh token is expired or used", err)
		default:
			return model.Session{}, fmt.Errorf("failed to rotate refresh token: %w", err)
		}
	}

	a.logger.Info("Auth service: tokens refreshed",
		"account_id", account.ID)

	return model.Session{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (a *Auth) Logout(ctx context.Context, accountID uuid.UUID) error {
	if accountID == uuid.Nil {
		return apierrors.NewBadRequest("user is not authenticated")
	}

	if err := a.tokenService.Revoke(ctx, accountID); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}

	a.logger.Info("Auth service: account logged out",
		"account_id", accountID)

	return nil
}

func (a *Auth) GetAccount(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	account, err := a.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, apierrors.NewNotFound("user not found", err)
		}
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ChangePassword replaces the password after checking the old one. The
// stored refresh token is dropped with it, so other sessions cannot refresh.
func (a *Auth) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) error {
	if accountID == uuid.Nil {
		return apierrors.NewBadRequest("user is not authenticated")
	}
	if oldPassword == "" || newPassword == "" {
		return apierrors.NewBadRequest("old password and new password are required")
	}

	account, err := a.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	ok, err := a.hasher.Verify(oldPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: wrong password on change",
			"account_id", accountID)
		return apierrors.NewBadRequest("password is not correct")
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("user not found", err)
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password changed",
		"account_id", accountID)

	return nil
}

// UpdatePhoneNumber sets the number used for two-step verification.
// Two-step verification is switched off until the new number is checked.
func (a *Auth) UpdatePhoneNumber(ctx context.Context, accountID uuid.UUID, phoneNumber string) error {
	if accountID == uuid.Nil {
		return apierrors.NewBadRequest("user is not authenticated")
	}
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return apierrors.NewBadRequest("phone number is required")
	}
	if !e164.MatchString(phoneNumber) {
		return apierrors.NewBadRequest("phone number must be in E.164 format")
	}

	if err := a.accounts.UpdatePhoneNumber(ctx, accountID, phoneNumber); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewNotFound("user not found", err)
		}
		return fmt.Errorf("failed to update phone number: %w", err)
	}

	a.logger.Info("Auth service: phone number updated",
		"account_id", accountID)

	return nil
}

func (a *Auth) SendVerificationCode(ctx context.Context, accountID uuid.UUID, method model.DeliveryMethod) (string, error) {
	if a.verifier == nil {
		return "", errors.New("verification is not configured")
	}
	if method != model.DeliverySMS && method != model.DeliveryWhatsApp {
		return "", apierrors.NewBadRequest("deliveryMethod must be sms or whatsapp")
	}

	account, err := a.GetAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	if account.PhoneNumber == "" {
		return "", apierrors.NewBadRequest("phone number is not registered")
	}

	status, err := a.verifier.SendCode(ctx, account.PhoneNumber, method)
	if err != nil {
		return "", fmt.Errorf("failed to send verification code: %w", err)
	}

	a.logger.Info("Auth service: verification code sent",
		"account_id", accountID,
		"method", string(method),
		"status", status)

	return status, nil
}

func (a *Auth) CheckVerificationCode(ctx context.Context, accountID uuid.UUID, code string) (model.Account, error) {
	if a.verifier == nil {
		return model.Account{}, errors.New("verification is not configured")
	}
	if code == "" {
		return model.Account{}, apierrors.NewBadRequest("code is required")
	}

	account, err := a.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}
	if account.PhoneNumber == "" {
		return model.Account{}, apierrors.NewBadRequest("phone number is not registered")
	}

	status, err := a.verifier.CheckCode(ctx, account.PhoneNumber, code)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to check verification code: %w", err)
	}
	if status != model.VerificationApproved {
		return model.Account{}, apierrors.NewBadRequest("invalid verification code")
	}

	if err := a.accounts.SetTwoStepEnabled(ctx, accountID, true); err != nil {
		return model.Account{}, fmt.Errorf("failed to enable two-step verification: %w", err)
	}
	account.TwoStepEnabled = true

	a.logger.Info("Auth service: two-step verification enabled",
		"account_id", accountID)

	return account, nil
}

func (a *Auth) uploadAvatar(ctx context.Context, accountID uuid.UUID, upload *model.Upload) (model.Avatar, error) {
	if a.storage == nil {
		a.logger.Warn("Auth service: storage disabled, avatar ignored",
			"account_id", accountID)
		return model.Avatar{}, nil
	}

	key := "avatars/" + accountID.String() + strings.ToLower(path.Ext(upload.Filename))
	if err := a.storage.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return model.Avatar{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return model.Avatar{Key: key, URL: a.storage.URL(key)}, nil
}

func (a *Auth) discardAvatar(ctx context.Context, key string) {
	if err := a.storage.Delete(ctx, key); err != nil {
		a.logger.Warn("Auth service: failed to remove orphaned avatar",
			"key", key,
			"error", err.Error())
	}
}
