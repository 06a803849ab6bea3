package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/model"
)

// Claims represents JWT claims with token type and account identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	TokenType string    `json:"typ"`
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Key is a signing secret together with the lifetime of tokens signed by it.
type Key struct {
	Secret    string
	ExpiresIn time.Duration
}

// JWT implements TokenIssuer backed by symmetric HMAC with separate keys for
// access and refresh tokens.
type JWT struct {
	access  Key
	refresh Key
	now     func() time.Time
}

var _ model.TokenIssuer = (*JWT)(nil)

// NewJWT creates a new JWT token issuer.
func NewJWT(access, refresh Key) *JWT {
	return &JWT{access: access, refresh: refresh, now: time.Now}
}

// IssueAccessToken creates a short-lived access token.
func (j *JWT) IssueAccessToken(accountID uuid.UUID, username string) (string, error) {
	tokenString, err := j.issue(j.access, typeAccess, accountID, username)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// IssueRefreshToken creates a long-lived refresh token.
func (j *JWT) IssueRefreshToken(accountID uuid.UUID, username string) (string, error) {
	tokenString, err := j.issue(j.refresh, typeRefresh, accountID, username)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (j *JWT) VerifyAccessToken(tokenString string) (model.Claims, error) {
	return j.verify(tokenString, j.access, typeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (j *JWT) VerifyRefreshToken(tokenString string) (model.Claims, error) {
	return j.verify(tokenString, j.refresh, typeRefresh)
}

func (j *JWT) issue(key Key, tokenType string, accountID uuid.UUID, username string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two tokens minted within the same second distinct.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ExpiresIn)),
		},
		AccountID: accountID,
		Username:  username,
		TokenType: tokenType,
	})

	return token.SignedString([]byte(key.Secret))
}

func (j *JWT) verify(tokenString string, key Key, tokenType string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(key.Secret), nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return model.Claims{}, model.ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return model.Claims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenInvalid, claims.TokenType)
	}
	if claims.AccountID == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: missing account id", model.ErrTokenInvalid)
	}

	return model.Claims{AccountID: claims.AccountID, Username: claims.Username}, nil
}
