package model

import "github.com/google/uuid"

// TokenIssuer mints and verifies access and refresh tokens.
type TokenIssuer interface {
	IssueAccessToken(accountID uuid.UUID, username string) (string, error)
	IssueRefreshToken(accountID uuid.UUID, username string) (string, error)
	VerifyAccessToken(token string) (Claims, error)
	VerifyRefreshToken(token string) (Claims, error)
}

// Claims are the identity claims embedded in both token kinds.
type Claims struct {
	AccountID uuid.UUID
	Username  string
}

// Identity is the authenticated principal attached to a request.
type Identity = Claims

// TokenPair is a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
