package model

import "errors"

var (
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrStaleRefreshToken  = errors.New("refresh token does not match stored value")
	ErrMissingAccessToken = errors.New("access token missing")
)
