package model

import "io"

// LoginParams identifies an account by username or email and carries the
// plaintext password.
type LoginParams struct {
	Username string
	Email    string
	Password string
}

// RegisterParams describes a new account.
type RegisterParams struct {
	FirstName   string
	LastName    string
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	// Avatar is optional.
	Avatar *Upload
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Session is the result of a successful login or refresh.
type Session struct {
	Account      Account
	AccessToken  string
	RefreshToken string
}
