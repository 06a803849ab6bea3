package handler

import (
	"time"

	"github.com/dtroode/blog-server/internal/model"
)

type accountResponse struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	TwoStepEnabled bool      `json:"twoStepEnabled"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// newAccountResponse never copies the password hash or the refresh token.
func newAccountResponse(a model.Account) accountResponse {
	return accountResponse{
		ID:             a.ID.String(),
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		Username:       a.Username,
		Email:          a.Email,
		PhoneNumber:    a.PhoneNumber,
		TwoStepEnabled: a.TwoStepEnabled,
		Avatar:         a.Avatar.URL,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type sessionResponse struct {
	User         accountResponse `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

type tokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type registerRequest struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	Username    string `json:"username" form:"username"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sendCodeRequest struct {
	DeliveryMethod string `json:"deliveryMethod"`
}

type checkCodeRequest struct {
	Code string `json:"code"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type phoneNumberRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}
