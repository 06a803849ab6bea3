package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/api/http/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
)

const maxAvatarBytes = 5 << 20

// AuthService defines account and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Account, error)
	Login(ctx context.Context, params model.LoginParams) (model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
	Logout(ctx context.Context, accountID uuid.UUID) error
	GetAccount(ctx context.Context, accountID uuid.UUID) (model.Account, error)
	SendVerificationCode(ctx context.Context, accountID uuid.UUID, method model.DeliveryMethod) (string, error)
	CheckVerificationCode(ctx context.Context, accountID uuid.UUID, code string) (model.Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) error
	UpdatePhoneNumber(ctx context.Context, accountID uuid.UUID, phoneNumber string) error
}

// EventRecorder counts authentication outcomes.
type EventRecorder interface {
	AuthEvent(event, outcome string)
}

// Auth handles account and session endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	cookies        CookieOptions
	recorder       EventRecorder
	logger         *logger.Logger
}

func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	cookies CookieOptions,
	recorder EventRecorder,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		cookies:        cookies,
		recorder:       recorder,
		logger:         logger,
	}
}

// Register creates an account from a JSON body or a multipart form with an
// optional "avatar" file.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	params := model.RegisterParams{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	}

	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		fileHeader, err := c.FormFile("avatar")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			response.Error(c, http.StatusBadRequest, "invalid avatar")
			return
		case fileHeader.Size > maxAvatarBytes:
			response.Error(c, http.StatusBadRequest, "avatar is too large")
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				handleError(c, h.logger, err)
				return
			}
			defer file.Close()

			params.Avatar = &model.Upload{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
				Reader:      io.LimitReader(file, maxAvatarBytes),
			}
		}
	}

	account, err := h.authService.Register(c.Request.Context(), params)
	if err != nil {
		h.recorder.AuthEvent("register", metrics.OutcomeFailure)
		handleError(c, h.logger, err)
		return
	}

	h.recorder.AuthEvent("register", metrics.OutcomeSuccess)
	response.Success(c, http.StatusCreated, newAccountResponse(account), "User registered successfully")
}

func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), model.LoginParams{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.recorder.AuthEvent("login", metrics.OutcomeFailure)
		handleError(c, h.logger, err)
		return
	}

	h.recorder.AuthEvent("login", metrics.OutcomeSuccess)
	h.cookies.setSession(c, session.AccessToken, session.RefreshToken)
	response.Success(c, http.StatusOK, sessionResponse{
		User:         newAccountResponse(session.Account),
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "User logged in successfully")
}

// Refresh reads the refresh token from its cookie, falling back to a JSON
// body for clients that do not keep cookies.
func (h *Auth) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshTokenCookie)
	if refreshToken == "" && c.Request.ContentLength != 0 {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = strings.TrimSpace(req.RefreshToken)
		}
	}

	session, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.recorder.AuthEvent("refresh", metrics.OutcomeFailure)
		handleError(c, h.logger, err)
		return
	}

	h.recorder.AuthEvent("refresh", metrics.OutcomeSuccess)
	h.cookies.setSession(c, session.AccessToken, session.RefreshToken)
	response.Success(c, http.StatusOK, tokensResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}, "Access token refreshed")
}

func (h *Auth) Logout(c *gin.Context) {
	identity, _ := h.contextManager.GetIdentityFromContext(c.Request.Context())

	if err := h.authService.Logout(c.Request.Context(), identity.AccountID); err != nil {
		h.recorder.AuthEvent("logout", metrics.OutcomeFailure)
		handleError(c, h.logger, err)
		return
	}

	h.recorder.AuthEvent("logout", metrics.OutcomeSuccess)
	h.cookies.clearSession(c)
	response.Success(c, http.StatusOK, nil, "User logged out")
}

func (h *Auth) Me(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.authService.GetAccount(c.Request.Context(), identity.AccountID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, newAccountResponse(account), "Current user fetched successfully")
}

func (h *Auth) SendVerificationCode(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	method := model.DeliveryMethod(strings.ToLower(strings.TrimSpace(req.DeliveryMethod)))
	status, err := h.authService.SendVerificationCode(c.Request.Context(), identity.AccountID, method)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": status}, "Verification code sent")
}

func (h *Auth) CheckVerificationCode(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.authService.CheckVerificationCode(c.Request.Context(), identity.AccountID, strings.TrimSpace(req.Code))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, newAccountResponse(account), "Two-step verification enabled")
}

// ChangePassword replaces the caller's password. The refresh token is revoked
// with it, so the session cookies are cleared and the client logs in again.
func (h *Auth) ChangePassword(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.AccountID, req.OldPassword, req.NewPassword); err != nil {
		h.recorder.AuthEvent("change_password", metrics.OutcomeFailure)
		handleError(c, h.logger, err)
		return
	}

	h.recorder.AuthEvent("change_password", metrics.OutcomeSuccess)
	h.cookies.clearSession(c)
	response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

func (h *Auth) UpdatePhoneNumber(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req phoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.UpdatePhoneNumber(c.Request.Context(), identity.AccountID, req.PhoneNumber); err != nil {
		handleError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Phone number has been updated")
}
