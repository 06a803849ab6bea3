package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Session cookie names. The authentication gate reads AccessTokenCookie
// before it looks at the Authorization header.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieOptions controls the session cookies. Secure should only be off for
// local plain-HTTP development.
type CookieOptions struct {
	Secure        bool
	Domain        string
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

func (o CookieOptions) setSession(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, int(o.AccessMaxAge.Seconds()), "/", o.Domain, o.Secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, int(o.RefreshMaxAge.Seconds()), "/", o.Domain, o.Secure, true)
}

func (o CookieOptions) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", o.Domain, o.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", o.Domain, o.Secure, true)
}
