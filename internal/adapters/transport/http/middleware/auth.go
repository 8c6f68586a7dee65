package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/response"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	accountKey = "auth.account"
	claimsKey  = "auth.claims"
)

// Authenticator resolves a raw access token to the account it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.PublicAccount, jwt.AccessClaims, error)
}

// AccessToken returns the token from the access cookie, falling back to a
// Bearer Authorization header.
func AccessToken(c *gin.Context) string {
	if v, err := c.Cookie(AccessCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// VerifyJWT rejects the request with 401 unless it carries a valid, unrevoked
// access token of an existing account.
func VerifyJWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := AccessToken(c)
		if raw == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthorized request")
			return
		}
		account, claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if !customErrors.IsInvalidToken(err) && !customErrors.IsInternal(err) {
				err = customErrors.ErrInvalidToken
			}
			response.Error(c, err)
			return
		}
		c.Set(accountKey, account)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := AccessToken(c); raw != "" {
			if account, claims, err := auth.Authenticate(c.Request.Context(), raw); err == nil {
				c.Set(accountKey, account)
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

func CurrentAccount(c *gin.Context) (model.PublicAccount, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return model.PublicAccount{}, false
	}
	a, ok := v.(model.PublicAccount)
	return a, ok
}

func CurrentClaims(c *gin.Context) (jwt.AccessClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return jwt.AccessClaims{}, false
	}
	cl, ok := v.(jwt.AccessClaims)
	return cl, ok
}
