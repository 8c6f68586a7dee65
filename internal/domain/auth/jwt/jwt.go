package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// AccessIdentity is what an access token asserts about its subject.
type AccessIdentity struct {
	AccountID uuid.UUID
	Username  string
	FullName  string
	Email     string
}

type JWTUtil interface {
	GenerateAccessToken(id AccessIdentity) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(accountID uuid.UUID) (token string, exp time.Time, jti string, err error)
	ValidateAccessToken(token string) (claims AccessClaims, err error)
	ValidateRefreshToken(token string) (claims RefreshClaims, err error)
}
