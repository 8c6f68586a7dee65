// Package response writes the JSON envelope shared by every HTTP endpoint and
// maps domain errors to status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
)

type Envelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Status: status, Message: message, Data: data})
}

func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Status: status, Message: message})
}

// StatusOf returns the HTTP status and client-safe message for err.
func StatusOf(err error) (int, string) {
	switch {
	case customErrors.IsInvalidArgument(err):
		return http.StatusBadRequest, err.Error()
	case customErrors.IsInvalidCredentials(err):
		return http.StatusUnauthorized, "invalid user credentials"
	case customErrors.IsTokenExpired(err):
		return http.StatusUnauthorized, "token expired"
	case customErrors.IsInvalidToken(err):
		if errors.Is(err, customErrors.ErrRefreshTokenMismatch) {
			return http.StatusUnauthorized, "refresh token is expired or used"
		}
		return http.StatusUnauthorized, "invalid token"
	case customErrors.IsForbidden(err):
		return http.StatusForbidden, "forbidden"
	case customErrors.IsAlreadyExists(err):
		return http.StatusConflict, err.Error()
	case customErrors.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Error aborts with the envelope for err. Internal failures are attached to the
// context so the request logger records the cause.
func Error(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Abort(c, status, msg)
}
