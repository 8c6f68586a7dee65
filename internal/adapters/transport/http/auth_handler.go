package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/response"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	lg "github.com/Miraines/MoonyAndStarry/tube-service/internal/infra/log"
)

func (h *Handler) Register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBind(&body); err != nil {
		response.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	avatar, err := h.stageFile(c, "avatar")
	if err != nil {
		response.Error(c, err)
		return
	}
	cover, err := h.stageFile(c, "coverImage")
	if err != nil {
		h.discard(avatar)
		response.Error(c, err)
		return
	}
	defer h.discard(avatar, cover)

	body.AvatarPath, body.CoverImagePath = avatar, cover
	h.log.Info("/register", lg.Email(body.Email))

	acc, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "User registered successfully", acc)
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}
	h.log.Info("/login", lg.Email(body.Email))

	session, err := h.auth.Login(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setTokenCookies(c, session.Tokens)
	response.OK(c, http.StatusOK, "User logged in successfully", gin.H{
		"user":         session.Account,
		"accessToken":  session.Tokens.AccessToken,
		"refreshToken": session.Tokens.RefreshToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	if err := h.auth.Logout(c.Request.Context(), acc.ID, claims); err != nil {
		response.Error(c, err)
		return
	}
	h.clearTokenCookies(c)
	response.OK(c, http.StatusOK, "User logged out", gin.H{})
}

func (h *Handler) RefreshAccessToken(c *gin.Context) {
	var body dto.RefreshDTO
	if v, err := c.Cookie(middleware.RefreshCookie); err == nil && v != "" {
		body.RefreshToken = v
	} else if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, customErrors.NewInvalidArgument(err.Error()))
			return
		}
	}
	if body.RefreshToken == "" {
		response.Abort(c, http.StatusUnauthorized, "unauthorized request")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), body)
	if err != nil {
		if customErrors.IsTokenExpired(err) {
			h.log.Debug("refresh with expired token")
		}
		response.Error(c, err)
		return
	}
	h.setTokenCookies(c, pair)
	response.OK(c, http.StatusOK, "Access token refreshed", pair)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	var body dto.ChangePasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), acc.ID, body); err != nil {
		response.Error(c, err)
		return
	}
	h.log.Info("password changed", zap.String("account", acc.ID.String()))
	// the stored refresh token is gone, so the cookie is useless
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cookieDomain, true, true)
	response.OK(c, http.StatusOK, "Password changed successfully", gin.H{})
}
