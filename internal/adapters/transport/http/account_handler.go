package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/response"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
)

func (h *Handler) CurrentUser(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	response.OK(c, http.StatusOK, "User fetched successfully", acc)
}

func (h *Handler) UpdateAccountDetails(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	var body dto.UpdateAccountDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, customErrors.NewInvalidArgument(err.Error()))
		return
	}

	updated, err := h.accounts.UpdateDetails(c.Request.Context(), acc.ID, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Account details updated successfully", updated)
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", "Avatar image updated successfully")
}

func (h *Handler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", "Cover image updated successfully")
}

func (h *Handler) updateImage(c *gin.Context, field, message string) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	staged, err := h.stageFile(c, field)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer h.discard(staged)

	ctx := c.Request.Context()
	update := h.accounts.UpdateAvatar
	if field == "coverImage" {
		update = h.accounts.UpdateCoverImage
	}
	updated, err := update(ctx, acc.ID, staged)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, message, updated)
}

func (h *Handler) ChannelProfile(c *gin.Context) {
	var viewer uuid.UUID
	if acc, ok := middleware.CurrentAccount(c); ok {
		viewer = acc.ID
	}

	profile, err := h.accounts.ChannelProfile(c.Request.Context(), c.Param("username"), viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "User channel fetched successfully", profile)
}

func (h *Handler) WatchHistory(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	history, err := h.accounts.WatchHistory(c.Request.Context(), acc.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if history == nil {
		history = []model.WatchedVideo{}
	}
	response.OK(c, http.StatusOK, "Watch history fetched successfully", history)
}

func (h *Handler) ToggleSubscription(c *gin.Context) {
	acc, ok := mustAccount(c)
	if !ok {
		return
	}
	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		response.Error(c, customErrors.NewInvalidArgument("invalid channel id"))
		return
	}

	subscribed, err := h.accounts.ToggleSubscription(c.Request.Context(), acc.ID, channelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg := "Unsubscribed successfully"
	if subscribed {
		msg = "Subscribed successfully"
	}
	response.OK(c, http.StatusOK, msg, gin.H{"subscribed": subscribed})
}

func (h *Handler) ChannelSubscribers(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("channelId"))
	if err != nil {
		response.Error(c, customErrors.NewInvalidArgument("invalid channelId"))
		return
	}
	subscribers, err := h.accounts.ChannelSubscribers(c.Request.Context(), channelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if subscribers == nil {
		subscribers = []model.OwnerSummary{}
	}
	response.OK(c, http.StatusOK, "Subscribers fetched successfully", gin.H{
		"subscribers":      subscribers,
		"totalSubscribers": len(subscribers),
	})
}

func (h *Handler) SubscribedChannels(c *gin.Context) {
	subscriberID, err := uuid.Parse(c.Param("subscriberId"))
	if err != nil {
		response.Error(c, customErrors.NewInvalidArgument("invalid subscriberId"))
		return
	}
	channels, err := h.accounts.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if channels == nil {
		channels = []model.OwnerSummary{}
	}
	response.OK(c, http.StatusOK, "Subscribed channels fetched successfully", gin.H{
		"channels":      channels,
		"totalChannels": len(channels),
	})
}
