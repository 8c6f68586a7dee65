package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type AccountRepo interface {
	CreateAccount(ctx context.Context, a model.Account) (uuid.UUID, error)

	GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error)

	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)

	GetAccountByUsername(ctx context.Context, username string) (model.Account, error)

	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.Account, error)

	// UpdatePassword stores a new hash and drops the stored refresh token.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetRefreshToken overwrites the stored refresh token; "" clears it.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error

	// RotateRefreshToken replaces the stored token only if it still equals current.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error)
}

type ChannelRepo interface {
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (model.ChannelProfile, error)

	WatchHistory(ctx context.Context, accountID uuid.UUID) ([]model.WatchedVideo, error)

	ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)

	ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.OwnerSummary, error)

	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.OwnerSummary, error)
}
