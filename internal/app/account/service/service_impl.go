package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/tube-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/media"
)

type accountService struct {
	accounts repo.AccountRepo
	channels repo.ChannelRepo
	uploader media.Uploader
	v        *validator.Validate
	log      *zap.Logger
}

type Service interface {
	Current(ctx context.Context, id uuid.UUID) (model.PublicAccount, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, in dto.UpdateAccountDTO) (model.PublicAccount, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, stagedPath string) (model.PublicAccount, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, stagedPath string) (model.PublicAccount, error)
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (model.ChannelProfile, error)
	WatchHistory(ctx context.Context, id uuid.UUID) ([]model.WatchedVideo, error)
	ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.OwnerSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.OwnerSummary, error)
}

func New(
	ar repo.AccountRepo,
	cr repo.ChannelRepo,
	up media.Uploader,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &accountService{accounts: ar, channels: cr, uploader: up, v: v, log: log}
}

func (s *accountService) Current(ctx context.Context, id uuid.UUID) (model.PublicAccount, error) {
	a, err := s.accounts.GetAccountByID(ctx, id)
	if err != nil {
		return model.PublicAccount{}, err
	}
	return a.Public(), nil
}

func (s *accountService) UpdateDetails(ctx context.Context, id uuid.UUID, in dto.UpdateAccountDTO) (model.PublicAccount, error) {
	in.Normalize()
	if in.FullName == "" || in.Email == "" {
		return model.PublicAccount{}, customErrors.NewInvalidArgument("all fields are required")
	}
	if err := s.v.Struct(in); err != nil {
		return model.PublicAccount{}, customErrors.NewInvalidArgument(err.Error())
	}

	a, err := s.accounts.UpdateProfile(ctx, id, model.ProfileUpdate{FullName: in.FullName, Email: in.Email})
	if err != nil {
		return model.PublicAccount{}, err
	}
	return a.Public(), nil
}

func (s *accountService) UpdateAvatar(ctx context.Context, id uuid.UUID, stagedPath string) (model.PublicAccount, error) {
	url, err := s.upload(ctx, "avatar", stagedPath)
	if err != nil {
		return model.PublicAccount{}, err
	}
	a, err := s.accounts.UpdateProfile(ctx, id, model.ProfileUpdate{Avatar: url})
	if err != nil {
		return model.PublicAccount{}, err
	}
	return a.Public(), nil
}

func (s *accountService) UpdateCoverImage(ctx context.Context, id uuid.UUID, stagedPath string) (model.PublicAccount, error) {
	url, err := s.upload(ctx, "cover image", stagedPath)
	if err != nil {
		return model.PublicAccount{}, err
	}
	a, err := s.accounts.UpdateProfile(ctx, id, model.ProfileUpdate{CoverImage: url})
	if err != nil {
		return model.PublicAccount{}, err
	}
	return a.Public(), nil
}

func (s *accountService) upload(ctx context.Context, what, stagedPath string) (string, error) {
	if stagedPath == "" {
		return "", customErrors.NewInvalidArgument(what + " file is missing")
	}
	url, err := s.uploader.Upload(ctx, stagedPath)
	if err != nil || url == "" {
		s.log.Warn("media upload failed", zap.String("kind", what), zap.Error(err))
		return "", customErrors.NewInvalidArgument("error while uploading " + what)
	}
	return url, nil
}

func (s *accountService) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return model.ChannelProfile{}, customErrors.NewInvalidArgument("username is missing")
	}
	return s.channels.ChannelProfile(ctx, username, viewer)
}

func (s *accountService) WatchHistory(ctx context.Context, id uuid.UUID) ([]model.WatchedVideo, error) {
	return s.channels.WatchHistory(ctx, id)
}

func (s *accountService) ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if channelID == uuid.Nil {
		return false, customErrors.NewInvalidArgument("channel id is missing")
	}
	if subscriberID == channelID {
		return false, customErrors.NewInvalidArgument("cannot subscribe to your own channel")
	}
	if _, err := s.accounts.GetAccountByID(ctx, channelID); err != nil {
		if customErrors.IsNotFound(err) {
			return false, customErrors.NewNotFound("channel")
		}
		return false, err
	}
	return s.channels.ToggleSubscription(ctx, subscriberID, channelID)
}

func (s *accountService) ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.OwnerSummary, error) {
	if channelID == uuid.Nil {
		return nil, customErrors.NewInvalidArgument("invalid channelId")
	}
	return s.channels.ChannelSubscribers(ctx, channelID)
}

func (s *accountService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.OwnerSummary, error) {
	if subscriberID == uuid.Nil {
		return nil, customErrors.NewInvalidArgument("invalid subscriberId")
	}
	return s.channels.SubscribedChannels(ctx, subscriberID)
}
