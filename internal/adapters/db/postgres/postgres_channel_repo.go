package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/model"
)

type PostgresChannelRepo struct {
	db *gorm.DB
}

func NewPostgresChannelRepo(db *gorm.DB) *PostgresChannelRepo {
	return &PostgresChannelRepo{db: db}
}

const channelProfileSelect = `accounts.id, accounts.username, accounts.full_name, accounts.email,
	accounts.avatar, accounts.cover_image,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = accounts.id) AS subscribers_count,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = accounts.id) AS channels_subscribed_to,
	EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = accounts.id AND s.subscriber_id = ?) AS is_subscribed`

func (p *PostgresChannelRepo) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (model.ChannelProfile, error) {
	var out model.ChannelProfile
	res := p.db.WithContext(ctx).Model(&model.Account{}).
		Select(channelProfileSelect, viewer).
		Where("accounts.username = ?", username).
		Limit(1).
		Scan(&out)
	if err := res.Error; err != nil {
		return model.ChannelProfile{}, customErrors.WrapInternal(err, "ChannelProfile")
	}
	if res.RowsAffected == 0 {
		return model.ChannelProfile{}, customErrors.NewNotFound("channel")
	}
	return out, nil
}

type watchedRow struct {
	ID            uuid.UUID
	Title         string
	Description   string
	VideoFile     string
	Thumbnail     string
	Duration      float64
	Views         int64
	WatchedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

func (p *PostgresChannelRepo) WatchHistory(ctx context.Context, accountID uuid.UUID) ([]model.WatchedVideo, error) {
	var rows []watchedRow
	res := p.db.WithContext(ctx).Table("watch_history AS wh").
		Select(`v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views, wh.watched_at,
			o.id AS owner_id, o.username AS owner_username, o.full_name AS owner_full_name, o.avatar AS owner_avatar`).
		Joins("JOIN videos AS v ON v.id = wh.video_id").
		Joins("JOIN accounts AS o ON o.id = v.owner_id").
		Where("wh.account_id = ?", accountID).
		Order("wh.watched_at ASC").
		Scan(&rows)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "WatchHistory")
	}

	out := make([]model.WatchedVideo, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.WatchedVideo{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			VideoFile:   r.VideoFile,
			Thumbnail:   r.Thumbnail,
			Duration:    r.Duration,
			Views:       r.Views,
			WatchedAt:   r.WatchedAt,
			Owner: model.OwnerSummary{
				ID:       r.OwnerID,
				Username: r.OwnerUsername,
				FullName: r.OwnerFullName,
				Avatar:   r.OwnerAvatar,
			},
		})
	}
	return out, nil
}

// ToggleSubscription removes an existing subscription or creates a new one and
// reports whether the subscriber is subscribed afterwards.
func (p *PostgresChannelRepo) ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	res := p.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "ToggleSubscription")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := p.db.WithContext(ctx).Create(&model.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}).Error
	switch {
	case err == nil, isDuplicate(err):
		return true, nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return false, customErrors.NewNotFound("channel")
	default:
		return false, customErrors.WrapInternal(err, "ToggleSubscription")
	}
}

func (p *PostgresChannelRepo) ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.OwnerSummary, error) {
	return p.subscriptionSide(ctx, "subscriber_id", "channel_id", channelID, "ChannelSubscribers")
}

func (p *PostgresChannelRepo) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.OwnerSummary, error) {
	return p.subscriptionSide(ctx, "channel_id", "subscriber_id", subscriberID, "SubscribedChannels")
}

// subscriptionSide lists the accounts on the join side of subscriptions
// whose match column equals id, oldest subscription first.
func (p *PostgresChannelRepo) subscriptionSide(ctx context.Context, join, match string, id uuid.UUID, op string) ([]model.OwnerSummary, error) {
	out := make([]model.OwnerSummary, 0)
	err := p.db.WithContext(ctx).Table("subscriptions AS s").
		Select("a.id, a.username, a.full_name, a.avatar").
		Joins("JOIN accounts AS a ON a.id = s."+join).
		Where("s."+match+" = ?", id).
		Order("s.created_at ASC, a.username ASC").
		Scan(&out).Error
	if err != nil {
		return nil, customErrors.WrapInternal(err, op)
	}
	return out, nil
}
