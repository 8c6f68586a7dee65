package model

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null"`
	Description string
	VideoFile   string `gorm:"not null"`
	Thumbnail   string
	Duration    float64
	Views       int64
	IsPublished bool `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Video) TableName() string { return "videos" }

type WatchHistoryEntry struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	WatchedAt time.Time `gorm:"index"`
}

func (WatchHistoryEntry) TableName() string { return "watch_history" }

type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel;index"`
	CreatedAt    time.Time
}

func (Subscription) TableName() string { return "subscriptions" }

type ChannelProfile struct {
	ID                   uuid.UUID `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email"`
	Avatar               string    `json:"avatar"`
	CoverImage           string    `json:"coverImage"`
	SubscribersCount     int64     `json:"subscribersCount"`
	ChannelsSubscribedTo int64     `json:"channelsSubscribedToCount"`
	IsSubscribed         bool      `json:"isSubscribed"`
}

type OwnerSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Avatar   string    `json:"avatar"`
}

type WatchedVideo struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	WatchedAt   time.Time    `json:"watchedAt"`
	Owner       OwnerSummary `json:"owner"`
}
