package model

import "time"

// FeedKind 通知流中的条目类别
type FeedKind string

const (
	FeedKindMatch         FeedKind = "match"
	FeedKindOfferReceived FeedKind = "offer_received"
	FeedKindOfferResolved FeedKind = "offer_resolved"
)

// FeedDismissal 用户清空通知后的隐藏标记
// 只影响该用户自己的通知视图，底层的匹配与报价记录保持不变

type FeedDismissal struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_feed_dismissal,priority:1"`
	Kind      FeedKind  `gorm:"type:varchar(32);not null;uniqueIndex:ux_feed_dismissal,priority:2"`
	RecordID  uint      `gorm:"not null;uniqueIndex:ux_feed_dismissal,priority:3"`
	CreatedAt time.Time
}

func (FeedDismissal) TableName() string { return "feed_dismissal" }
