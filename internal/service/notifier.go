package service

import "context"

// 通知流变化的原因
const (
	ReasonMutualMatch   = "mutual_match"
	ReasonOfferReceived = "offer_received"
	ReasonOfferResolved = "offer_resolved"
)

// Notifier 通知流有变化时的旁路提醒，尽力而为，不返回错误
type Notifier interface {
	FeedChanged(ctx context.Context, reason string, userIDs ...uint)
}

// BadgeStore 未读通知计数
type BadgeStore interface {
	Count(ctx context.Context, userID uint) (int64, error)
	Reset(ctx context.Context, userID uint) error
}

type nopNotifier struct{}

func (nopNotifier) FeedChanged(context.Context, string, ...uint) {}

type nopBadge struct{}

func (nopBadge) Count(context.Context, uint) (int64, error) { return 0, nil }
func (nopBadge) Reset(context.Context, uint) error          { return nil }
