// Package notify 把通知流变化转成未读角标和 WebSocket 提醒
package notify

import (
	"context"

	"case-exchange/pkg/logger"
	"case-exchange/pkg/websocket"

	"go.uber.org/zap"
)

// BadgeIncrementer 未读角标计数
type BadgeIncrementer interface {
	Increment(ctx context.Context, userIDs ...uint) error
}

// Pusher 在线推送
type Pusher interface {
	FeedChanged(reason string, userIDs ...uint)
}

type Notifier struct {
	badge  BadgeIncrementer
	pusher Pusher
}

// New badge 或 pusher 为 nil 时跳过对应的提醒
func New(badge BadgeIncrementer, pusher Pusher) *Notifier {
	return &Notifier{badge: badge, pusher: pusher}
}

// NewDefault 使用全局 Redis 角标与 WebSocket 管理器
func NewDefault(badge BadgeIncrementer) *Notifier {
	return New(badge, websocket.GetManager())
}

func (n *Notifier) FeedChanged(ctx context.Context, reason string, userIDs ...uint) {
	if len(userIDs) == 0 {
		return
	}
	if n.badge != nil {
		if err := n.badge.Increment(ctx, userIDs...); err != nil {
			logger.Warn("更新通知角标失败",
				zap.String("reason", reason),
				zap.Uints("user_ids", userIDs),
				zap.Error(err),
			)
		}
	}
	if n.pusher != nil {
		n.pusher.FeedChanged(reason, userIDs...)
	}
}
