package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 通知角标相关常量
const (
	FeedBadgeKeyPrefix = "exchange:feed_badge:" // 未读通知计数key前缀
	feedBadgeTTL       = 7 * 24 * time.Hour
)

func feedBadgeKey(userID uint) string {
	return fmt.Sprintf("%s%d", FeedBadgeKeyPrefix, userID)
}

// IncrementFeedBadge 为多个用户的通知角标各加一
func IncrementFeedBadge(c context.Context, userIDs ...uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}
	if len(userIDs) == 0 {
		return nil
	}

	// 使用Pipeline批量操作
	pipe := client.Pipeline()
	for _, userID := range userIDs {
		key := feedBadgeKey(userID)
		pipe.Incr(c, key)
		pipe.Expire(c, key, feedBadgeTTL)
	}
	if _, err := pipe.Exec(c); err != nil {
		return fmt.Errorf("增加通知角标失败: %w", err)
	}
	return nil
}

// GetFeedBadge 获取用户未读通知数，key 不存在时为 0
func GetFeedBadge(c context.Context, userID uint) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("redis客户端未初始化")
	}
	count, err := client.Get(c, feedBadgeKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取通知角标失败: %w", err)
	}
	return count, nil
}

// ResetFeedBadge 用户查看通知后清零
func ResetFeedBadge(c context.Context, userID uint) error {
	if client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}
	if err := client.Del(c, feedBadgeKey(userID)).Err(); err != nil {
		return fmt.Errorf("重置通知角标失败: %w", err)
	}
	return nil
}

// FeedBadge 以方法形式暴露通知角标操作，供服务层注入
type FeedBadge struct{}

func (FeedBadge) Increment(c context.Context, userIDs ...uint) error {
	return IncrementFeedBadge(c, userIDs...)
}

func (FeedBadge) Count(c context.Context, userID uint) (int64, error) {
	return GetFeedBadge(c, userID)
}

func (FeedBadge) Reset(c context.Context, userID uint) error {
	return ResetFeedBadge(c, userID)
}
