package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MutualMatch 互相点赞记录
// User1 为触发点赞的用户，User1Item 是 User1 名下被 User2 点赞过的案例，
// User2Item 是 User1 刚点赞的 User2 的案例

type MutualMatch struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	User1ID     uint      `gorm:"not null;index" json:"user1_id"`
	User2ID     uint      `gorm:"not null;index" json:"user2_id"`
	User1ItemID uint      `gorm:"not null" json:"user1_item_id"`
	User2ItemID uint      `gorm:"not null" json:"user2_item_id"`
	PairKey     string    `gorm:"type:varchar(96);not null;uniqueIndex:ux_mutual_match_pair;comment:与方向无关的唯一键" json:"-"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间" json:"created_at"`
}

func (MutualMatch) TableName() string { return "mutual_match" }

// MatchPairKey 由两组 (用户, 案例) 按大小排序拼接，正反两个方向得到同一个键
func MatchPairKey(userA, itemA, userB, itemB uint) string {
	if userA > userB || (userA == userB && itemA > itemB) {
		userA, itemA, userB, itemB = userB, itemB, userA, itemA
	}
	return fmt.Sprintf("%d:%d|%d:%d", userA, itemA, userB, itemB)
}

// ComputePairKey 根据双方用户与案例填充 PairKey
func (m *MutualMatch) ComputePairKey() string {
	m.PairKey = MatchPairKey(m.User1ID, m.User1ItemID, m.User2ID, m.User2ItemID)
	return m.PairKey
}

func (m *MutualMatch) BeforeCreate(*gorm.DB) error {
	m.ComputePairKey()
	return nil
}

// Involves 用户是否为匹配的一方
func (m *MutualMatch) Involves(userID uint) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Counterpart 返回对方用户ID以及 (我的案例, 对方的案例)
func (m *MutualMatch) Counterpart(userID uint) (otherUserID, myItemID, theirItemID uint) {
	if m.User1ID == userID {
		return m.User2ID, m.User1ItemID, m.User2ItemID
	}
	return m.User1ID, m.User2ItemID, m.User1ItemID
}
