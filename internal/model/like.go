package model

import "time"

// Like 用户对案例的点赞，(user_id, item_id) 唯一

type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_like_user_item,priority:1;comment:点赞用户ID" json:"user_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:ux_like_user_item,priority:2;index;comment:案例ID" json:"item_id"`
	CreatedAt time.Time `gorm:"comment:创建时间" json:"created_at"`
}

func (Like) TableName() string { return "item_like" }
