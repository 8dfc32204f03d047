package model

import "time"

// Interest 用户关注的 (物品类型, 价格档位) 组合

type Interest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index;comment:用户ID" json:"user_id"`
	ItemType      string    `gorm:"type:varchar(64);not null;comment:物品类型" json:"item_type"`
	PriceCategory string    `gorm:"type:varchar(64);not null;comment:价格档位" json:"price_category"`
	CreatedAt     time.Time `gorm:"comment:创建时间" json:"created_at"`
}

func (Interest) TableName() string { return "interest" }
