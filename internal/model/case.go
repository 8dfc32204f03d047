package model

import (
	"time"
)

// MaxCasePhotos 每个案例最多的照片引用数
const MaxCasePhotos = 3

// Case 用户发布的可交换物品
// OwnerID 创建后不可修改
// ArchivedAt 非空表示已归档（交换完成后），归档案例不参与推荐

type Case struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OwnerID       uint       `gorm:"not null;index;comment:所有者ID" json:"owner_id"`
	Title         string     `gorm:"type:varchar(128);not null;comment:标题" json:"title"`
	ItemType      string     `gorm:"type:varchar(64);not null;index:idx_case_type_price;comment:物品类型" json:"item_type"`
	PriceCategory string     `gorm:"type:varchar(64);not null;index:idx_case_type_price;comment:价格档位" json:"price_category"`
	Description   string     `gorm:"type:text;comment:描述" json:"description"`
	Photo1        string     `gorm:"type:varchar(512)" json:"photo1,omitempty"`
	Photo2        string     `gorm:"type:varchar(512)" json:"photo2,omitempty"`
	Photo3        string     `gorm:"type:varchar(512)" json:"photo3,omitempty"`
	ArchivedAt    *time.Time `gorm:"index;comment:归档时间" json:"archived_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index;comment:创建时间" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"comment:更新时间" json:"updated_at"`
}

func (Case) TableName() string { return "case_item" }

// Photos 返回非空的照片引用
func (c *Case) Photos() []string {
	photos := make([]string, 0, MaxCasePhotos)
	for _, p := range []string{c.Photo1, c.Photo2, c.Photo3} {
		if p != "" {
			photos = append(photos, p)
		}
	}
	return photos
}

// SetPhotos 按顺序写入照片引用，多余的槽位清空
func (c *Case) SetPhotos(photos []string) {
	slots := [MaxCasePhotos]string{}
	copy(slots[:], photos)
	c.Photo1, c.Photo2, c.Photo3 = slots[0], slots[1], slots[2]
}

// Archived 是否已归档
func (c *Case) Archived() bool { return c.ArchivedAt != nil }
