package model

import (
	"time"
)

// User 用户模型
// TelegramID 唯一，首次登录时创建
// Region 为空表示未设置地区
// Rating/SuccessfulExchanges 只在交换被接受时各加一

type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TelegramID          string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:Telegram用户ID" json:"-"`
	Name                string    `gorm:"type:varchar(128);comment:显示名" json:"name"`
	Username            string    `gorm:"type:varchar(64);comment:Telegram用户名" json:"username,omitempty"`
	Region              string    `gorm:"type:varchar(64);index;comment:地区" json:"region,omitempty"`
	Rating              int       `gorm:"not null;default:0;comment:评分" json:"rating"`
	SuccessfulExchanges int       `gorm:"not null;default:0;comment:成功交换次数" json:"successful_exchanges"`
	CreatedAt           time.Time `gorm:"comment:创建时间" json:"created_at"`
	UpdatedAt           time.Time `gorm:"comment:更新时间" json:"updated_at"`
}

func (User) TableName() string { return "user" }

// HasRegion 是否设置了地区
func (u *User) HasRegion() bool { return u != nil && u.Region != "" }
