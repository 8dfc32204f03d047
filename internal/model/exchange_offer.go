package model

import "time"

// OfferStatus 交换报价状态
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// Terminal 是否为终态
func (s OfferStatus) Terminal() bool {
	return s == OfferAccepted || s == OfferDeclined
}

// ParseResponseStatus 解析应答状态，只接受 accepted/declined
func ParseResponseStatus(s string) (OfferStatus, bool) {
	switch OfferStatus(s) {
	case OfferAccepted, OfferDeclined:
		return OfferStatus(s), true
	}
	return "", false
}

// ExchangeOffer 交换报价：FromUser 用 OfferedItem 换 ToUser 的 RequestedItem
// 状态只允许 pending->accepted 或 pending->declined，且只发生一次

type ExchangeOffer struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	FromUserID      uint        `gorm:"not null;index;comment:发起人ID" json:"from_user_id"`
	ToUserID        uint        `gorm:"not null;index;comment:接收人ID" json:"to_user_id"`
	OfferedItemID   uint        `gorm:"not null;comment:发起人提供的案例" json:"offered_item_id"`
	RequestedItemID uint        `gorm:"not null;comment:请求交换的案例" json:"requested_item_id"`
	Status          OfferStatus `gorm:"type:varchar(16);not null;default:'pending';index;comment:状态" json:"status"`
	CreatedAt       time.Time   `gorm:"index;comment:创建时间" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"comment:更新时间" json:"updated_at"`
}

func (ExchangeOffer) TableName() string { return "exchange_offer" }
