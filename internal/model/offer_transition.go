package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfferTransition 报价状态流转日志（MongoDB）
type OfferTransition struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OfferID   uint               `bson:"offer_id" json:"offer_id"`
	OldStatus OfferStatus        `bson:"old_status" json:"old_status"`
	NewStatus OfferStatus        `bson:"new_status" json:"new_status"`
	ChangedBy uint               `bson:"changed_by" json:"changed_by"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
