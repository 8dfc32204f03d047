package repository

import (
	"context"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"

	"gorm.io/gorm"
)

// TransitionFunc 与状态切换在同一事务内执行，返回错误则整体回滚
type TransitionFunc func(tx *gorm.DB, offer *model.ExchangeOffer) error

type OfferRepository struct {
	orm *gorm.DB
}

func NewOfferRepository(orm *gorm.DB) *OfferRepository {
	return &OfferRepository{orm: orm}
}

func (r *OfferRepository) Create(ctx context.Context, offer *model.ExchangeOffer) error {
	offer.Status = model.OfferPending
	return translate("offer.create", r.orm.WithContext(ctx).Create(offer).Error)
}

func (r *OfferRepository) GetByID(ctx context.Context, id uint) (*model.ExchangeOffer, error) {
	var o model.ExchangeOffer
	if err := r.orm.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate("offer.get", err)
	}
	return &o, nil
}

// Transition 以 compare-and-set 的方式把 pending 报价切换到终态
// 已是终态时返回 Conflict，不存在时返回 NotFound
func (r *OfferRepository) Transition(ctx context.Context, id uint, to model.OfferStatus, apply TransitionFunc) (*model.ExchangeOffer, error) {
	const op = "offer.transition"
	var updated model.ExchangeOffer

	err := r.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ExchangeOffer{}).
			Where("id = ? AND status = ?", id, model.OfferPending).
			Update("status", to)
		if res.Error != nil {
			return apperr.Dependency(op, res.Error)
		}
		if res.RowsAffected == 0 {
			var current model.ExchangeOffer
			if err := tx.First(&current, id).Error; err != nil {
				return translate(op, err)
			}
			return apperr.Conflict(op, "offer %d is already %s", id, current.Status)
		}

		if err := tx.First(&updated, id).Error; err != nil {
			return translate(op, err)
		}
		if apply != nil {
			if err := apply(tx, &updated); err != nil {
				return apperr.Wrap(apperr.KindDependency, op, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, op, err)
	}
	return &updated, nil
}

// ListPendingReceived 用户收到的待处理报价，最新在前
func (r *OfferRepository) ListPendingReceived(ctx context.Context, userID uint) ([]*model.ExchangeOffer, error) {
	var rows []*model.ExchangeOffer
	err := r.orm.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, model.OfferPending).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("offer.list_pending", err)
	}
	return rows, nil
}

// ListResolvedSent 用户发起且已有结果的报价，最近处理在前
func (r *OfferRepository) ListResolvedSent(ctx context.Context, userID uint) ([]*model.ExchangeOffer, error) {
	var rows []*model.ExchangeOffer
	err := r.orm.WithContext(ctx).
		Where("from_user_id = ? AND status IN ?", userID, []model.OfferStatus{model.OfferAccepted, model.OfferDeclined}).
		Order("updated_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("offer.list_resolved", err)
	}
	return rows, nil
}

// ListAcceptedInvolving 用户作为任一方的已接受报价（交换历史）
func (r *OfferRepository) ListAcceptedInvolving(ctx context.Context, userID uint) ([]*model.ExchangeOffer, error) {
	var rows []*model.ExchangeOffer
	err := r.orm.WithContext(ctx).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, model.OfferAccepted).
		Order("updated_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("offer.list_accepted", err)
	}
	return rows, nil
}
