package repository

import (
	"context"

	"case-exchange/internal/model"

	"gorm.io/gorm"
)

type InterestRepository struct {
	orm *gorm.DB
}

func NewInterestRepository(orm *gorm.DB) *InterestRepository {
	return &InterestRepository{orm: orm}
}

func (r *InterestRepository) Create(ctx context.Context, in *model.Interest) error {
	return translate("interest.create", r.orm.WithContext(ctx).Create(in).Error)
}

// ListByUser 用户的兴趣，最新在前
func (r *InterestRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Interest, error) {
	var rows []*model.Interest
	err := r.orm.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, translate("interest.list", err)
	}
	return rows, nil
}

func (r *InterestRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.orm.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Interest{})
	if res.Error != nil {
		return translate("interest.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("interest.delete", gorm.ErrRecordNotFound)
	}
	return nil
}
