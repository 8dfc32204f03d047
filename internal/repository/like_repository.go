package repository

import (
	"context"

	"case-exchange/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	orm *gorm.DB
}

func NewLikeRepository(orm *gorm.DB) *LikeRepository {
	return &LikeRepository{orm: orm}
}

// Insert 幂等写入点赞，created 为 false 表示此前已点赞过
func (r *LikeRepository) Insert(ctx context.Context, userID, itemID uint) (created bool, err error) {
	like := &model.Like{UserID: userID, ItemID: itemID}
	res := r.orm.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return false, nil
		}
		return false, translate("like.insert", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByUser 用户的全部点赞，最新在前
func (r *LikeRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Like, error) {
	var rows []*model.Like
	err := r.orm.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, translate("like.list_by_user", err)
	}
	return rows, nil
}

// LikedItemIDs 用户点赞过的案例 id
func (r *LikeRepository) LikedItemIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.orm.WithContext(ctx).Model(&model.Like{}).Where("user_id = ?", userID).Order("id").Pluck("item_id", &ids).Error
	if err != nil {
		return nil, translate("like.liked_ids", err)
	}
	return ids, nil
}

// ListByUserRestrictedToItems 用户对给定案例集合的点赞，最早在前
func (r *LikeRepository) ListByUserRestrictedToItems(ctx context.Context, userID uint, itemIDs []uint) ([]*model.Like, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var rows []*model.Like
	err := r.orm.WithContext(ctx).
		Where("user_id = ? AND item_id IN ?", userID, itemIDs).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("like.list_restricted", err)
	}
	return rows, nil
}

func (r *LikeRepository) Count(ctx context.Context, userID, itemID uint) (int64, error) {
	var n int64
	err := r.orm.WithContext(ctx).Model(&model.Like{}).Where("user_id = ? AND item_id = ?", userID, itemID).Count(&n).Error
	if err != nil {
		return 0, translate("like.count", err)
	}
	return n, nil
}
