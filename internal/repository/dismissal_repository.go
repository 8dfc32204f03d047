package repository

import (
	"context"

	"case-exchange/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DismissalRepository 记录用户在自己的通知流中隐藏的条目
type DismissalRepository struct {
	orm *gorm.DB
}

func NewDismissalRepository(orm *gorm.DB) *DismissalRepository {
	return &DismissalRepository{orm: orm}
}

// Dismiss 批量写入隐藏标记，重复条目忽略
func (r *DismissalRepository) Dismiss(ctx context.Context, rows []*model.FeedDismissal) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.orm.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 100).Error
	if err != nil && !isDuplicateKey(err) {
		return translate("dismissal.create", err)
	}
	return nil
}

// Dismissed 用户隐藏的某类条目 id 集合
func (r *DismissalRepository) Dismissed(ctx context.Context, userID uint, kind model.FeedKind) (map[uint]struct{}, error) {
	var ids []uint
	err := r.orm.WithContext(ctx).Model(&model.FeedDismissal{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, translate("dismissal.list", err)
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
