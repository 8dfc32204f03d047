package repository

import (
	"context"
	"errors"

	"case-exchange/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	orm *gorm.DB
}

func NewMatchRepository(orm *gorm.DB) *MatchRepository {
	return &MatchRepository{orm: orm}
}

// findByPairKey 查找同一对用户、同一对案例的匹配（两个方向共用一个键）
func (r *MatchRepository) findByPairKey(ctx context.Context, key string) (*model.MutualMatch, error) {
	var existing model.MutualMatch
	if err := r.orm.WithContext(ctx).Where("pair_key = ?", key).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// CreateIfAbsent 创建互相点赞记录，已存在等价记录时返回已有记录且 created 为 false
// 并发创建同一对匹配时由 pair_key 唯一索引保证只有一条写入
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, m *model.MutualMatch) (*model.MutualMatch, bool, error) {
	key := m.ComputePairKey()
	existing, err := r.findByPairKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, translate("match.find", err)
	}

	res := r.orm.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil && !isDuplicateKey(res.Error) {
		return nil, false, translate("match.create", res.Error)
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return m, true, nil
	}
	existing, err = r.findByPairKey(ctx, key)
	if err != nil {
		return nil, false, translate("match.find", err)
	}
	return existing, false, nil
}

// ListInvolving 用户参与的匹配，最新在前
func (r *MatchRepository) ListInvolving(ctx context.Context, userID uint) ([]*model.MutualMatch, error) {
	var rows []*model.MutualMatch
	err := r.orm.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("match.list", err)
	}
	return rows, nil
}
