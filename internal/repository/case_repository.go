package repository

import (
	"context"
	"time"

	"case-exchange/internal/model"

	"gorm.io/gorm"
)

// newestFirst 案例统一按创建时间倒序，id 作为并列时的次序
const newestFirst = "created_at DESC, id DESC"

type CaseRepository struct {
	orm *gorm.DB
}

func NewCaseRepository(orm *gorm.DB) *CaseRepository {
	return &CaseRepository{orm: orm}
}

func (r *CaseRepository) active(ctx context.Context) *gorm.DB {
	return r.orm.WithContext(ctx).Model(&model.Case{}).Where("archived_at IS NULL")
}

func (r *CaseRepository) Create(ctx context.Context, c *model.Case) error {
	return translate("case.create", r.orm.WithContext(ctx).Create(c).Error)
}

func (r *CaseRepository) GetByID(ctx context.Context, id uint) (*model.Case, error) {
	var c model.Case
	if err := r.orm.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate("case.get", err)
	}
	return &c, nil
}

// GetByIDs 批量点查，结果按 id 索引，缺失的 id 不出现
func (r *CaseRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*model.Case, error) {
	out := make(map[uint]*model.Case, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*model.Case
	if err := r.orm.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate("case.get_many", err)
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

// Update 按 (id, owner_id) 更新可编辑字段，owner_id 不可变
// 调用方负责先确认案例存在且属于该所有者
func (r *CaseRepository) Update(ctx context.Context, c *model.Case) error {
	err := r.orm.WithContext(ctx).Model(&model.Case{}).
		Where("id = ? AND owner_id = ?", c.ID, c.OwnerID).
		Updates(map[string]interface{}{
			"title":          c.Title,
			"item_type":      c.ItemType,
			"price_category": c.PriceCategory,
			"description":    c.Description,
			"photo1":         c.Photo1,
			"photo2":         c.Photo2,
			"photo3":         c.Photo3,
		}).Error
	return translate("case.update", err)
}

func (r *CaseRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.orm.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Case{})
	if res.Error != nil {
		return translate("case.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("case.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListByOwner 用户未归档的案例，最新在前
func (r *CaseRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*model.Case, error) {
	var rows []*model.Case
	if err := r.active(ctx).Where("owner_id = ?", ownerID).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate("case.list_by_owner", err)
	}
	return rows, nil
}

// ListArchivedByOwner 用户已归档的案例，最近归档在前
func (r *CaseRepository) ListArchivedByOwner(ctx context.Context, ownerID uint) ([]*model.Case, error) {
	var rows []*model.Case
	err := r.orm.WithContext(ctx).
		Where("owner_id = ? AND archived_at IS NOT NULL", ownerID).
		Order("archived_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("case.list_archived", err)
	}
	return rows, nil
}

// ActiveIDsByOwner 用户未归档案例的 id
func (r *CaseRepository) ActiveIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	if err := r.active(ctx).Where("owner_id = ?", ownerID).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, translate("case.ids_by_owner", err)
	}
	return ids, nil
}

// ListByInterest 某类型+价格档位下他人的未归档案例，最新在前
func (r *CaseRepository) ListByInterest(ctx context.Context, itemType, priceCategory string, excludeOwner uint) ([]*model.Case, error) {
	var rows []*model.Case
	err := r.active(ctx).
		Where("item_type = ? AND price_category = ? AND owner_id <> ?", itemType, priceCategory, excludeOwner).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, translate("case.list_by_interest", err)
	}
	return rows, nil
}

// ListByOwners 指定用户集合的案例，排除 excludeOwner 和 excludeIDs，最多 limit 条（limit<=0 不限）
func (r *CaseRepository) ListByOwners(ctx context.Context, ownerIDs []uint, excludeOwner uint, excludeIDs []uint, limit int) ([]*model.Case, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	q := r.active(ctx).Where("owner_id IN ? AND owner_id <> ?", ownerIDs, excludeOwner)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []*model.Case
	if err := q.Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate("case.list_by_owners", err)
	}
	return rows, nil
}

// ListExcludingOwner 除 ownerID 外所有人的未归档案例，最新在前
func (r *CaseRepository) ListExcludingOwner(ctx context.Context, ownerID uint) ([]*model.Case, error) {
	var rows []*model.Case
	if err := r.active(ctx).Where("owner_id <> ?", ownerID).Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, translate("case.list_excluding_owner", err)
	}
	return rows, nil
}

// Archive 归档案例，已归档的保持原归档时间
func (r *CaseRepository) Archive(ctx context.Context, ids []uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.active(ctx).Where("id IN ?", ids).Update("archived_at", at)
	if res.Error != nil {
		return 0, translate("case.archive", res.Error)
	}
	return res.RowsAffected, nil
}

// Restore 所有者把归档案例恢复为可交换
func (r *CaseRepository) Restore(ctx context.Context, id, ownerID uint) error {
	res := r.orm.WithContext(ctx).Model(&model.Case{}).
		Where("id = ? AND owner_id = ? AND archived_at IS NOT NULL", id, ownerID).
		Update("archived_at", nil)
	if res.Error != nil {
		return translate("case.restore", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("case.restore", gorm.ErrRecordNotFound)
	}
	return nil
}
