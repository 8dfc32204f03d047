package repository

import (
	"context"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	orm *gorm.DB
}

func NewUserRepository(orm *gorm.DB) *UserRepository {
	return &UserRepository{orm: orm}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{orm: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate("user.create", r.orm.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("user.get", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
		return nil, translate("user.get_by_telegram", err)
	}
	return &u, nil
}

// FirstOrCreateByTelegramID 按 Telegram ID 查找，不存在则创建
// 并发首次登录时唯一索引冲突后重新读取
func (r *UserRepository) FirstOrCreateByTelegramID(ctx context.Context, user *model.User) (*model.User, bool, error) {
	existing, err := r.GetByTelegramID(ctx, user.TelegramID)
	if err == nil {
		return existing, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, false, err
	}
	if err := r.orm.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			existing, err := r.GetByTelegramID(ctx, user.TelegramID)
			return existing, false, err
		}
		return nil, false, translate("user.create", err)
	}
	return user, true, nil
}

func (r *UserRepository) UpdateRegion(ctx context.Context, id uint, region string) error {
	err := r.orm.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("region", region).Error
	return translate("user.update_region", err)
}

// UpdateRating 原子地增加评分和成功交换次数
// 返回值 found 表示用户行是否存在
func (r *UserRepository) UpdateRating(ctx context.Context, id uint, delta int) (bool, error) {
	res := r.orm.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":               gorm.Expr("rating + ?", delta),
		"successful_exchanges": gorm.Expr("successful_exchanges + ?", delta),
	})
	if res.Error != nil {
		return false, translate("user.update_rating", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListIDsByRegion 返回某地区的全部用户ID
func (r *UserRepository) ListIDsByRegion(ctx context.Context, region string) ([]uint, error) {
	var ids []uint
	err := r.orm.WithContext(ctx).Model(&model.User{}).Where("region = ?", region).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, translate("user.list_by_region", err)
	}
	return ids, nil
}

// RegionsOf 批量查询用户地区，未设置地区的用户不出现在结果中
func (r *UserRepository) RegionsOf(ctx context.Context, ids []uint) (map[uint]string, error) {
	regions := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return regions, nil
	}
	var rows []model.User
	err := r.orm.WithContext(ctx).Select("id", "region").Where("id IN ?", ids).Where("region <> ''").Find(&rows).Error
	if err != nil {
		return nil, translate("user.regions", err)
	}
	for _, u := range rows {
		regions[u.ID] = u.Region
	}
	return regions, nil
}

// GetByIDs 批量点查，结果按 id 索引
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	out := make(map[uint]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*model.User
	if err := r.orm.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate("user.get_many", err)
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}
