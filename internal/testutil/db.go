// Package testutil 提供测试用的数据库与数据构造
package testutil

import (
	"path/filepath"
	"testing"

	"case-exchange/config"
	"case-exchange/internal/model"
	"case-exchange/pkg/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 在临时目录中创建 sqlite 数据库并迁移全部表
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	orm, err := db.Open(config.DatabaseConfig{
		Driver:   "sqlite",
		Database: filepath.Join(t.TempDir(), "exchange.db"),
	})
	require.NoError(t, err)
	require.NoError(t, orm.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return orm
}

// Fixture 直接写库的数据构造器
type Fixture struct {
	t   testing.TB
	orm *gorm.DB
}

func NewFixture(t testing.TB, orm *gorm.DB) *Fixture {
	return &Fixture{t: t, orm: orm}
}

func (f *Fixture) User(telegramID, region string) *model.User {
	f.t.Helper()
	u := &model.User{TelegramID: telegramID, Name: telegramID, Region: region}
	require.NoError(f.t, f.orm.Create(u).Error)
	return u
}

func (f *Fixture) Case(owner *model.User, itemType, priceCategory string) *model.Case {
	f.t.Helper()
	c := &model.Case{
		OwnerID:       owner.ID,
		Title:         itemType + " " + priceCategory,
		ItemType:      itemType,
		PriceCategory: priceCategory,
	}
	require.NoError(f.t, f.orm.Create(c).Error)
	return c
}

func (f *Fixture) Like(user *model.User, c *model.Case) {
	f.t.Helper()
	require.NoError(f.t, f.orm.Create(&model.Like{UserID: user.ID, ItemID: c.ID}).Error)
}

func (f *Fixture) Interest(user *model.User, itemType, priceCategory string) *model.Interest {
	f.t.Helper()
	in := &model.Interest{UserID: user.ID, ItemType: itemType, PriceCategory: priceCategory}
	require.NoError(f.t, f.orm.Create(in).Error)
	return in
}

func (f *Fixture) Offer(from, to *model.User, offered, requested *model.Case) *model.ExchangeOffer {
	f.t.Helper()
	o := &model.ExchangeOffer{
		FromUserID:      from.ID,
		ToUserID:        to.ID,
		OfferedItemID:   offered.ID,
		RequestedItemID: requested.ID,
		Status:          model.OfferPending,
	}
	require.NoError(f.t, f.orm.Create(o).Error)
	return o
}

// Reload 重新读取用户
func (f *Fixture) Reload(u *model.User) *model.User {
	f.t.Helper()
	var fresh model.User
	require.NoError(f.t, f.orm.First(&fresh, u.ID).Error)
	return &fresh
}
