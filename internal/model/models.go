package model

// All 需要自动迁移的关系表模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Case{},
		&Like{},
		&Interest{},
		&MutualMatch{},
		&ExchangeOffer{},
		&FeedDismissal{},
	}
}
