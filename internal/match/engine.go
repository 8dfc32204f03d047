// Package match 选出用户下一批可浏览的案例
//
// 三级回退：兴趣匹配 -> 同地区用户的最新案例 -> 全部案例（同地区优先，其余随机）。
// 前一级为空才会进入下一级。
package match

import (
	"context"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
)

// DefaultRegionLimit 同地区兜底最多返回的案例数
const DefaultRegionLimit = 10

// CaseSource 案例查询，结果均已排除归档案例并按最新在前排序
type CaseSource interface {
	ListByInterest(ctx context.Context, itemType, priceCategory string, excludeOwner uint) ([]*model.Case, error)
	ListByOwners(ctx context.Context, ownerIDs []uint, excludeOwner uint, excludeIDs []uint, limit int) ([]*model.Case, error)
	ListExcludingOwner(ctx context.Context, ownerID uint) ([]*model.Case, error)
}

// UserSource 用户地区查询
type UserSource interface {
	ListIDsByRegion(ctx context.Context, region string) ([]uint, error)
	RegionsOf(ctx context.Context, ids []uint) (map[uint]string, error)
}

// InterestSource 用户兴趣查询
type InterestSource interface {
	ListByUser(ctx context.Context, userID uint) ([]*model.Interest, error)
}

type Engine struct {
	cases       CaseSource
	users       UserSource
	interests   InterestSource
	regionLimit int
	shuffler    *Shuffler
}

type Option func(*Engine)

// WithRegionLimit 设置同地区兜底的条数上限
func WithRegionLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.regionLimit = n
		}
	}
}

// WithShuffler 替换随机打乱器（测试中使用固定种子）
func WithShuffler(s *Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffler = s
		}
	}
}

func NewEngine(cases CaseSource, users UserSource, interests InterestSource, opts ...Option) *Engine {
	e := &Engine{
		cases:       cases,
		users:       users,
		interests:   interests,
		regionLimit: DefaultRegionLimit,
		shuffler:    NewShuffler(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NextCandidates 按当前排除集合重新计算候选案例
// excluded 通常是用户已点赞的案例 id；用户自己的案例总是被排除
func (e *Engine) NextCandidates(ctx context.Context, user *model.User, excluded []uint) (*Cursor, error) {
	if user == nil {
		return nil, apperr.Validation("match.next", "user is required")
	}
	skip := make(map[uint]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	items, err := e.interestTier(ctx, user, skip)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return newCursor(TierInterest, items), nil
	}

	if user.HasRegion() {
		items, err = e.regionTier(ctx, user, excluded)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return newCursor(TierRegion, items), nil
		}
	}

	items, err = e.fallbackTier(ctx, user, skip)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return newCursor(TierNone, nil), nil
	}
	return newCursor(TierFallback, items), nil
}

// interestTier 按兴趣的顺序合并各组结果，按 id 去重保留第一次出现
func (e *Engine) interestTier(ctx context.Context, user *model.User, skip map[uint]struct{}) ([]*model.Case, error) {
	interests, err := e.interests.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "match.interests", err)
	}

	seen := make(map[uint]struct{})
	var out []*model.Case
	for _, in := range interests {
		cases, err := e.cases.ListByInterest(ctx, in.ItemType, in.PriceCategory, user.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDependency, "match.interest_tier", err)
		}
		for _, c := range cases {
			if c.OwnerID == user.ID {
				continue
			}
			if _, ok := skip[c.ID]; ok {
				continue
			}
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}
	if len(out) == 0 || !user.HasRegion() {
		return out, nil
	}

	regions, err := e.ownerRegions(ctx, out)
	if err != nil {
		return nil, err
	}
	same, other := partitionByRegion(out, regions, user.Region)
	return append(same, other...), nil
}

// regionTier 同地区其他用户的最新案例，排除在查询中完成，上限在排除之后生效
func (e *Engine) regionTier(ctx context.Context, user *model.User, excluded []uint) ([]*model.Case, error) {
	ids, err := e.users.ListIDsByRegion(ctx, user.Region)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "match.region_users", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	cases, err := e.cases.ListByOwners(ctx, ids, user.ID, excluded, e.regionLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "match.region_tier", err)
	}
	return cases, nil
}

// fallbackTier 所有他人案例：有地区时同地区按时间在前，其余随机；无地区时全部随机
func (e *Engine) fallbackTier(ctx context.Context, user *model.User, skip map[uint]struct{}) ([]*model.Case, error) {
	all, err := e.cases.ListExcludingOwner(ctx, user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "match.fallback_tier", err)
	}
	items := make([]*model.Case, 0, len(all))
	for _, c := range all {
		if c.OwnerID == user.ID {
			continue
		}
		if _, ok := skip[c.ID]; ok {
			continue
		}
		items = append(items, c)
	}
	if len(items) == 0 {
		return nil, nil
	}

	if !user.HasRegion() {
		e.shuffler.Shuffle(items)
		return items, nil
	}

	regions, err := e.ownerRegions(ctx, items)
	if err != nil {
		return nil, err
	}
	same, other := partitionByRegion(items, regions, user.Region)
	e.shuffler.Shuffle(other)
	return append(same, other...), nil
}

func (e *Engine) ownerRegions(ctx context.Context, cases []*model.Case) (map[uint]string, error) {
	owners := make([]uint, 0, len(cases))
	seen := make(map[uint]struct{}, len(cases))
	for _, c := range cases {
		if _, ok := seen[c.OwnerID]; ok {
			continue
		}
		seen[c.OwnerID] = struct{}{}
		owners = append(owners, c.OwnerID)
	}
	regions, err := e.users.RegionsOf(ctx, owners)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "match.owner_regions", err)
	}
	return regions, nil
}

// partitionByRegion 稳定划分：所有者与 region 相同的在 same，其余在 other，组内保持原顺序
func partitionByRegion(cases []*model.Case, regions map[uint]string, region string) (same, other []*model.Case) {
	same = make([]*model.Case, 0, len(cases))
	other = make([]*model.Case, 0, len(cases))
	for _, c := range cases {
		if regions[c.OwnerID] == region {
			same = append(same, c)
		} else {
			other = append(other, c)
		}
	}
	return same, other
}
