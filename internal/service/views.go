package service

import (
	"context"
	"time"

	"case-exchange/internal/model"
	"case-exchange/internal/repository"
)

// CaseView 案例及其所有者
type CaseView struct {
	*model.Case
	Owner *model.User `json:"owner,omitempty"`
}

// MatchEntry 从某个用户视角展开的互相点赞记录
type MatchEntry struct {
	ID          uint        `json:"id"`
	Counterpart *model.User `json:"counterpart"`
	MyItem      *model.Case `json:"my_item"`
	TheirItem   *model.Case `json:"their_item"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OfferEntry 报价及其双方用户与案例
type OfferEntry struct {
	*model.ExchangeOffer
	FromUser      *model.User `json:"from_user"`
	ToUser        *model.User `json:"to_user"`
	OfferedItem   *model.Case `json:"offered_item"`
	RequestedItem *model.Case `json:"requested_item"`
}

// lookup 按 id 解析关系记录引用的用户与案例，缺失的引用保持为 nil
type lookup struct {
	users map[uint]*model.User
	cases map[uint]*model.Case
}

func loadLookup(ctx context.Context, users *repository.UserRepository, cases *repository.CaseRepository, userIDs, caseIDs []uint) (*lookup, error) {
	u, err := users.GetByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, err
	}
	c, err := cases.GetByIDs(ctx, dedupe(caseIDs))
	if err != nil {
		return nil, err
	}
	return &lookup{users: u, cases: c}, nil
}

func (l *lookup) matchEntry(viewer uint, m *model.MutualMatch) *MatchEntry {
	other, mine, theirs := m.Counterpart(viewer)
	return &MatchEntry{
		ID:          m.ID,
		Counterpart: l.users[other],
		MyItem:      l.cases[mine],
		TheirItem:   l.cases[theirs],
		CreatedAt:   m.CreatedAt,
	}
}

func (l *lookup) offerEntry(o *model.ExchangeOffer) *OfferEntry {
	return &OfferEntry{
		ExchangeOffer: o,
		FromUser:      l.users[o.FromUserID],
		ToUser:        l.users[o.ToUserID],
		OfferedItem:   l.cases[o.OfferedItemID],
		RequestedItem: l.cases[o.RequestedItemID],
	}
}

func (l *lookup) offerEntries(offers []*model.ExchangeOffer) []*OfferEntry {
	out := make([]*OfferEntry, 0, len(offers))
	for _, o := range offers {
		out = append(out, l.offerEntry(o))
	}
	return out
}

// offerRefs 收集报价引用的用户与案例 id
func offerRefs(offers []*model.ExchangeOffer) (userIDs, caseIDs []uint) {
	for _, o := range offers {
		userIDs = append(userIDs, o.FromUserID, o.ToUserID)
		caseIDs = append(caseIDs, o.OfferedItemID, o.RequestedItemID)
	}
	return userIDs, caseIDs
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
