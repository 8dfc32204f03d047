package service

import (
	"context"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
)

// Feed 用户的通知流
type Feed struct {
	MutualMatches             []*MatchEntry `json:"mutual_matches"`
	PendingOffersReceived     []*OfferEntry `json:"pending_offers_received"`
	ResolvedOffersForProposer []*OfferEntry `json:"resolved_offers_for_proposer"`
}

type FeedService struct {
	matches    *repository.MatchRepository
	offers     *repository.OfferRepository
	users      *repository.UserRepository
	cases      *repository.CaseRepository
	dismissals *repository.DismissalRepository
	badge      BadgeStore
}

func NewFeedService(
	matches *repository.MatchRepository,
	offers *repository.OfferRepository,
	users *repository.UserRepository,
	cases *repository.CaseRepository,
	dismissals *repository.DismissalRepository,
	badge BadgeStore,
) *FeedService {
	if badge == nil {
		badge = nopBadge{}
	}
	return &FeedService{
		matches:    matches,
		offers:     offers,
		users:      users,
		cases:      cases,
		dismissals: dismissals,
		badge:      badge,
	}
}

// feedRecords 通知流中未被该用户隐藏的原始记录
type feedRecords struct {
	matches  []*model.MutualMatch
	received []*model.ExchangeOffer
	resolved []*model.ExchangeOffer
}

func (s *FeedService) load(ctx context.Context, userID uint) (*feedRecords, error) {
	matches, err := s.matches.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.offers.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.offers.ListResolvedSent(ctx, userID)
	if err != nil {
		return nil, err
	}

	hiddenMatches, err := s.dismissals.Dismissed(ctx, userID, model.FeedKindMatch)
	if err != nil {
		return nil, err
	}
	hiddenReceived, err := s.dismissals.Dismissed(ctx, userID, model.FeedKindOfferReceived)
	if err != nil {
		return nil, err
	}
	hiddenResolved, err := s.dismissals.Dismissed(ctx, userID, model.FeedKindOfferResolved)
	if err != nil {
		return nil, err
	}

	return &feedRecords{
		matches:  visible(matches, hiddenMatches, func(m *model.MutualMatch) uint { return m.ID }),
		received: visible(received, hiddenReceived, func(o *model.ExchangeOffer) uint { return o.ID }),
		resolved: visible(resolved, hiddenResolved, func(o *model.ExchangeOffer) uint { return o.ID }),
	}, nil
}

// Feed 汇总互相点赞、收到的待处理报价和自己发起且已有结果的报价
// 读取后清零未读角标
func (s *FeedService) Feed(ctx context.Context, userID uint) (*Feed, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var userIDs, caseIDs []uint
	for _, m := range rec.matches {
		userIDs = append(userIDs, m.User1ID, m.User2ID)
		caseIDs = append(caseIDs, m.User1ItemID, m.User2ItemID)
	}
	for _, offers := range [][]*model.ExchangeOffer{rec.received, rec.resolved} {
		u, c := offerRefs(offers)
		userIDs = append(userIDs, u...)
		caseIDs = append(caseIDs, c...)
	}
	l, err := loadLookup(ctx, s.users, s.cases, userIDs, caseIDs)
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		MutualMatches:             make([]*MatchEntry, 0, len(rec.matches)),
		PendingOffersReceived:     l.offerEntries(rec.received),
		ResolvedOffersForProposer: l.offerEntries(rec.resolved),
	}
	for _, m := range rec.matches {
		feed.MutualMatches = append(feed.MutualMatches, l.matchEntry(userID, m))
	}

	if err := s.badge.Reset(ctx, userID); err != nil {
		logger.Warn("重置通知角标失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return feed, nil
}

// Clear 清空用户自己的通知流，只写入该用户的隐藏标记，对方看到的记录不受影响
func (s *FeedService) Clear(ctx context.Context, userID uint) (int, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	rows := make([]*model.FeedDismissal, 0, len(rec.matches)+len(rec.received)+len(rec.resolved))
	for _, m := range rec.matches {
		rows = append(rows, &model.FeedDismissal{UserID: userID, Kind: model.FeedKindMatch, RecordID: m.ID})
	}
	for _, o := range rec.received {
		rows = append(rows, &model.FeedDismissal{UserID: userID, Kind: model.FeedKindOfferReceived, RecordID: o.ID})
	}
	for _, o := range rec.resolved {
		rows = append(rows, &model.FeedDismissal{UserID: userID, Kind: model.FeedKindOfferResolved, RecordID: o.ID})
	}
	if err := s.dismissals.Dismiss(ctx, rows); err != nil {
		return 0, err
	}
	if err := s.badge.Reset(ctx, userID); err != nil {
		logger.Warn("重置通知角标失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return len(rows), nil
}

// Badge 未读通知数
func (s *FeedService) Badge(ctx context.Context, userID uint) (int64, error) {
	n, err := s.badge.Count(ctx, userID)
	if err != nil {
		return 0, apperr.Dependency("feed.badge", err)
	}
	return n, nil
}

func visible[T any](rows []T, hidden map[uint]struct{}, id func(T) uint) []T {
	if len(hidden) == 0 {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if _, ok := hidden[id(r)]; !ok {
			out = append(out, r)
		}
	}
	return out
}
