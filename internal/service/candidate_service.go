package service

import (
	"context"

	"case-exchange/internal/match"
	"case-exchange/internal/repository"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
)

// CandidatePage 一次浏览返回的候选案例
type CandidatePage struct {
	Tier     string      `json:"tier"`
	Items    []*CaseView `json:"items"`
	Degraded bool        `json:"degraded,omitempty"` // 查询失败且调用方允许降级为空结果
}

type CandidateService struct {
	engine      *match.Engine
	users       *repository.UserRepository
	likes       *repository.LikeRepository
	defaultSize int
}

func NewCandidateService(engine *match.Engine, users *repository.UserRepository, likes *repository.LikeRepository, defaultSize int) *CandidateService {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	return &CandidateService{engine: engine, users: users, likes: likes, defaultSize: defaultSize}
}

// Next 计算用户接下来可浏览的案例，已点赞的案例被排除
// degrade 为 true 时查询失败返回空结果并标记 Degraded，否则返回错误
func (s *CandidateService) Next(ctx context.Context, userID uint, limit int, degrade bool) (*CandidatePage, error) {
	page, err := s.next(ctx, userID, limit)
	if err == nil {
		return page, nil
	}
	if !degrade {
		return nil, err
	}
	logger.Warn("候选案例查询失败，按调用方要求降级为空结果",
		zap.Uint("user_id", userID),
		zap.Error(err),
	)
	return &CandidatePage{Tier: match.TierNone.String(), Items: []*CaseView{}, Degraded: true}, nil
}

func (s *CandidateService) next(ctx context.Context, userID uint, limit int) (*CandidatePage, error) {
	if limit <= 0 {
		limit = s.defaultSize
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.LikedItemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	cur, err := s.engine.NextCandidates(ctx, user, liked)
	if err != nil {
		return nil, err
	}
	items := cur.Take(limit)

	ownerIDs := make([]uint, 0, len(items))
	for _, c := range items {
		ownerIDs = append(ownerIDs, c.OwnerID)
	}
	owners, err := s.users.GetByIDs(ctx, dedupe(ownerIDs))
	if err != nil {
		return nil, err
	}

	page := &CandidatePage{Tier: cur.Tier().String(), Items: make([]*CaseView, 0, len(items))}
	for _, c := range items {
		page.Items = append(page.Items, &CaseView{Case: c, Owner: owners[c.OwnerID]})
	}
	return page, nil
}
