package service

import (
	"context"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
)

// LikeResult 点赞结果
type LikeResult struct {
	ItemID  uint               `json:"item_id"`
	Created bool               `json:"created"` // false 表示此前已点赞
	Match   *model.MutualMatch `json:"match,omitempty"`
}

type LikeService struct {
	cases    *repository.CaseRepository
	likes    *repository.LikeRepository
	detector *MutualDetector
	notifier Notifier
}

func NewLikeService(cases *repository.CaseRepository, likes *repository.LikeRepository, detector *MutualDetector, notifier Notifier) *LikeService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LikeService{cases: cases, likes: likes, detector: detector, notifier: notifier}
}

// RecordLike 记录点赞并同步检查互相点赞
// 重复点赞视为成功且不会再次触发检查
func (s *LikeService) RecordLike(ctx context.Context, userID, itemID uint) (*LikeResult, error) {
	const op = "like.record"

	item, err := s.cases.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == userID {
		return nil, apperr.Validation(op, "cannot like your own case")
	}
	if item.Archived() {
		return nil, apperr.Validation(op, "case %d is archived", itemID)
	}

	created, err := s.likes.Insert(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	result := &LikeResult{ItemID: itemID, Created: created}
	if !created {
		return result, nil
	}

	match, matchCreated, err := s.detector.OnLikeRecorded(ctx, userID, itemID, item.OwnerID)
	if err != nil {
		// 重复点赞不会再次触发检查，这里的日志是人工补录匹配的唯一依据
		logger.Error("点赞已记录，但互相点赞检查失败，需人工补录匹配",
			zap.Uint("user_id", userID),
			zap.Uint("item_id", itemID),
			zap.Uint("owner_id", item.OwnerID),
			zap.Error(err),
		)
		return result, &apperr.Error{
			Kind:    apperr.KindPartialFailure,
			Op:      op,
			Message: "like recorded but mutual match check failed",
			Err:     err,
		}
	}
	result.Match = match
	if matchCreated {
		logger.Info("互相点赞匹配成功",
			zap.Uint("match_id", match.ID),
			zap.Uint("user1_id", match.User1ID),
			zap.Uint("user2_id", match.User2ID),
		)
		s.notifier.FeedChanged(ctx, ReasonMutualMatch, match.User1ID, match.User2ID)
	}
	return result, nil
}
