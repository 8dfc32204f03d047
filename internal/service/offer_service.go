package service

import (
	"context"
	"time"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/internal/repository/mongodb"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CaseArchiver 观察到交换被接受后归档双方案例
type CaseArchiver interface {
	ArchiveExchanged(ctx context.Context, offer *model.ExchangeOffer) error
}

type OfferService struct {
	offers   *repository.OfferRepository
	cases    *repository.CaseRepository
	users    *repository.UserRepository
	archiver CaseArchiver
	history  mongodb.HistoryRepository
	notifier Notifier
}

// NewOfferService archiver 与 history 可为 nil，对应的后续动作被跳过
func NewOfferService(
	offers *repository.OfferRepository,
	cases *repository.CaseRepository,
	users *repository.UserRepository,
	archiver CaseArchiver,
	history mongodb.HistoryRepository,
	notifier Notifier,
) *OfferService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &OfferService{
		offers:   offers,
		cases:    cases,
		users:    users,
		archiver: archiver,
		history:  history,
		notifier: notifier,
	}
}

// Create 发起交换报价：用自己的 offeredItemID 换对方的 requestedItemID
func (s *OfferService) Create(ctx context.Context, fromUserID, toUserID, offeredItemID, requestedItemID uint) (*model.ExchangeOffer, error) {
	const op = "offer.create"
	if fromUserID == toUserID {
		return nil, apperr.Validation(op, "cannot offer an exchange to yourself")
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	offered, err := s.cases.GetByID(ctx, offeredItemID)
	if err != nil {
		return nil, err
	}
	if offered.OwnerID != fromUserID {
		return nil, apperr.Validation(op, "case %d is not owned by user %d", offeredItemID, fromUserID)
	}
	requested, err := s.cases.GetByID(ctx, requestedItemID)
	if err != nil {
		return nil, err
	}
	if requested.OwnerID != toUserID {
		return nil, apperr.Validation(op, "case %d is not owned by user %d", requestedItemID, toUserID)
	}
	if offered.Archived() || requested.Archived() {
		return nil, apperr.Validation(op, "archived cases cannot be exchanged")
	}

	offer := &model.ExchangeOffer{
		FromUserID:      fromUserID,
		ToUserID:        toUserID,
		OfferedItemID:   offeredItemID,
		RequestedItemID: requestedItemID,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	logger.Info("交换报价已创建",
		zap.Uint("offer_id", offer.ID),
		zap.Uint("from_user_id", fromUserID),
		zap.Uint("to_user_id", toUserID),
	)
	s.notifier.FeedChanged(ctx, ReasonOfferReceived, toUserID)
	return offer, nil
}

// Respond 接收方接受或拒绝报价，每个报价只能成功应答一次
// 接受时双方评分与成功交换次数在同一事务中各加一；
// 用户行缺失导致加分未生效时状态仍然提交，返回 PartialFailure 以便人工核对
func (s *OfferService) Respond(ctx context.Context, responderID, offerID uint, status string) (*model.ExchangeOffer, error) {
	const op = "offer.respond"
	to, ok := model.ParseResponseStatus(status)
	if !ok {
		return nil, apperr.Validation(op, "status must be accepted or declined")
	}

	current, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if current.ToUserID != responderID {
		return nil, apperr.Validation(op, "only the receiving user can respond to offer %d", offerID)
	}
	if current.Status != model.OfferPending {
		return nil, apperr.Conflict(op, "offer %d is already %s", offerID, current.Status)
	}

	var missing []uint
	updated, err := s.offers.Transition(ctx, offerID, to, func(tx *gorm.DB, o *model.ExchangeOffer) error {
		missing = missing[:0]
		if o.Status != model.OfferAccepted {
			return nil
		}
		users := s.users.WithTx(tx)
		for _, id := range []uint{o.FromUserID, o.ToUserID} {
			found, err := users.UpdateRating(ctx, id, 1)
			if err != nil {
				return err
			}
			if !found {
				missing = append(missing, id)
			}
		}
		return nil
	})
	if err != nil {
		if !apperr.Is(err, apperr.KindConflict) {
			logger.Warn("报价状态更新失败", zap.Uint("offer_id", offerID), zap.Error(err))
		}
		return nil, err
	}

	logger.Info("报价已处理",
		zap.Uint("offer_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	s.afterTransition(ctx, responderID, updated)

	if len(missing) > 0 {
		logger.Error("报价已接受，但部分用户评分未更新，需要人工核对",
			zap.Uint("offer_id", updated.ID),
			zap.Uints("missing_user_ids", missing),
		)
		return updated, apperr.PartialFailure(op, "offer %d accepted but rating was not applied for users %v", updated.ID, missing)
	}
	return updated, nil
}

// afterTransition 状态切换后的后续动作，失败只记录日志
func (s *OfferService) afterTransition(ctx context.Context, responderID uint, offer *model.ExchangeOffer) {
	if s.history != nil {
		err := s.history.SaveTransition(ctx, &model.OfferTransition{
			OfferID:   offer.ID,
			OldStatus: model.OfferPending,
			NewStatus: offer.Status,
			ChangedBy: responderID,
			Timestamp: time.Now(),
		})
		if err != nil {
			logger.Warn("写入报价流转日志失败", zap.Uint("offer_id", offer.ID), zap.Error(err))
		}
	}

	if offer.Status == model.OfferAccepted && s.archiver != nil {
		if err := s.archiver.ArchiveExchanged(ctx, offer); err != nil {
			logger.Warn("交换案例归档失败", zap.Uint("offer_id", offer.ID), zap.Error(err))
		}
	}

	s.notifier.FeedChanged(ctx, ReasonOfferResolved, offer.FromUserID)
}

// History 用户作为任一方的已完成交换，最近在前
func (s *OfferService) History(ctx context.Context, userID uint) ([]*OfferEntry, error) {
	offers, err := s.offers.ListAcceptedInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}
	userIDs, caseIDs := offerRefs(offers)
	l, err := loadLookup(ctx, s.users, s.cases, userIDs, caseIDs)
	if err != nil {
		return nil, err
	}
	return l.offerEntries(offers), nil
}

// Transitions 报价的状态流转记录，只有报价双方可查看
func (s *OfferService) Transitions(ctx context.Context, userID, offerID uint) ([]*model.OfferTransition, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.FromUserID != userID && offer.ToUserID != userID {
		return nil, apperr.NotFound("offer.transitions", "offer %d not found", offerID)
	}
	if s.history == nil {
		return []*model.OfferTransition{}, nil
	}
	docs, err := s.history.ListTransitions(ctx, offerID)
	if err != nil {
		return nil, apperr.Dependency("offer.transitions", err)
	}
	if docs == nil {
		docs = []*model.OfferTransition{}
	}
	return docs, nil
}
