package service

import (
	"context"
	"strings"
	"time"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
)

// CaseInput 创建或修改案例的字段
type CaseInput struct {
	Title         string   `json:"title"`
	ItemType      string   `json:"item_type"`
	PriceCategory string   `json:"price_category"`
	Description   string   `json:"description"`
	Photos        []string `json:"photos"`
}

func (in *CaseInput) normalize(op string) error {
	in.Title = strings.TrimSpace(in.Title)
	in.ItemType = strings.TrimSpace(in.ItemType)
	in.PriceCategory = strings.TrimSpace(in.PriceCategory)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.ItemType == "" || in.PriceCategory == "" {
		return apperr.Validation(op, "title, item_type and price_category are required")
	}
	photos := in.Photos[:0:0]
	for _, p := range in.Photos {
		if p = strings.TrimSpace(p); p != "" {
			photos = append(photos, p)
		}
	}
	if len(photos) > model.MaxCasePhotos {
		return apperr.Validation(op, "at most %d photos are allowed", model.MaxCasePhotos)
	}
	in.Photos = photos
	return nil
}

type CaseService struct {
	cases *repository.CaseRepository
	users *repository.UserRepository
	likes *repository.LikeRepository
	now   func() time.Time
}

func NewCaseService(cases *repository.CaseRepository, users *repository.UserRepository, likes *repository.LikeRepository) *CaseService {
	return &CaseService{cases: cases, users: users, likes: likes, now: time.Now}
}

// Create 发布案例
func (s *CaseService) Create(ctx context.Context, ownerID uint, in CaseInput) (*model.Case, error) {
	if err := in.normalize("case.create"); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	c := &model.Case{
		OwnerID:       ownerID,
		Title:         in.Title,
		ItemType:      in.ItemType,
		PriceCategory: in.PriceCategory,
		Description:   in.Description,
	}
	c.SetPhotos(in.Photos)
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// owned 读取案例并确认属于 ownerID
func (s *CaseService) owned(ctx context.Context, op string, ownerID, caseID uint) (*model.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, apperr.Validation(op, "case %d is not owned by user %d", caseID, ownerID)
	}
	return c, nil
}

// Update 修改自己的案例，所有者不可变
func (s *CaseService) Update(ctx context.Context, ownerID, caseID uint, in CaseInput) (*model.Case, error) {
	const op = "case.update"
	if err := in.normalize(op); err != nil {
		return nil, err
	}
	c, err := s.owned(ctx, op, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	c.Title = in.Title
	c.ItemType = in.ItemType
	c.PriceCategory = in.PriceCategory
	c.Description = in.Description
	c.SetPhotos(in.Photos)
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.cases.GetByID(ctx, caseID)
}

// Delete 删除自己的案例
func (s *CaseService) Delete(ctx context.Context, ownerID, caseID uint) error {
	if _, err := s.owned(ctx, "case.delete", ownerID, caseID); err != nil {
		return err
	}
	return s.cases.Delete(ctx, caseID, ownerID)
}

// ListMine 自己未归档的案例
func (s *CaseService) ListMine(ctx context.Context, ownerID uint) ([]*model.Case, error) {
	return s.cases.ListByOwner(ctx, ownerID)
}

// ListArchived 自己已归档的案例
func (s *CaseService) ListArchived(ctx context.Context, ownerID uint) ([]*model.Case, error) {
	return s.cases.ListArchivedByOwner(ctx, ownerID)
}

// ListByUser 查看某个用户的资料及其未归档案例
func (s *CaseService) ListByUser(ctx context.Context, userID uint) (*model.User, []*model.Case, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	cases, err := s.cases.ListByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, cases, nil
}

// Restore 把归档案例恢复为可交换
func (s *CaseService) Restore(ctx context.Context, ownerID, caseID uint) (*model.Case, error) {
	const op = "case.restore"
	c, err := s.owned(ctx, op, ownerID, caseID)
	if err != nil {
		return nil, err
	}
	if !c.Archived() {
		return nil, apperr.Conflict(op, "case %d is not archived", caseID)
	}
	if err := s.cases.Restore(ctx, caseID, ownerID); err != nil {
		return nil, err
	}
	return s.cases.GetByID(ctx, caseID)
}

// ArchiveExchanged 交换被接受后归档双方的案例
func (s *CaseService) ArchiveExchanged(ctx context.Context, offer *model.ExchangeOffer) error {
	n, err := s.cases.Archive(ctx, []uint{offer.OfferedItemID, offer.RequestedItemID}, s.now())
	if err != nil {
		return err
	}
	logger.Info("交换完成，案例已归档",
		zap.Uint("offer_id", offer.ID),
		zap.Int64("archived", n),
	)
	return nil
}

// Favorites 用户点赞过的案例，最近点赞在前；已删除的案例跳过
func (s *CaseService) Favorites(ctx context.Context, userID uint) ([]*CaseView, error) {
	likes, err := s.likes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.ItemID)
	}
	cases, err := s.cases.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.withOwners(ctx, ids, cases)
}

// withOwners 按 ids 的顺序组装案例视图
func (s *CaseService) withOwners(ctx context.Context, ids []uint, cases map[uint]*model.Case) ([]*CaseView, error) {
	owners := make([]uint, 0, len(cases))
	for _, c := range cases {
		owners = append(owners, c.OwnerID)
	}
	users, err := s.users.GetByIDs(ctx, dedupe(owners))
	if err != nil {
		return nil, err
	}
	out := make([]*CaseView, 0, len(ids))
	for _, id := range ids {
		c, ok := cases[id]
		if !ok {
			continue
		}
		out = append(out, &CaseView{Case: c, Owner: users[c.OwnerID]})
	}
	return out, nil
}
