package service

import (
	"context"
	"strings"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
)

type InterestService struct {
	repo *repository.InterestRepository
}

func NewInterestService(repo *repository.InterestRepository) *InterestService {
	return &InterestService{repo: repo}
}

// Add 添加兴趣，类型与价格档位都必填
func (s *InterestService) Add(ctx context.Context, userID uint, itemType, priceCategory string) (*model.Interest, error) {
	itemType = strings.TrimSpace(itemType)
	priceCategory = strings.TrimSpace(priceCategory)
	if itemType == "" || priceCategory == "" {
		return nil, apperr.Validation("interest.add", "item_type and price_category are required")
	}
	in := &model.Interest{UserID: userID, ItemType: itemType, PriceCategory: priceCategory}
	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// List 用户的兴趣，最新在前
func (s *InterestService) List(ctx context.Context, userID uint) ([]*model.Interest, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete 删除自己的兴趣
func (s *InterestService) Delete(ctx context.Context, userID, interestID uint) error {
	return s.repo.Delete(ctx, interestID, userID)
}
