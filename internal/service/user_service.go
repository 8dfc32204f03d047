package service

import (
	"context"
	"fmt"
	"strings"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	repo       *repository.UserRepository
	jwtService *jwt.JWTService
}

func NewUserService(repo *repository.UserRepository, jwtService *jwt.JWTService) *UserService {
	return &UserService{repo: repo, jwtService: jwtService}
}

// Rating 用户评分
type Rating struct {
	UserID              uint `json:"user_id"`
	Rating              int  `json:"rating"`
	SuccessfulExchanges int  `json:"successful_exchanges"`
}

// SignIn 以 Telegram 身份登录，首次登录时创建用户
func (s *UserService) SignIn(ctx context.Context, telegramID, name, username string) (*model.User, string, bool, error) {
	const op = "user.signin"
	telegramID = strings.TrimSpace(telegramID)
	if telegramID == "" {
		return nil, "", false, apperr.Validation(op, "telegram_id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = username
	}

	user, created, err := s.repo.FirstOrCreateByTelegramID(ctx, &model.User{
		TelegramID: telegramID,
		Name:       name,
		Username:   strings.TrimSpace(username),
	})
	if err != nil {
		return nil, "", false, err
	}
	if created {
		logger.Info("新用户注册", zap.Uint("user_id", user.ID))
	}

	// 使用用户ID作为 subject
	token, err := s.jwtService.GenerateToken(
		fmt.Sprintf("%d", user.ID),
		map[string]interface{}{"username": user.Username},
	)
	if err != nil {
		return nil, "", false, apperr.Wrap(apperr.KindUnknown, op, err)
	}
	return user, token, created, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, userID uint) (*model.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateRegion 设置地区，空字符串表示清除
func (s *UserService) UpdateRegion(ctx context.Context, userID uint, region string) (*model.User, error) {
	region = strings.TrimSpace(region)
	if len(region) > 64 {
		return nil, apperr.Validation("user.update_region", "region is too long")
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRegion(ctx, userID, region); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

// GetRating 用户评分与成功交换次数
func (s *UserService) GetRating(ctx context.Context, userID uint) (*Rating, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Rating{UserID: u.ID, Rating: u.Rating, SuccessfulExchanges: u.SuccessfulExchanges}, nil
}
