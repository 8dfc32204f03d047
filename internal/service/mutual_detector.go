package service

import (
	"context"

	"case-exchange/internal/model"
	"case-exchange/internal/repository"
)

// MutualDetector 判断新点赞是否与对方此前的点赞构成互相点赞
type MutualDetector struct {
	cases   *repository.CaseRepository
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
}

func NewMutualDetector(cases *repository.CaseRepository, likes *repository.LikeRepository, matches *repository.MatchRepository) *MutualDetector {
	return &MutualDetector{cases: cases, likes: likes, matches: matches}
}

// OnLikeRecorded 在点赞写入之后同步调用
// 所有者对点赞者案例的最早一次点赞决定匹配中点赞者一方的案例；等价记录已存在时 created 为 false
func (d *MutualDetector) OnLikeRecorded(ctx context.Context, likerID, likedItemID, ownerID uint) (*model.MutualMatch, bool, error) {
	myItems, err := d.cases.ActiveIDsByOwner(ctx, likerID)
	if err != nil {
		return nil, false, err
	}
	if len(myItems) == 0 {
		return nil, false, nil
	}

	likedBack, err := d.likes.ListByUserRestrictedToItems(ctx, ownerID, myItems)
	if err != nil {
		return nil, false, err
	}
	if len(likedBack) == 0 {
		return nil, false, nil
	}

	return d.matches.CreateIfAbsent(ctx, &model.MutualMatch{
		User1ID:     likerID,
		User2ID:     ownerID,
		User1ItemID: likedBack[0].ItemID,
		User2ItemID: likedItemID,
	})
}
