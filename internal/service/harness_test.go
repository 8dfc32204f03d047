package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"case-exchange/config"
	"case-exchange/internal/match"
	"case-exchange/internal/model"
	"case-exchange/internal/repository"
	"case-exchange/internal/testutil"
	"case-exchange/pkg/jwt"

	"gorm.io/gorm"
)

type notice struct {
	reason  string
	userIDs []uint
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *recordingNotifier) FeedChanged(_ context.Context, reason string, userIDs ...uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{reason: reason, userIDs: userIDs})
}

func (n *recordingNotifier) byReason(reason string) []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notice
	for _, x := range n.notices {
		if x.reason == reason {
			out = append(out, x)
		}
	}
	return out
}

type memBadge struct {
	mu     sync.Mutex
	counts map[uint]int64
}

func (b *memBadge) Count(_ context.Context, userID uint) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[userID], nil
}

func (b *memBadge) Reset(_ context.Context, userID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.counts, userID)
	return nil
}

type memHistory struct {
	mu   sync.Mutex
	docs []*model.OfferTransition
}

func (h *memHistory) SaveTransition(_ context.Context, doc *model.OfferTransition) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs = append(h.docs, doc)
	return nil
}

func (h *memHistory) ListTransitions(_ context.Context, offerID uint) ([]*model.OfferTransition, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*model.OfferTransition
	for _, d := range h.docs {
		if d.OfferID == offerID {
			out = append(out, d)
		}
	}
	return out, nil
}

type harness struct {
	orm *gorm.DB
	fx  *testutil.Fixture
	ctx context.Context

	users      *repository.UserRepository
	cases      *repository.CaseRepository
	likes      *repository.LikeRepository
	matches    *repository.MatchRepository
	offers     *repository.OfferRepository
	dismissals *repository.DismissalRepository
	interests  *repository.InterestRepository

	notifier *recordingNotifier
	badge    *memBadge
	history  *memHistory

	userSvc      *UserService
	caseSvc      *CaseService
	likeSvc      *LikeService
	offerSvc     *OfferService
	feedSvc      *FeedService
	candidateSvc *CandidateService
	interestSvc  *InterestService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	orm := testutil.NewDB(t)
	h := &harness{
		orm:        orm,
		fx:         testutil.NewFixture(t, orm),
		ctx:        context.Background(),
		users:      repository.NewUserRepository(orm),
		cases:      repository.NewCaseRepository(orm),
		likes:      repository.NewLikeRepository(orm),
		matches:    repository.NewMatchRepository(orm),
		offers:     repository.NewOfferRepository(orm),
		dismissals: repository.NewDismissalRepository(orm),
		interests:  repository.NewInterestRepository(orm),
		notifier:   &recordingNotifier{},
		badge:      &memBadge{counts: map[uint]int64{}},
		history:    &memHistory{},
	}

	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test", Issuer: "case-exchange", ExpireTime: time.Hour})
	engine := match.NewEngine(h.cases, h.users, h.interests, match.WithShuffler(match.NewShuffler(3)))

	h.userSvc = NewUserService(h.users, jwtSvc)
	h.caseSvc = NewCaseService(h.cases, h.users, h.likes)
	h.likeSvc = NewLikeService(h.cases, h.likes, NewMutualDetector(h.cases, h.likes, h.matches), h.notifier)
	h.offerSvc = NewOfferService(h.offers, h.cases, h.users, h.caseSvc, h.history, h.notifier)
	h.feedSvc = NewFeedService(h.matches, h.offers, h.users, h.cases, h.dismissals, h.badge)
	h.candidateSvc = NewCandidateService(engine, h.users, h.likes, 20)
	h.interestSvc = NewInterestService(h.interests)
	return h
}

func (h *harness) countMatches(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := h.orm.Model(&model.MutualMatch{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
