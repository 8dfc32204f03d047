package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"
	"case-exchange/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLikeInsertIsIdempotent(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewLikeRepository(orm)
	ctx := context.Background()

	alice := fx.User("alice", "Kyiv")
	bob := fx.User("bob", "Kyiv")
	bike := fx.Case(bob, "bike", "mid")

	created, err := repo.Insert(ctx, alice.ID, bike.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Insert(ctx, alice.ID, bike.ID)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := repo.Count(ctx, alice.ID, bike.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLikesRestrictedToItemsOldestFirst(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewLikeRepository(orm)
	ctx := context.Background()

	alice := fx.User("alice", "")
	bob := fx.User("bob", "")
	a1 := fx.Case(alice, "bike", "mid")
	a2 := fx.Case(alice, "lamp", "low")
	other := fx.Case(fx.User("carol", ""), "bike", "mid")

	fx.Like(bob, a2)
	fx.Like(bob, other)
	fx.Like(bob, a1)

	likes, err := repo.ListByUserRestrictedToItems(ctx, bob.ID, []uint{a1.ID, a2.ID})
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, a2.ID, likes[0].ItemID)
	assert.Equal(t, a1.ID, likes[1].ItemID)

	likes, err = repo.ListByUserRestrictedToItems(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestMatchCreateIfAbsentBothOrientations(t *testing.T) {
	orm := testutil.NewDB(t)
	repo := NewMatchRepository(orm)
	ctx := context.Background()

	m, created, err := repo.CreateIfAbsent(ctx, &model.MutualMatch{User1ID: 1, User2ID: 2, User1ItemID: 10, User2ItemID: 20})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.CreateIfAbsent(ctx, &model.MutualMatch{User1ID: 1, User2ID: 2, User1ItemID: 10, User2ItemID: 20})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m.ID, again.ID)

	mirrored, created, err := repo.CreateIfAbsent(ctx, &model.MutualMatch{User1ID: 2, User2ID: 1, User1ItemID: 20, User2ItemID: 10})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m.ID, mirrored.ID)

	var n int64
	require.NoError(t, orm.Model(&model.MutualMatch{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestMatchMirroredRowRejectedByIndex(t *testing.T) {
	orm := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, orm.WithContext(ctx).Create(&model.MutualMatch{User1ID: 1, User2ID: 2, User1ItemID: 10, User2ItemID: 20}).Error)

	// 绕过查重直接写入反方向的记录，唯一索引必须拒绝
	err := orm.WithContext(ctx).Create(&model.MutualMatch{User1ID: 2, User2ID: 1, User1ItemID: 20, User2ItemID: 10}).Error
	require.Error(t, err)

	assert.Equal(t, model.MatchPairKey(1, 10, 2, 20), model.MatchPairKey(2, 20, 1, 10))
	assert.NotEqual(t, model.MatchPairKey(1, 10, 2, 20), model.MatchPairKey(1, 20, 2, 10))
}

func TestMatchCreateIfAbsentConcurrentOppositeOrientations(t *testing.T) {
	orm := testutil.NewDB(t)
	repo := NewMatchRepository(orm)
	ctx := context.Background()

	const rounds = 20
	const racers = 4
	for r := uint(0); r < rounds; r++ {
		userA, userB := 100+2*r, 101+2*r
		itemX, itemY := 1000+2*r, 1001+2*r

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
			ids     = map[uint]struct{}{}
		)
		start := make(chan struct{})
		for i := 0; i < racers; i++ {
			m := &model.MutualMatch{User1ID: userA, User2ID: userB, User1ItemID: itemY, User2ItemID: itemX}
			if i%2 == 1 {
				m = &model.MutualMatch{User1ID: userB, User2ID: userA, User1ItemID: itemX, User2ItemID: itemY}
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				got, ok, err := repo.CreateIfAbsent(ctx, m)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				ids[got.ID] = struct{}{}
				if ok {
					created++
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, created, "round %d", r)
		assert.Len(t, ids, 1, "round %d", r)
	}

	var n int64
	require.NoError(t, orm.Model(&model.MutualMatch{}).Count(&n).Error)
	assert.EqualValues(t, rounds, n)
}

func TestCaseQueriesSkipArchivedAndOwn(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewCaseRepository(orm)
	ctx := context.Background()

	me := fx.User("me", "Kyiv")
	other := fx.User("other", "Kyiv")
	mine := fx.Case(me, "bike", "mid")
	old := fx.Case(other, "bike", "mid")
	gone := fx.Case(other, "bike", "mid")
	fresh := fx.Case(other, "bike", "mid")

	n, err := repo.Archive(ctx, []uint{gone.ID}, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.ListByInterest(ctx, "bike", "mid", me.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{fresh.ID, old.ID}, caseIDs(got))

	got, err = repo.ListExcludingOwner(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{mine.ID}, caseIDs(got))

	got, err = repo.ListByOwners(ctx, []uint{me.ID, other.ID}, me.ID, []uint{fresh.ID}, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{old.ID}, caseIDs(got))

	archived, err := repo.ListArchivedByOwner(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{gone.ID}, caseIDs(archived))

	require.NoError(t, repo.Restore(ctx, gone.ID, other.ID))
	err = repo.Restore(ctx, gone.ID, other.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCaseDeleteIsOwnerScoped(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewCaseRepository(orm)
	ctx := context.Background()

	owner := fx.User("owner", "")
	stranger := fx.User("stranger", "")
	c := fx.Case(owner, "lamp", "low")

	err := repo.Delete(ctx, c.ID, stranger.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, repo.Delete(ctx, c.ID, owner.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserRegionsAndRating(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewUserRepository(orm)
	ctx := context.Background()

	k1 := fx.User("k1", "Kyiv")
	k2 := fx.User("k2", "Kyiv")
	l1 := fx.User("l1", "Lviv")
	none := fx.User("none", "")

	ids, err := repo.ListIDsByRegion(ctx, "Kyiv")
	require.NoError(t, err)
	assert.Equal(t, []uint{k1.ID, k2.ID}, ids)

	regions, err := repo.RegionsOf(ctx, []uint{k1.ID, l1.ID, none.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{k1.ID: "Kyiv", l1.ID: "Lviv"}, regions)

	found, err := repo.UpdateRating(ctx, k1.ID, 1)
	require.NoError(t, err)
	assert.True(t, found)
	fresh := fx.Reload(k1)
	assert.Equal(t, 1, fresh.Rating)
	assert.Equal(t, 1, fresh.SuccessfulExchanges)

	found, err = repo.UpdateRating(ctx, 9999, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUserFirstOrCreateByTelegramID(t *testing.T) {
	orm := testutil.NewDB(t)
	repo := NewUserRepository(orm)
	ctx := context.Background()

	u, created, err := repo.FirstOrCreateByTelegramID(ctx, &model.User{TelegramID: "42", Name: "Ann"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FirstOrCreateByTelegramID(ctx, &model.User{TelegramID: "42", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Ann", again.Name)
}

func TestOfferTransitionCompareAndSet(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewOfferRepository(orm)
	ctx := context.Background()

	a := fx.User("a", "")
	b := fx.User("b", "")
	offer := fx.Offer(a, b, fx.Case(a, "bike", "mid"), fx.Case(b, "lamp", "low"))

	calls := 0
	updated, err := repo.Transition(ctx, offer.ID, model.OfferDeclined, func(tx *gorm.DB, o *model.ExchangeOffer) error {
		calls++
		assert.Equal(t, model.OfferDeclined, o.Status)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.OfferDeclined, updated.Status)
	assert.Equal(t, 1, calls)

	_, err = repo.Transition(ctx, offer.ID, model.OfferAccepted, func(tx *gorm.DB, o *model.ExchangeOffer) error {
		calls++
		return nil
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 1, calls)

	_, err = repo.Transition(ctx, 9999, model.OfferAccepted, nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOfferTransitionRollsBackOnSideEffectFailure(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewOfferRepository(orm)
	ctx := context.Background()

	a := fx.User("a", "")
	b := fx.User("b", "")
	offer := fx.Offer(a, b, fx.Case(a, "bike", "mid"), fx.Case(b, "lamp", "low"))

	_, err := repo.Transition(ctx, offer.ID, model.OfferAccepted, func(tx *gorm.DB, o *model.ExchangeOffer) error {
		if _, err := NewUserRepository(orm).WithTx(tx).UpdateRating(ctx, a.ID, 1); err != nil {
			return err
		}
		return apperr.Dependency("test", assert.AnError)
	})
	assert.True(t, apperr.Is(err, apperr.KindDependency))

	reloaded, err := repo.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferPending, reloaded.Status)
	assert.Equal(t, 0, fx.Reload(a).Rating)
}

func TestOfferTransitionConcurrentExactlyOnce(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewOfferRepository(orm)
	ctx := context.Background()

	a := fx.User("a", "")
	b := fx.User("b", "")
	offer := fx.Offer(a, b, fx.Case(a, "bike", "mid"), fx.Case(b, "lamp", "low"))

	const racers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Transition(ctx, offer.ID, model.OfferAccepted, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, racers-1, conflicts)
}

func TestOfferListings(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewOfferRepository(orm)
	ctx := context.Background()

	a := fx.User("a", "")
	b := fx.User("b", "")
	ca, cb := fx.Case(a, "bike", "mid"), fx.Case(b, "lamp", "low")
	pending := fx.Offer(a, b, ca, cb)
	accepted := fx.Offer(a, b, ca, cb)
	declined := fx.Offer(b, a, cb, ca)

	_, err := repo.Transition(ctx, accepted.ID, model.OfferAccepted, nil)
	require.NoError(t, err)
	_, err = repo.Transition(ctx, declined.ID, model.OfferDeclined, nil)
	require.NoError(t, err)

	received, err := repo.ListPendingReceived(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, pending.ID, received[0].ID)

	resolved, err := repo.ListResolvedSent(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, accepted.ID, resolved[0].ID)

	history, err := repo.ListAcceptedInvolving(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, accepted.ID, history[0].ID)
}

func TestDismissalsAreIdempotent(t *testing.T) {
	orm := testutil.NewDB(t)
	repo := NewDismissalRepository(orm)
	ctx := context.Background()

	rows := []*model.FeedDismissal{
		{UserID: 1, Kind: model.FeedKindMatch, RecordID: 7},
		{UserID: 1, Kind: model.FeedKindOfferReceived, RecordID: 7},
	}
	require.NoError(t, repo.Dismiss(ctx, rows))
	require.NoError(t, repo.Dismiss(ctx, []*model.FeedDismissal{{UserID: 1, Kind: model.FeedKindMatch, RecordID: 7}}))

	set, err := repo.Dismissed(ctx, 1, model.FeedKindMatch)
	require.NoError(t, err)
	assert.Equal(t, map[uint]struct{}{7: {}}, set)

	set, err = repo.Dismissed(ctx, 2, model.FeedKindMatch)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestInterestDeleteIsOwnerScoped(t *testing.T) {
	orm := testutil.NewDB(t)
	fx := testutil.NewFixture(t, orm)
	repo := NewInterestRepository(orm)
	ctx := context.Background()

	u := fx.User("u", "")
	in := fx.Interest(u, "bike", "mid")

	err := repo.Delete(ctx, in.ID, u.ID+1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, repo.Delete(ctx, in.ID, u.ID))

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func caseIDs(cases []*model.Case) []uint {
	ids := make([]uint, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID)
	}
	return ids
}
