package service

import (
	"sync"
	"testing"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerSetup struct {
	a, b       *model.User
	ya, xb     *model.Case
	offer      *model.ExchangeOffer
	stranger   *model.User
	strangerCs *model.Case
}

func setupOffer(t *testing.T, h *harness) *offerSetup {
	t.Helper()
	s := &offerSetup{
		a:        h.fx.User("a", "Kyiv"),
		b:        h.fx.User("b", "Kyiv"),
		stranger: h.fx.User("s", ""),
	}
	s.ya = h.fx.Case(s.a, "lamp", "low")
	s.xb = h.fx.Case(s.b, "bike", "mid")
	s.strangerCs = h.fx.Case(s.stranger, "sofa", "high")

	offer, err := h.offerSvc.Create(h.ctx, s.a.ID, s.b.ID, s.ya.ID, s.xb.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OfferPending, offer.Status)
	s.offer = offer
	return s
}

func TestCreateOfferValidation(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)

	_, err := h.offerSvc.Create(h.ctx, s.a.ID, s.a.ID, s.ya.ID, s.ya.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "self offer")

	_, err = h.offerSvc.Create(h.ctx, s.a.ID, s.b.ID, s.strangerCs.ID, s.xb.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "offered case not owned by proposer")

	_, err = h.offerSvc.Create(h.ctx, s.a.ID, s.b.ID, s.ya.ID, s.strangerCs.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "requested case not owned by receiver")

	_, err = h.offerSvc.Create(h.ctx, s.a.ID, s.b.ID, 9999, s.xb.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = h.offerSvc.Create(h.ctx, s.a.ID, 9999, s.ya.ID, s.xb.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	received := h.notifier.byReason(ReasonOfferReceived)
	require.Len(t, received, 1)
	assert.Equal(t, []uint{s.b.ID}, received[0].userIDs)
}

func TestAcceptOfferUpdatesBothRatingsAndArchives(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)

	updated, err := h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, model.OfferAccepted, updated.Status)

	for _, u := range []*model.User{s.a, s.b} {
		fresh := h.fx.Reload(u)
		assert.Equal(t, 1, fresh.Rating)
		assert.Equal(t, 1, fresh.SuccessfulExchanges)
	}
	assert.Zero(t, h.fx.Reload(s.stranger).Rating)

	for _, id := range []uint{s.ya.ID, s.xb.ID} {
		c, err := h.cases.GetByID(h.ctx, id)
		require.NoError(t, err)
		assert.True(t, c.Archived())
	}

	docs, err := h.offerSvc.Transitions(h.ctx, s.a.ID, s.offer.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.OfferPending, docs[0].OldStatus)
	assert.Equal(t, model.OfferAccepted, docs[0].NewStatus)
	assert.Equal(t, s.b.ID, docs[0].ChangedBy)

	resolved := h.notifier.byReason(ReasonOfferResolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, []uint{s.a.ID}, resolved[0].userIDs)

	history, err := h.offerSvc.History(h.ctx, s.b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, s.offer.ID, history[0].ID)
	assert.Equal(t, s.a.ID, history[0].FromUser.ID)
	assert.Equal(t, s.xb.ID, history[0].RequestedItem.ID)
}

func TestDeclineThenAcceptConflicts(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)

	declined, err := h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "declined")
	require.NoError(t, err)
	assert.Equal(t, model.OfferDeclined, declined.Status)

	_, err = h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	for _, u := range []*model.User{s.a, s.b} {
		fresh := h.fx.Reload(u)
		assert.Zero(t, fresh.Rating)
		assert.Zero(t, fresh.SuccessfulExchanges)
	}
	c, err := h.cases.GetByID(h.ctx, s.ya.ID)
	require.NoError(t, err)
	assert.False(t, c.Archived())
}

func TestConcurrentAcceptAppliesExactlyOnce(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)

	const racers = 6
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
			_, err := h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "accepted")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperr.Is(err, apperr.KindConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, racers-1, conflicts)
	assert.Equal(t, 1, h.fx.Reload(s.a).Rating)
	assert.Equal(t, 1, h.fx.Reload(s.b).Rating)
}

func TestRespondValidation(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)

	_, err := h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "maybe")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = h.offerSvc.Respond(h.ctx, s.a.ID, s.offer.ID, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindValidation), "proposer cannot respond")

	_, err = h.offerSvc.Respond(h.ctx, s.b.ID, 9999, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = h.offerSvc.Transitions(h.ctx, s.stranger.ID, s.offer.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAcceptWithMissingUserIsPartialFailure(t *testing.T) {
	h := newHarness(t)
	s := setupOffer(t, h)
	require.NoError(t, h.orm.Delete(&model.User{}, s.a.ID).Error)

	updated, err := h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "accepted")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPartialFailure))
	require.NotNil(t, updated)
	assert.Equal(t, model.OfferAccepted, updated.Status)
	assert.Equal(t, 1, h.fx.Reload(s.b).Rating)

	_, err = h.offerSvc.Respond(h.ctx, s.b.ID, s.offer.ID, "accepted")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
