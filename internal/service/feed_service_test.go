package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCollectsAllThreeCategories(t *testing.T) {
	h := newHarness(t)
	a := h.fx.User("a", "")
	b := h.fx.User("b", "")
	ya := h.fx.Case(a, "lamp", "low")
	xb := h.fx.Case(b, "bike", "mid")
	zb := h.fx.Case(b, "sofa", "high")

	h.fx.Like(b, ya)
	_, err := h.likeSvc.RecordLike(h.ctx, a.ID, xb.ID)
	require.NoError(t, err)

	pending, err := h.offerSvc.Create(h.ctx, b.ID, a.ID, zb.ID, ya.ID)
	require.NoError(t, err)
	resolved, err := h.offerSvc.Create(h.ctx, a.ID, b.ID, ya.ID, xb.ID)
	require.NoError(t, err)
	_, err = h.offerSvc.Respond(h.ctx, b.ID, resolved.ID, "declined")
	require.NoError(t, err)

	feed, err := h.feedSvc.Feed(h.ctx, a.ID)
	require.NoError(t, err)

	require.Len(t, feed.MutualMatches, 1)
	m := feed.MutualMatches[0]
	assert.Equal(t, b.ID, m.Counterpart.ID)
	assert.Equal(t, ya.ID, m.MyItem.ID)
	assert.Equal(t, xb.ID, m.TheirItem.ID)

	require.Len(t, feed.PendingOffersReceived, 1)
	assert.Equal(t, pending.ID, feed.PendingOffersReceived[0].ID)
	assert.Equal(t, b.ID, feed.PendingOffersReceived[0].FromUser.ID)
	assert.Equal(t, zb.ID, feed.PendingOffersReceived[0].OfferedItem.ID)

	require.Len(t, feed.ResolvedOffersForProposer, 1)
	assert.Equal(t, resolved.ID, feed.ResolvedOffersForProposer[0].ID)

	other, err := h.feedSvc.Feed(h.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, other.MutualMatches, 1)
	assert.Equal(t, a.ID, other.MutualMatches[0].Counterpart.ID)
	assert.Equal(t, xb.ID, other.MutualMatches[0].MyItem.ID)
	assert.Empty(t, other.PendingOffersReceived)
	assert.Empty(t, other.ResolvedOffersForProposer)
}

func TestClearFeedOnlyHidesOwnView(t *testing.T) {
	h := newHarness(t)
	a := h.fx.User("a", "")
	b := h.fx.User("b", "")
	ya := h.fx.Case(a, "lamp", "low")
	xb := h.fx.Case(b, "bike", "mid")
	h.fx.Like(b, ya)
	_, err := h.likeSvc.RecordLike(h.ctx, a.ID, xb.ID)
	require.NoError(t, err)
	_, err = h.offerSvc.Create(h.ctx, b.ID, a.ID, xb.ID, ya.ID)
	require.NoError(t, err)

	n, err := h.feedSvc.Clear(h.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mine, err := h.feedSvc.Feed(h.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, mine.MutualMatches)
	assert.Empty(t, mine.PendingOffersReceived)

	theirs, err := h.feedSvc.Feed(h.ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, theirs.MutualMatches, 1)
	assert.EqualValues(t, 1, h.countMatches(t))

	// 清空后仍可以处理报价
	offers, err := h.offers.ListPendingReceived(h.ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	n, err = h.feedSvc.Clear(h.ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFeedReadResetsBadge(t *testing.T) {
	h := newHarness(t)
	u := h.fx.User("u", "")
	h.badge.counts[u.ID] = 3

	n, err := h.feedSvc.Badge(h.ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = h.feedSvc.Feed(h.ctx, u.ID)
	require.NoError(t, err)

	n, err = h.feedSvc.Badge(h.ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
