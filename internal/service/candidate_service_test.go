package service

import (
	"testing"

	"case-exchange/internal/apperr"
	"case-exchange/internal/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesSkipLikedAndResolveOwners(t *testing.T) {
	h := newHarness(t)
	u := h.fx.User("u", "Kyiv")
	h.fx.Interest(u, "bike", "mid")
	kyiv := h.fx.User("kyiv", "Kyiv")
	lviv := h.fx.User("lviv", "Lviv")
	a := h.fx.Case(kyiv, "bike", "mid")
	b := h.fx.Case(lviv, "bike", "mid")

	page, err := h.candidateSvc.Next(h.ctx, u.ID, 0, false)
	require.NoError(t, err)
	assert.Equal(t, match.TierInterest.String(), page.Tier)
	require.Len(t, page.Items, 2)
	assert.Equal(t, a.ID, page.Items[0].ID)
	assert.Equal(t, kyiv.ID, page.Items[0].Owner.ID)
	assert.Equal(t, b.ID, page.Items[1].ID)

	_, err = h.likeSvc.RecordLike(h.ctx, u.ID, a.ID)
	require.NoError(t, err)

	page, err = h.candidateSvc.Next(h.ctx, u.ID, 1, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)
}

func TestCandidatesUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.candidateSvc.Next(h.ctx, 9999, 10, false)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCandidateFailureDegradesOnlyWhenAsked(t *testing.T) {
	h := newHarness(t)
	u := h.fx.User("u", "")
	sqlDB, err := h.orm.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = h.candidateSvc.Next(h.ctx, u.ID, 10, false)
	assert.True(t, apperr.Is(err, apperr.KindDependency))

	page, err := h.candidateSvc.Next(h.ctx, u.ID, 10, true)
	require.NoError(t, err)
	assert.True(t, page.Degraded)
	assert.Empty(t, page.Items)
}
