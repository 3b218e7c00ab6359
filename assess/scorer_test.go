package assess

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func eightRequiredCatalog() Catalog {
	var c Catalog
	for i := 1; i <= 8; i++ {
		c = append(c, Item{ID: fmt.Sprintf("req-%d", i), Label: fmt.Sprintf("Required %d", i), Required: true, Category: "Required"})
	}
	for i := 1; i <= 3; i++ {
		c = append(c, Item{ID: fmt.Sprintf("bonus-%d", i), Label: fmt.Sprintf("Bonus %d", i), Category: "Bonus"})
	}
	return c
}

func newPledgedScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	s, err := NewScorer(eightRequiredCatalog(), opts...)
	require.NoError(t, err)
	require.NoError(t, s.AcknowledgePledge())
	return s
}

// Catalog

func TestCatalogValidate(t *testing.T) {
	assert.ErrorIs(t, Catalog{}.Validate(), ErrEmptyCatalog)
	assert.ErrorIs(t, Catalog{{ID: ""}}.Validate(), ErrInvalidCatalog)
	assert.ErrorIs(t, Catalog{{ID: "a"}, {ID: "a"}}.Validate(), ErrInvalidCatalog)
	assert.NoError(t, eightRequiredCatalog().Validate())
}

func TestCatalogSets(t *testing.T) {
	c := eightRequiredCatalog()
	assert.Len(t, c.Required(), 8)
	assert.Equal(t, []string{"bonus-1", "bonus-2", "bonus-3"}, c.Bonus())

	it, ok := c.Lookup("req-3")
	require.True(t, ok)
	assert.Equal(t, "Required 3", it.Label)
	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestCatalogGroups(t *testing.T) {
	groups := eightRequiredCatalog().Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Required", groups[0].Category)
	assert.Len(t, groups[0].Items, 8)
	assert.Equal(t, "Bonus", groups[1].Category)
	assert.Len(t, groups[1].Items, 3)
}

// Scoring

func TestComputePenaltyFiveOfEight(t *testing.T) {
	s := newPledgedScorer(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Affirm(fmt.Sprintf("req-%d", i), true))
	}
	assert.Equal(t, 3, s.ComputePenalty())
	assert.Equal(t, "3 missed", s.Summary())
}

func TestComputePenaltyNothingAffirmed(t *testing.T) {
	s := newPledgedScorer(t)
	assert.Equal(t, 8, s.ComputePenalty())
	assert.Equal(t, 0, s.Bonus())
}

func TestBonusDoesNotReducePenalty(t *testing.T) {
	s := newPledgedScorer(t)
	require.NoError(t, s.Affirm("bonus-1", true))
	require.NoError(t, s.Affirm("bonus-2", true))
	assert.Equal(t, 8, s.ComputePenalty())
	assert.Equal(t, 2, s.Bonus())
}

func TestAffirmToggle(t *testing.T) {
	s := newPledgedScorer(t)
	require.NoError(t, s.Affirm("req-1", true))
	require.NoError(t, s.Affirm("req-1", false))
	assert.Empty(t, s.Affirmed())
	assert.Equal(t, 8, s.ComputePenalty())
}

func TestAllClear(t *testing.T) {
	s := newPledgedScorer(t)
	for _, id := range s.Catalog().Required() {
		require.NoError(t, s.Affirm(id, true))
	}
	assert.Equal(t, 0, s.ComputePenalty())
	assert.Equal(t, "All clear!", s.Summary())
}

func TestAffirmUnknownItem(t *testing.T) {
	s := newPledgedScorer(t)
	err := s.Affirm("ghost", true)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestAffirmRequiresPledge(t *testing.T) {
	s, err := NewScorer(eightRequiredCatalog())
	require.NoError(t, err)
	assert.False(t, s.Pledged())
	assert.ErrorIs(t, s.Affirm("req-1", true), ErrPledgeRequired)

	require.NoError(t, s.AcknowledgePledge())
	assert.NoError(t, s.Affirm("req-1", true))
}

func TestPledgeOptional(t *testing.T) {
	s, err := NewScorer(eightRequiredCatalog(), WithPledge(false))
	require.NoError(t, err)
	assert.NoError(t, s.Affirm("req-1", true))
}

// Submission

func TestSubmitLocksAffirmations(t *testing.T) {
	var got []Result
	stamp := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newPledgedScorer(t,
		WithSink(func(_ context.Context, r Result) error {
			got = append(got, r)
			return nil
		}),
		WithClock(func() time.Time { return stamp }))

	require.NoError(t, s.Affirm("req-2", true))
	require.NoError(t, s.Affirm("bonus-3", true))

	r, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])

	assert.Equal(t, []string{"req-2", "bonus-3"}, r.Affirmed)
	assert.Equal(t, []string{"req-1", "req-3", "req-4", "req-5", "req-6", "req-7", "req-8"}, r.MissedRequired)
	assert.Equal(t, []string{"bonus-3"}, r.BonusAffirmed)
	assert.Equal(t, 7, r.Penalty)
	assert.Equal(t, 1, r.Bonus)
	assert.Equal(t, 7, r.Adjusted)
	assert.Equal(t, stamp, r.FinalizedAt)

	assert.True(t, s.Finalized())
	assert.ErrorIs(t, s.Affirm("req-1", true), ErrFinalized)
	assert.ErrorIs(t, s.AcknowledgePledge(), ErrFinalized)
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrFinalized)
	assert.Len(t, got, 1, "sink must not be called twice")

	stored, ok := s.Result()
	assert.True(t, ok)
	assert.Equal(t, r, stored)
}

func TestSubmitRequiresPledge(t *testing.T) {
	calls := 0
	s, err := NewScorer(eightRequiredCatalog(), WithSink(func(context.Context, Result) error {
		calls++
		return nil
	}))
	require.NoError(t, err)

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrPledgeRequired)
	assert.Zero(t, calls, "sink must not run before the pledge")
	assert.False(t, s.Finalized())

	require.NoError(t, s.AcknowledgePledge())
	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, s.Finalized())
}

func TestSubmitSinkFailureKeepsScorerOpen(t *testing.T) {
	fail := errors.New("store offline")
	calls := 0
	s := newPledgedScorer(t, WithSink(func(context.Context, Result) error {
		calls++
		if calls == 1 {
			return fail
		}
		return nil
	}))

	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, fail)
	assert.False(t, s.Finalized())

	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Finalized())
}

func TestPolicies(t *testing.T) {
	tests := []struct {
		name           string
		policy         Policy
		penalty, bonus int
		want           int
	}{
		{"informational", Informational, 3, 2, 3},
		{"net of bonus", NetOfBonus, 3, 2, 1},
		{"net of bonus floors at zero", NetOfBonus, 1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy(tt.penalty, tt.bonus))
		})
	}
}

func TestSubmitAppliesPolicy(t *testing.T) {
	s := newPledgedScorer(t, WithPolicy(NetOfBonus))
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Affirm(fmt.Sprintf("req-%d", i), true))
	}
	require.NoError(t, s.Affirm("bonus-1", true))

	r, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Penalty)
	assert.Equal(t, 2, r.Adjusted)
	assert.Equal(t, 3, s.ComputePenalty(), "policy must not change the raw penalty")
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c, 11)

	required := 0
	for _, it := range c {
		if it.Required {
			required++
			assert.Equal(t, CategoryRequired, it.Category, it.ID)
		} else {
			assert.Equal(t, CategoryBonus, it.Category, it.ID)
		}
	}
	assert.Equal(t, 8, required)
}
