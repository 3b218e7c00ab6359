package assess

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Policy turns the raw penalty and bonus counts into the figure reported
// to the narrative layer. It never changes ComputePenalty.
type Policy func(penalty, bonus int) int

// Informational reports the penalty unchanged; bonus items are shown but
// do not count.
func Informational(penalty, _ int) int {
	return penalty
}

// NetOfBonus lets each affirmed bonus item cancel one missed required item,
// never going below zero.
func NetOfBonus(penalty, bonus int) int {
	return max(penalty-bonus, 0)
}

// Result is a finalized self-assessment.
type Result struct {
	// Affirmed lists the remembered ids in catalog order.
	Affirmed []string `json:"affirmed" cbor:"affirmed"`
	// MissedRequired is the required ids that were not affirmed.
	MissedRequired []string `json:"missed_required" cbor:"missed_required"`
	// BonusAffirmed is the affirmed ids from the bonus set.
	BonusAffirmed []string `json:"bonus_affirmed" cbor:"bonus_affirmed"`
	// Penalty is the count of missed required items.
	Penalty int `json:"penalty" cbor:"penalty"`
	// Bonus is the count of affirmed bonus items.
	Bonus int `json:"bonus" cbor:"bonus"`
	// Adjusted is the penalty after the policy was applied.
	Adjusted    int       `json:"adjusted" cbor:"adjusted"`
	FinalizedAt time.Time `json:"finalized_at" cbor:"finalized_at"`
}

// Sink receives the result on Submit. A non-nil error aborts the
// submission, leaving the scorer open so it can be retried.
type Sink func(ctx context.Context, r Result) error

// Option configures a Scorer.
type Option func(*Scorer)

// WithPolicy sets the penalty policy. The default is Informational.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithSink sets the receiver of the finalized result.
func WithSink(sink Sink) Option {
	return func(s *Scorer) {
		s.sink = sink
	}
}

// WithClock sets the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPledge controls whether the honor pledge must be acknowledged before
// items can be affirmed. It is required by default.
func WithPledge(required bool) Option {
	return func(s *Scorer) {
		s.pledged = !required
	}
}

// Scorer collects affirmations and computes the penalty.
// Scorer is safe for concurrent use.
type Scorer struct {
	mu        sync.Mutex
	catalog   Catalog
	affirmed  map[string]bool
	pledged   bool
	finalized bool
	result    Result

	policy Policy
	sink   Sink
	now    func() time.Time
}

// NewScorer creates a scorer for a validated catalog.
func NewScorer(c Catalog, opts ...Option) (*Scorer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		catalog:  append(Catalog(nil), c...),
		affirmed: make(map[string]bool),
		policy:   Informational,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Catalog returns the checklist being scored.
func (s *Scorer) Catalog() Catalog {
	return append(Catalog(nil), s.catalog...)
}

// AcknowledgePledge records the honor pledge.
func (s *Scorer) AcknowledgePledge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	s.pledged = true
	return nil
}

// Pledged reports whether the honor pledge has been acknowledged.
func (s *Scorer) Pledged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pledged
}

// Affirm marks an item as remembered, or clears the mark.
func (s *Scorer) Affirm(id string, remembered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.finalized:
		return ErrFinalized
	case !s.pledged:
		return ErrPledgeRequired
	}
	if _, ok := s.catalog.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	if remembered {
		s.affirmed[id] = true
	} else {
		delete(s.affirmed, id)
	}
	return nil
}

// Affirmed returns the remembered ids in catalog order.
func (s *Scorer) Affirmed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.ids(func(it Item) bool { return s.affirmed[it.ID] })
}

// ComputePenalty returns the number of required items not affirmed.
func (s *Scorer) ComputePenalty() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.missedLocked())
}

// Bonus returns the number of affirmed bonus items.
func (s *Scorer) Bonus() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bonusLocked())
}

// Summary is the label of the finalize action: "N missed" or
// "All clear!".
func (s *Scorer) Summary() string {
	if n := s.ComputePenalty(); n > 0 {
		return fmt.Sprintf("%d missed", n)
	}
	return "All clear!"
}

// Finalized reports whether the assessment was submitted.
func (s *Scorer) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// Result returns the submitted result, if any.
func (s *Scorer) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.finalized
}

// Submit finalizes the assessment and hands the result to the sink.
// It can succeed only once; later calls return ErrFinalized. When the
// pledge is required, Submit returns ErrPledgeRequired until it is
// acknowledged.
func (s *Scorer) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.finalized:
		return Result{}, ErrFinalized
	case !s.pledged:
		return Result{}, ErrPledgeRequired
	}

	missed := s.missedLocked()
	bonus := s.bonusLocked()
	r := Result{
		Affirmed:       s.catalog.ids(func(it Item) bool { return s.affirmed[it.ID] }),
		MissedRequired: missed,
		BonusAffirmed:  bonus,
		Penalty:        len(missed),
		Bonus:          len(bonus),
		Adjusted:       s.policy(len(missed), len(bonus)),
		FinalizedAt:    s.now(),
	}
	if s.sink != nil {
		if err := s.sink(ctx, r); err != nil {
			return Result{}, fmt.Errorf("assess: submit: %w", err)
		}
	}
	s.finalized = true
	s.result = r
	return r, nil
}

func (s *Scorer) missedLocked() []string {
	return s.catalog.ids(func(it Item) bool { return it.Required && !s.affirmed[it.ID] })
}

func (s *Scorer) bonusLocked() []string {
	return s.catalog.ids(func(it Item) bool { return !it.Required && s.affirmed[it.ID] })
}
