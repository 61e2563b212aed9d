package models

import "time"

// RankedSelection assigns one entry to one place, optionally scoped to a
// division or category stated by the voter.
type RankedSelection struct {
	Place      int
	EntryID    int
	DivisionID *int
	CategoryID *int
}

// Ballot is a tagged variant over the voting categories: exactly one of the
// selection fields is populated, matching Category. Validation and scoring
// switch on Category exhaustively instead of inspecting loose JSON keys.
type Ballot struct {
	Category VotingCategory

	Ranked      []RankedSelection // CategoryRanked
	Ratings     map[int]float64   // CategoryRating: entry -> rating
	Approvals   []int             // CategoryApproval: entry ids
	Allocations map[int]float64   // CategoryWeighted / CategoryCumulative: entry -> points
}

// Empty reports whether the ballot carries no selections at all.
func (b Ballot) Empty() bool {
	return len(b.Ranked) == 0 && len(b.Ratings) == 0 && len(b.Approvals) == 0 && len(b.Allocations) == 0
}

// Selection is one normalized, validated ballot line ready for scoring.
// DivisionID/CategoryID are the entry's own axes after scope checks.
type Selection struct {
	EntryID    int
	DivisionID *int
	CategoryID *int
	Place      *int
	Rating     *float64
	Points     float64 // raw allocation for weighted/cumulative ballots
}

// ResolvedConfig is the output of the configuration resolver: the event's
// effective voting rules after place overrides are applied.
type ResolvedConfig struct {
	Event            Event
	Category         VotingCategory
	Places           map[int]float64 // place -> points, overrides applied
	MaxPlace         int
	MaxVotesPerUser  int
	MaxVotesPerEntry int
	AllowSelfVoting  bool
	AllowVoteChanges bool
	StartsAt         *time.Time
	EndsAt           *time.Time
	Settings         VotingTypeSettings
	WeightClasses    []WeightClass
}

// VotingOpen reports whether the event accepts ballots at the given instant:
// the event is active and the instant falls inside the configured window.
func (c *ResolvedConfig) VotingOpen(now time.Time) bool {
	if !c.Event.IsActive {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	return true
}
