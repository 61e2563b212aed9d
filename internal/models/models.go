package models

import "time"

// VotingCategory identifies the scoring scheme of a voting type.
type VotingCategory string

const (
	CategoryRanked     VotingCategory = "ranked"
	CategoryApproval   VotingCategory = "approval"
	CategoryWeighted   VotingCategory = "weighted"
	CategoryRating     VotingCategory = "rating"
	CategoryCumulative VotingCategory = "cumulative"
)

// Valid reports whether the category is one of the known schemes.
func (c VotingCategory) Valid() bool {
	switch c {
	case CategoryRanked, CategoryApproval, CategoryWeighted, CategoryRating, CategoryCumulative:
		return true
	}
	return false
}

// Event represents a competition instance
type Event struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	IsActive         bool   `json:"is_active"`
	AllowVoteChanges bool   `json:"allow_vote_changes"`
}

// PlaceConfig maps an ordinal place to its base points
type PlaceConfig struct {
	Place  int     `json:"place"`
	Points float64 `json:"points"`
}

// VotingTypeSettings holds the free-form per-category settings of a voting type
type VotingTypeSettings struct {
	MaxSelections int     `json:"max_selections,omitempty"` // approval
	MinRating     float64 `json:"min_rating,omitempty"`     // rating
	MaxRating     float64 `json:"max_rating,omitempty"`     // rating
	PerVotePoints float64 `json:"per_vote_points,omitempty"`
}

// VotingType describes a scoring scheme: a category plus its ordered place config
type VotingType struct {
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Category VotingCategory     `json:"category"`
	Places   []PlaceConfig      `json:"places,omitempty"`
	Settings VotingTypeSettings `json:"settings"`
}

// EventVotingConfig is the per-event instantiation of a voting type with overrides
type EventVotingConfig struct {
	ID               int             `json:"id"`
	EventID          int             `json:"event_id"`
	VotingTypeID     int             `json:"voting_type_id"`
	MaxVotesPerUser  int             `json:"max_votes_per_user"`
	MaxVotesPerEntry int             `json:"max_votes_per_entry"`
	AllowSelfVoting  bool            `json:"allow_self_voting"`
	StartsAt         *time.Time      `json:"voting_starts_at,omitempty"`
	EndsAt           *time.Time      `json:"voting_ends_at,omitempty"`
	PlaceOverrides   map[int]float64 `json:"place_overrides,omitempty"`
}

// Division partitions entries and carries a type label used to group results
// independently of numeric division identity (e.g. "Professional" vs "Amateur")
type Division struct {
	ID           int    `json:"id"`
	EventID      int    `json:"event_id"`
	Name         string `json:"name"`
	DivisionType string `json:"division_type,omitempty"`
}

// Category is an optional second partitioning axis for entries
type Category struct {
	ID      int    `json:"id"`
	EventID int    `json:"event_id"`
	Name    string `json:"name"`
}

// Participant optionally owns entries; used for self-voting checks and labeling
type Participant struct {
	ID      int    `json:"id"`
	EventID int    `json:"event_id"`
	Name    string `json:"name"`
	UserID  *int   `json:"user_id,omitempty"`
}

// Entry is the votable unit, identified to voters by its entry number
type Entry struct {
	ID            int    `json:"id"`
	EventID       int    `json:"event_id"`
	EntryNumber   int    `json:"entry_number"`
	Title         string `json:"title"`
	DivisionID    *int   `json:"division_id,omitempty"`
	CategoryID    *int   `json:"category_id,omitempty"`
	ParticipantID *int   `json:"participant_id,omitempty"`
}

// WeightClass defines a voter weight multiplier for a voting type
type WeightClass struct {
	ID               int     `json:"id"`
	VotingTypeID     int     `json:"voting_type_id"`
	Name             string  `json:"name"`
	Multiplier       float64 `json:"weight_multiplier"`
	RequiresApproval bool    `json:"requires_approval"`
}

// UserVoterClass assigns a user a weight class for one event
type UserVoterClass struct {
	ID            int  `json:"id"`
	EventID       int  `json:"event_id"`
	UserID        int  `json:"user_id"`
	WeightClassID int  `json:"weight_class_id"`
	Approved      bool `json:"approved"`
}

// VoteStatus is the tombstone state of a vote row
type VoteStatus string

const (
	VoteLive       VoteStatus = "live"
	VoteSuperseded VoteStatus = "superseded"
	VoteRemoved    VoteStatus = "removed"
)

// Vote is the atomic scored fact. FinalPoints is always derived:
// final_points = round(base_points * weight_multiplier, 2).
type Vote struct {
	ID               int        `json:"id"`
	EventID          int        `json:"event_id"`
	UserID           *int       `json:"user_id,omitempty"` // nil for anonymous votes
	BallotID         string     `json:"ballot_id"`
	EntryID          int        `json:"entry_id"`
	DivisionID       *int       `json:"division_id,omitempty"`
	CategoryID       *int       `json:"category_id,omitempty"`
	Place            *int       `json:"place,omitempty"`
	Rating           *float64   `json:"rating,omitempty"`
	BasePoints       float64    `json:"base_points"`
	WeightMultiplier float64    `json:"weight_multiplier"`
	FinalPoints      float64    `json:"final_points"`
	Status           VoteStatus `json:"status"`
	RemovedReason    string     `json:"removed_reason,omitempty"`
	RemovedBy        string     `json:"removed_by,omitempty"`
	VoterIP          string     `json:"voter_ip,omitempty"`
	VoterFingerprint string     `json:"voter_fingerprint,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SummaryKey identifies one denormalized aggregate row
type SummaryKey struct {
	EventID    int
	EntryID    int
	DivisionID *int
	CategoryID *int
}

// VoteSummary is the derived-only aggregate for one key. It is a materialized
// view over live votes and must always be rebuildable from scratch.
type VoteSummary struct {
	ID               int       `json:"id"`
	EventID          int       `json:"event_id"`
	EntryID          int       `json:"entry_id"`
	DivisionID       *int      `json:"division_id,omitempty"`
	CategoryID       *int      `json:"category_id,omitempty"`
	TotalPoints      float64   `json:"total_points"`
	VoteCount        int       `json:"vote_count"`
	FirstPlaceCount  int       `json:"first_place_count"`
	SecondPlaceCount int       `json:"second_place_count"`
	ThirdPlaceCount  int       `json:"third_place_count"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	Ranking          int       `json:"ranking"`
	ComputedAt       time.Time `json:"computed_at"`
}

// Key returns the summary's aggregation key
func (s *VoteSummary) Key() SummaryKey {
	return SummaryKey{EventID: s.EventID, EntryID: s.EntryID, DivisionID: s.DivisionID, CategoryID: s.CategoryID}
}
