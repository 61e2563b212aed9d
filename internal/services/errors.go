package services

import (
	"fmt"
	"sort"
	"strings"
)

// Error codes surfaced to API clients
const (
	CodeVotingClosed       = "VOTING_CLOSED"
	CodeInvalidEntry       = "INVALID_ENTRY"
	CodeDuplicateSelection = "DUPLICATE_SELECTION"
	CodeInvalidPlace       = "INVALID_PLACE"
	CodeSelfVote           = "SELF_VOTE"
	CodeAlreadyVoted       = "ALREADY_VOTED"
	CodeRatingOutOfRange   = "RATING_OUT_OF_RANGE"
	CodeTooManySelections  = "TOO_MANY_SELECTIONS"
	CodeEmptyBallot        = "EMPTY_BALLOT"
)

// ServiceError represents a user-recoverable voting rule violation
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Service errors
var (
	ErrVotingClosed = &ServiceError{Code: CodeVotingClosed, Message: "voting is not open for this event"}
	ErrAlreadyVoted = &ServiceError{Code: CodeAlreadyVoted, Message: "you have already voted in this event"}
	ErrEmptyBallot  = &ServiceError{Code: CodeEmptyBallot, Message: "ballot contains no selections"}
)

// Violation is one validation failure tied to a ballot field
type Violation struct {
	Field   string
	Code    string
	Message string
}

// ValidationError collects every rule violation of one ballot so the client
// can show all problems at once instead of fixing them one by one.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "ballot validation failed: " + strings.Join(msgs, "; ")
}

// Add records a violation
func (e *ValidationError) Add(field, code, format string, args ...interface{}) {
	e.Violations = append(e.Violations, Violation{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// Has reports whether any violation carries the given code
func (e *ValidationError) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Empty reports whether no violations were recorded
func (e *ValidationError) Empty() bool {
	return len(e.Violations) == 0
}

// Fields groups the violation messages by field for the 422 response shape
func (e *ValidationError) Fields() map[string][]string {
	fields := make(map[string][]string)
	for _, v := range e.Violations {
		fields[v.Field] = append(fields[v.Field], v.Message)
	}
	for _, msgs := range fields {
		sort.Strings(msgs)
	}
	return fields
}
