package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrLiveBallotExists is returned when a ballot write observes an already
// committed live ballot for the same (event, user). The store-level unique
// indexes raise this even when two submissions race past validation.
var ErrLiveBallotExists = errors.New("a live ballot already exists for this user and event")
