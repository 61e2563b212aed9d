package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dsiemon2/eventvote/internal/models"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

// TestListEntries_QueryError tests query failure propagation
func TestListEntries_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM entries").WillReturnError(errors.New("disk I/O error"))

	_, err := repo.ListEntries(ctx, 1)
	if err == nil {
		t.Error("expected error from failed query, got nil")
	}
}

// TestListLiveVotes_ScanError tests row scanning error
func TestListLiveVotes_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "ballot_id", "entry_id", "division_id", "category_id",
		"place", "rating", "base_points", "weight_multiplier", "final_points", "status", "created_at",
	}).AddRow("not-a-number", 1, 1, "b1", 1, nil, nil, 1, nil, 3.0, 1.0, 3.0, "live", nil)

	mock.ExpectQuery("SELECT (.+) FROM votes").WillReturnRows(rows)

	_, err := repo.ListLiveVotes(ctx, 1, 1)
	if err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestRecomputeSummary_QueryError tests aggregation failure propagation, the
// error the summary service retries
func TestRecomputeSummary_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE").WillReturnError(errors.New("database is locked"))

	err := repo.RecomputeSummary(ctx, models.SummaryKey{EventID: 1, EntryID: 1})
	if err == nil {
		t.Error("expected error from failed aggregation, got nil")
	}
}

// TestCountLiveVotes_QueryError tests poll counter failure propagation
func TestCountLiveVotes_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("database is locked"))

	_, err := repo.CountLiveVotes(ctx, 1)
	if err == nil {
		t.Error("expected error from failed count, got nil")
	}
}

// TestSaveBallot_BeginError tests transaction start failure
func TestSaveBallot_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin().WillReturnError(errors.New("connection closed"))

	userID := 1
	_, err := repo.SaveBallot(ctx, 1, &userID, false, nil)
	if err == nil {
		t.Error("expected error from failed begin, got nil")
	}
}
