package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/dsiemon2/eventvote/internal/models"
)

// SaveBallot persists all rows of one scored ballot in a single transaction.
//
// When supersede is true the caller's existing live ballot (if any) is marked
// superseded in the same transaction; otherwise an existing live ballot makes
// the whole write fail with ErrLiveBallotExists. The returned keys cover every
// (entry, division, category) touched by the write, including keys vacated by
// a superseded ballot, so the aggregator can refresh them all (vacated keys
// refresh to zero).
func (r *Repository) SaveBallot(ctx context.Context, eventID int, userID *int, supersede bool, votes []models.Vote) ([]models.SummaryKey, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	touched := make(map[models.SummaryKey]bool)

	if userID != nil {
		if supersede {
			vacated, err := liveKeysTx(ctx, tx, eventID, *userID)
			if err != nil {
				return nil, err
			}
			for _, k := range vacated {
				touched[k] = true
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE votes SET status = ? WHERE event_id = ? AND user_id = ? AND status = ?
			`, models.VoteSuperseded, eventID, *userID, models.VoteLive); err != nil {
				return nil, err
			}
		} else {
			// Re-check against committed state, not the caller's possibly
			// stale validation snapshot
			var count int
			if err := tx.QueryRowContext(ctx, `
				SELECT COUNT(*) FROM votes WHERE event_id = ? AND user_id = ? AND status = ?
			`, eventID, *userID, models.VoteLive).Scan(&count); err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrLiveBallotExists
			}
		}
	}

	now := time.Now().UTC()
	for _, v := range votes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO votes
				(event_id, user_id, ballot_id, entry_id, division_id, category_id,
				 place, rating, base_points, weight_multiplier, final_points,
				 status, voter_ip, voter_fingerprint, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, eventID, nullInt(userID), v.BallotID, v.EntryID, nullInt(v.DivisionID), nullInt(v.CategoryID),
			nullInt(v.Place), nullFloat(v.Rating), v.BasePoints, v.WeightMultiplier, v.FinalPoints,
			models.VoteLive, v.VoterIP, v.VoterFingerprint, now)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrLiveBallotExists
			}
			return nil, err
		}
		touched[models.SummaryKey{EventID: eventID, EntryID: v.EntryID, DivisionID: v.DivisionID, CategoryID: v.CategoryID}] = true
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	keys := make([]models.SummaryKey, 0, len(touched))
	for k := range touched {
		keys = append(keys, k)
	}
	return keys, nil
}

// HasLiveBallot reports whether the user has any live vote rows for the event
func (r *Repository) HasLiveBallot(ctx context.Context, eventID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM votes WHERE event_id = ? AND user_id = ? AND status = ?)
	`, eventID, userID, models.VoteLive).Scan(&exists)
	return exists, err
}

// ListLiveVotes returns the user's live ballot rows for an event
func (r *Repository) ListLiveVotes(ctx context.Context, eventID, userID int) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, user_id, ballot_id, entry_id, division_id, category_id,
		       place, rating, base_points, weight_multiplier, final_points, status, created_at
		FROM votes
		WHERE event_id = ? AND user_id = ? AND status = ?
		ORDER BY place, entry_id
	`, eventID, userID, models.VoteLive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVotes(rows)
}

// RemoveBallot soft-removes every live row of a ballot with an attributed
// actor and reason, returning the keys the aggregator must refresh.
func (r *Repository) RemoveBallot(ctx context.Context, eventID int, ballotID, actor, reason string) ([]models.SummaryKey, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT entry_id, division_id, category_id
		FROM votes WHERE event_id = ? AND ballot_id = ? AND status = ?
	`, eventID, ballotID, models.VoteLive)
	if err != nil {
		return nil, err
	}
	keys, err := scanKeys(rows, eventID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE votes SET status = ?, removed_by = ?, removed_reason = ?
		WHERE event_id = ? AND ballot_id = ? AND status = ?
	`, models.VoteRemoved, actor, reason, eventID, ballotID, models.VoteLive); err != nil {
		return nil, err
	}

	return keys, tx.Commit()
}

// CountLiveVotes returns the number of live votes for an event. The polling
// endpoint uses this as a cheap change detector before clients re-render.
func (r *Repository) CountLiveVotes(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE event_id = ? AND status = ?`,
		eventID, models.VoteLive).Scan(&count)
	return count, err
}

// liveKeysTx collects the summary keys of a user's current live rows
func liveKeysTx(ctx context.Context, tx *sql.Tx, eventID, userID int) ([]models.SummaryKey, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT entry_id, division_id, category_id
		FROM votes WHERE event_id = ? AND user_id = ? AND status = ?
	`, eventID, userID, models.VoteLive)
	if err != nil {
		return nil, err
	}
	return scanKeys(rows, eventID)
}

func scanKeys(rows *sql.Rows, eventID int) ([]models.SummaryKey, error) {
	defer rows.Close()
	var keys []models.SummaryKey
	for rows.Next() {
		var entryID int
		var divisionID, categoryID sql.NullInt64
		if err := rows.Scan(&entryID, &divisionID, &categoryID); err != nil {
			return nil, err
		}
		keys = append(keys, models.SummaryKey{
			EventID:    eventID,
			EntryID:    entryID,
			DivisionID: intPtr(divisionID),
			CategoryID: intPtr(categoryID),
		})
	}
	return keys, rows.Err()
}

func scanVotes(rows *sql.Rows) ([]models.Vote, error) {
	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		var userID, divisionID, categoryID, place sql.NullInt64
		var rating sql.NullFloat64
		var status string
		if err := rows.Scan(&v.ID, &v.EventID, &userID, &v.BallotID, &v.EntryID, &divisionID, &categoryID,
			&place, &rating, &v.BasePoints, &v.WeightMultiplier, &v.FinalPoints, &status, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.UserID = intPtr(userID)
		v.DivisionID = intPtr(divisionID)
		v.CategoryID = intPtr(categoryID)
		v.Place = intPtr(place)
		if rating.Valid {
			f := rating.Float64
			v.Rating = &f
		}
		v.Status = models.VoteStatus(status)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// isUniqueViolation reports whether err is a SQLite unique constraint error
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
