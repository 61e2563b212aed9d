package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dsiemon2/eventvote/internal/models"
)

// ResultRow is one aggregated leaderboard line joined with entry labels
type ResultRow struct {
	SummaryID        int      `json:"-"`
	EntryID          int      `json:"entry_id"`
	EntryNumber      int      `json:"entry_number"`
	Title            string   `json:"title,omitempty"`
	DivisionID       *int     `json:"division_id,omitempty"`
	DivisionName     string   `json:"division_name,omitempty"`
	DivisionType     string   `json:"division_type,omitempty"`
	CategoryID       *int     `json:"category_id,omitempty"`
	CategoryName     string   `json:"category_name,omitempty"`
	TotalPoints      float64  `json:"total_points"`
	VoteCount        int      `json:"vote_count"`
	FirstPlaceCount  int      `json:"first_place_count"`
	SecondPlaceCount int      `json:"second_place_count"`
	ThirdPlaceCount  int      `json:"third_place_count"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	Rank             int      `json:"rank"`
}

// RecomputeSummary rebuilds the denormalized aggregate for one key from a
// full scan of its live vote rows. The computed values replace the stored row
// outright, never increment it, so the operation is idempotent and safe to
// re-run after any failure. Only the summary aggregator calls this.
func (r *Repository) RecomputeSummary(ctx context.Context, key models.SummaryKey) error {
	var (
		totalPoints   float64
		voteCount     int
		firstPlace    int
		secondPlace   int
		thirdPlace    int
		averageRating sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(final_points), 0),
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN place = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN place = 2 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN place = 3 THEN 1 ELSE 0 END), 0),
		       AVG(rating)
		FROM votes
		WHERE event_id = ? AND entry_id = ? AND status = 'live'
		  AND division_id IS ? AND category_id IS ?
	`, key.EventID, key.EntryID, nullInt(key.DivisionID), nullInt(key.CategoryID)).
		Scan(&totalPoints, &voteCount, &firstPlace, &secondPlace, &thirdPlace, &averageRating)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE vote_summaries
		SET total_points = ?, vote_count = ?, first_place_count = ?,
		    second_place_count = ?, third_place_count = ?, average_rating = ?, computed_at = ?
		WHERE event_id = ? AND entry_id = ? AND division_id IS ? AND category_id IS ?
	`, totalPoints, voteCount, firstPlace, secondPlace, thirdPlace, averageRating, now,
		key.EventID, key.EntryID, nullInt(key.DivisionID), nullInt(key.CategoryID))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO vote_summaries
			(event_id, entry_id, division_id, category_id, total_points, vote_count,
			 first_place_count, second_place_count, third_place_count, average_rating, ranking, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, key.EventID, key.EntryID, nullInt(key.DivisionID), nullInt(key.CategoryID),
		totalPoints, voteCount, firstPlace, secondPlace, thirdPlace, averageRating, now)
	return err
}

// ListSummaryKeys returns every aggregation key an event has ever touched:
// keys present in vote rows of any status plus keys with an existing summary
// row. A full rebuild walks this set so vacated keys refresh to zero.
func (r *Repository) ListSummaryKeys(ctx context.Context, eventID int) ([]models.SummaryKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT entry_id, division_id, category_id FROM votes WHERE event_id = ?
		UNION
		SELECT DISTINCT entry_id, division_id, category_id FROM vote_summaries WHERE event_id = ?
	`, eventID, eventID)
	if err != nil {
		return nil, err
	}
	return scanKeys(rows, eventID)
}

// GetSummary retrieves the stored aggregate for one key
func (r *Repository) GetSummary(ctx context.Context, key models.SummaryKey) (*models.VoteSummary, error) {
	var s models.VoteSummary
	var divisionID, categoryID sql.NullInt64
	var averageRating sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, entry_id, division_id, category_id, total_points, vote_count,
		       first_place_count, second_place_count, third_place_count, average_rating, ranking, computed_at
		FROM vote_summaries
		WHERE event_id = ? AND entry_id = ? AND division_id IS ? AND category_id IS ?
	`, key.EventID, key.EntryID, nullInt(key.DivisionID), nullInt(key.CategoryID)).
		Scan(&s.ID, &s.EventID, &s.EntryID, &divisionID, &categoryID, &s.TotalPoints, &s.VoteCount,
			&s.FirstPlaceCount, &s.SecondPlaceCount, &s.ThirdPlaceCount, &averageRating, &s.Ranking, &s.ComputedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.DivisionID = intPtr(divisionID)
	s.CategoryID = intPtr(categoryID)
	if averageRating.Valid {
		f := averageRating.Float64
		s.AverageRating = &f
	}
	return &s, nil
}

// ListEventSummaries returns every aggregate row of an event joined with
// entry, division, and category labels, ready for ranking.
func (r *Repository) ListEventSummaries(ctx context.Context, eventID int) ([]ResultRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.entry_id, e.entry_number, e.title,
		       s.division_id, d.name, d.division_type,
		       s.category_id, c.name,
		       s.total_points, s.vote_count,
		       s.first_place_count, s.second_place_count, s.third_place_count,
		       s.average_rating, s.ranking
		FROM vote_summaries s
		JOIN entries e ON e.id = s.entry_id
		LEFT JOIN divisions d ON d.id = s.division_id
		LEFT JOIN categories c ON c.id = s.category_id
		WHERE s.event_id = ?
		ORDER BY s.total_points DESC, s.first_place_count DESC, s.vote_count DESC, s.entry_id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRow
	for rows.Next() {
		var row ResultRow
		var title, divisionName, divisionType, categoryName sql.NullString
		var divisionID, categoryID sql.NullInt64
		var averageRating sql.NullFloat64
		if err := rows.Scan(&row.SummaryID, &row.EntryID, &row.EntryNumber, &title,
			&divisionID, &divisionName, &divisionType,
			&categoryID, &categoryName,
			&row.TotalPoints, &row.VoteCount,
			&row.FirstPlaceCount, &row.SecondPlaceCount, &row.ThirdPlaceCount,
			&averageRating, &row.Rank); err != nil {
			return nil, err
		}
		row.Title = title.String
		row.DivisionID = intPtr(divisionID)
		row.DivisionName = divisionName.String
		row.DivisionType = divisionType.String
		row.CategoryID = intPtr(categoryID)
		row.CategoryName = categoryName.String
		if averageRating.Valid {
			f := averageRating.Float64
			row.AverageRating = &f
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// UpdateSummaryRanking stores the cached rank for one summary row. The cache
// is refreshed in the same aggregation pass as the other fields and may be
// one cycle stale for readers; the results query re-sorts when serving.
func (r *Repository) UpdateSummaryRanking(ctx context.Context, summaryID, rank int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vote_summaries SET ranking = ? WHERE id = ?`, rank, summaryID)
	return err
}
