package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dsiemon2/eventvote/internal/errors"
	"github.com/dsiemon2/eventvote/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Single connection: SQLite works best this way, and it serializes
	// ballot transactions so the one-live-ballot check cannot interleave
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			is_active BOOLEAN DEFAULT 1,
			allow_vote_changes BOOLEAN DEFAULT 0,
			deleted_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS voting_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			settings TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS place_configs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			voting_type_id INTEGER NOT NULL,
			place INTEGER NOT NULL,
			points REAL NOT NULL,
			FOREIGN KEY (voting_type_id) REFERENCES voting_types(id) ON DELETE CASCADE,
			UNIQUE(voting_type_id, place)
		)`,
		`CREATE TABLE IF NOT EXISTS event_voting_configs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			voting_type_id INTEGER NOT NULL,
			max_votes_per_user INTEGER DEFAULT 0,
			max_votes_per_entry INTEGER DEFAULT 0,
			allow_self_voting BOOLEAN DEFAULT 0,
			voting_starts_at DATETIME,
			voting_ends_at DATETIME,
			place_overrides TEXT,
			active BOOLEAN DEFAULT 1,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (voting_type_id) REFERENCES voting_types(id)
		)`,
		`CREATE TABLE IF NOT EXISTS divisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			division_type TEXT,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			user_id INTEGER,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			entry_number INTEGER NOT NULL,
			title TEXT,
			division_id INTEGER,
			category_id INTEGER,
			participant_id INTEGER,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (division_id) REFERENCES divisions(id) ON DELETE SET NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL,
			FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE SET NULL,
			UNIQUE(event_id, entry_number)
		)`,
		`CREATE TABLE IF NOT EXISTS voter_weight_classes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			voting_type_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			weight_multiplier REAL NOT NULL DEFAULT 1.0,
			requires_approval BOOLEAN DEFAULT 0,
			FOREIGN KEY (voting_type_id) REFERENCES voting_types(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS user_voter_classes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			weight_class_id INTEGER NOT NULL,
			approved BOOLEAN DEFAULT 1,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (weight_class_id) REFERENCES voter_weight_classes(id),
			UNIQUE(event_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			user_id INTEGER,
			ballot_id TEXT NOT NULL,
			entry_id INTEGER NOT NULL,
			division_id INTEGER,
			category_id INTEGER,
			place INTEGER,
			rating REAL,
			base_points REAL NOT NULL,
			weight_multiplier REAL NOT NULL DEFAULT 1.0,
			final_points REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'live',
			removed_reason TEXT,
			removed_by TEXT,
			voter_ip TEXT,
			voter_fingerprint TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (entry_id) REFERENCES entries(id)
		)`,
		`CREATE TABLE IF NOT EXISTS vote_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			entry_id INTEGER NOT NULL,
			division_id INTEGER,
			category_id INTEGER,
			total_points REAL NOT NULL DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			first_place_count INTEGER NOT NULL DEFAULT 0,
			second_place_count INTEGER NOT NULL DEFAULT 0,
			third_place_count INTEGER NOT NULL DEFAULT 0,
			average_rating REAL,
			ranking INTEGER NOT NULL DEFAULT 0,
			computed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_event_status ON votes(event_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_entry ON votes(entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_ballot ON votes(ballot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_event ON entries(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_event ON vote_summaries(event_id)`,
		// Store-level backstop for the one-live-ballot invariant: a racing
		// second insert for the same (event, user, entry) or the same
		// (event, user, place) hits a unique violation instead of committing.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_live_user_entry
			ON votes(event_id, user_id, entry_id)
			WHERE status = 'live' AND user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_live_user_place
			ON votes(event_id, user_id, place)
			WHERE status = 'live' AND user_id IS NOT NULL AND place IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_summaries_key
			ON vote_summaries(event_id, entry_id, IFNULL(division_id, 0), IFNULL(category_id, 0))`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// ==================== Event Methods ====================

// GetEvent retrieves a non-deleted event by ID
func (r *Repository) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	var evt models.Event
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, is_active, allow_vote_changes
		FROM events WHERE id = ? AND deleted_at IS NULL
	`, id).Scan(&evt.ID, &evt.Name, &evt.IsActive, &evt.AllowVoteChanges)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("event %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &evt, nil
}

// CreateEvent creates a new event
func (r *Repository) CreateEvent(ctx context.Context, name string, active, allowVoteChanges bool) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (name, is_active, allow_vote_changes) VALUES (?, ?, ?)`,
		name, active, allowVoteChanges)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// SetEventActive toggles an event's active flag
func (r *Repository) SetEventActive(ctx context.Context, id int, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE events SET is_active = ? WHERE id = ?`, active, id)
	return err
}

// DeleteEvent soft-deletes an event
func (r *Repository) DeleteEvent(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE events SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// ==================== Voting Type Methods ====================

// CreateVotingType creates a voting type together with its place config rows
func (r *Repository) CreateVotingType(ctx context.Context, vt models.VotingType) (int64, error) {
	settingsJSON, err := json.Marshal(vt.Settings)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO voting_types (name, category, settings) VALUES (?, ?, ?)`,
		vt.Name, string(vt.Category), string(settingsJSON))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, pc := range vt.Places {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO place_configs (voting_type_id, place, points) VALUES (?, ?, ?)`,
			id, pc.Place, pc.Points); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// GetVotingType retrieves a voting type with its ordered place config
func (r *Repository) GetVotingType(ctx context.Context, id int) (*models.VotingType, error) {
	var vt models.VotingType
	var category string
	var settingsJSON sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, settings FROM voting_types WHERE id = ?`,
		id).Scan(&vt.ID, &vt.Name, &category, &settingsJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("voting type %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	vt.Category = models.VotingCategory(category)
	if settingsJSON.Valid && settingsJSON.String != "" {
		if err := json.Unmarshal([]byte(settingsJSON.String), &vt.Settings); err != nil {
			return nil, err
		}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT place, points FROM place_configs WHERE voting_type_id = ? ORDER BY place`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pc models.PlaceConfig
		if err := rows.Scan(&pc.Place, &pc.Points); err != nil {
			return nil, err
		}
		vt.Places = append(vt.Places, pc)
	}
	return &vt, rows.Err()
}

// ==================== Event Voting Config Methods ====================

// CreateEventVotingConfig creates a per-event voting configuration.
// Any previously active config for the event is deactivated.
func (r *Repository) CreateEventVotingConfig(ctx context.Context, cfg models.EventVotingConfig) (int64, error) {
	var overridesJSON sql.NullString
	if len(cfg.PlaceOverrides) > 0 {
		// JSON object keys must be strings
		m := make(map[string]float64, len(cfg.PlaceOverrides))
		for place, points := range cfg.PlaceOverrides {
			m[strconv.Itoa(place)] = points
		}
		data, err := json.Marshal(m)
		if err != nil {
			return 0, err
		}
		overridesJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE event_voting_configs SET active = 0 WHERE event_id = ?`, cfg.EventID); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO event_voting_configs
			(event_id, voting_type_id, max_votes_per_user, max_votes_per_entry,
			 allow_self_voting, voting_starts_at, voting_ends_at, place_overrides, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, cfg.EventID, cfg.VotingTypeID, cfg.MaxVotesPerUser, cfg.MaxVotesPerEntry,
		cfg.AllowSelfVoting, nullTime(cfg.StartsAt), nullTime(cfg.EndsAt), overridesJSON)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetActiveVotingConfig retrieves the event's active voting configuration
func (r *Repository) GetActiveVotingConfig(ctx context.Context, eventID int) (*models.EventVotingConfig, error) {
	var cfg models.EventVotingConfig
	var startsAt, endsAt sql.NullTime
	var overridesJSON sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, voting_type_id, max_votes_per_user, max_votes_per_entry,
		       allow_self_voting, voting_starts_at, voting_ends_at, place_overrides
		FROM event_voting_configs
		WHERE event_id = ? AND active = 1
	`, eventID).Scan(&cfg.ID, &cfg.EventID, &cfg.VotingTypeID, &cfg.MaxVotesPerUser,
		&cfg.MaxVotesPerEntry, &cfg.AllowSelfVoting, &startsAt, &endsAt, &overridesJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if startsAt.Valid {
		t := startsAt.Time
		cfg.StartsAt = &t
	}
	if endsAt.Valid {
		t := endsAt.Time
		cfg.EndsAt = &t
	}
	if overridesJSON.Valid && overridesJSON.String != "" {
		raw := make(map[string]float64)
		if err := json.Unmarshal([]byte(overridesJSON.String), &raw); err != nil {
			return nil, err
		}
		cfg.PlaceOverrides = make(map[int]float64, len(raw))
		for k, v := range raw {
			place, err := strconv.Atoi(k)
			if err != nil {
				return nil, errors.Configurationf("invalid place override key %q", k)
			}
			cfg.PlaceOverrides[place] = v
		}
	}
	return &cfg, nil
}

// ==================== Division / Category Methods ====================

// CreateDivision creates a division for an event
func (r *Repository) CreateDivision(ctx context.Context, eventID int, name, divisionType string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO divisions (event_id, name, division_type) VALUES (?, ?, ?)`,
		eventID, name, divisionType)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetDivision retrieves a division by ID
func (r *Repository) GetDivision(ctx context.Context, id int) (*models.Division, error) {
	var d models.Division
	var divisionType sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, name, division_type FROM divisions WHERE id = ?`,
		id).Scan(&d.ID, &d.EventID, &d.Name, &divisionType)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("division %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	d.DivisionType = divisionType.String
	return &d, nil
}

// ListDivisions returns all divisions for an event
func (r *Repository) ListDivisions(ctx context.Context, eventID int) ([]models.Division, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, name, division_type FROM divisions WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []models.Division
	for rows.Next() {
		var d models.Division
		var divisionType sql.NullString
		if err := rows.Scan(&d.ID, &d.EventID, &d.Name, &divisionType); err != nil {
			return nil, err
		}
		d.DivisionType = divisionType.String
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

// CreateCategory creates an entry category for an event
func (r *Repository) CreateCategory(ctx context.Context, eventID int, name string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (event_id, name) VALUES (?, ?)`, eventID, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListCategories returns all entry categories for an event
func (r *Repository) ListCategories(ctx context.Context, eventID int) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, name FROM categories WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ==================== Participant / Entry Methods ====================

// CreateParticipant creates a participant, optionally linked to a user account
func (r *Repository) CreateParticipant(ctx context.Context, eventID int, name string, userID *int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (event_id, name, user_id) VALUES (?, ?, ?)`,
		eventID, name, nullInt(userID))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CreateEntry creates an entry for an event
func (r *Repository) CreateEntry(ctx context.Context, e models.Entry) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (event_id, entry_number, title, division_id, category_id, participant_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.EventID, e.EntryNumber, e.Title, nullInt(e.DivisionID), nullInt(e.CategoryID), nullInt(e.ParticipantID))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetEntry retrieves an entry by ID
func (r *Repository) GetEntry(ctx context.Context, id int) (*models.Entry, error) {
	var e models.Entry
	var title sql.NullString
	var divisionID, categoryID, participantID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, entry_number, title, division_id, category_id, participant_id
		FROM entries WHERE id = ?
	`, id).Scan(&e.ID, &e.EventID, &e.EntryNumber, &title, &divisionID, &categoryID, &participantID)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("entry %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	e.Title = title.String
	e.DivisionID = intPtr(divisionID)
	e.CategoryID = intPtr(categoryID)
	e.ParticipantID = intPtr(participantID)
	return &e, nil
}

// ListEntries returns all entries for an event ordered by entry number
func (r *Repository) ListEntries(ctx context.Context, eventID int) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, entry_number, title, division_id, category_id, participant_id
		FROM entries WHERE event_id = ? ORDER BY entry_number
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var title sql.NullString
		var divisionID, categoryID, participantID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.EventID, &e.EntryNumber, &title, &divisionID, &categoryID, &participantID); err != nil {
			return nil, err
		}
		e.Title = title.String
		e.DivisionID = intPtr(divisionID)
		e.CategoryID = intPtr(categoryID)
		e.ParticipantID = intPtr(participantID)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UserEntryIDs returns the IDs of entries owned by the given user's linked
// participant within an event. Used by the self-voting check.
func (r *Repository) UserEntryIDs(ctx context.Context, eventID, userID int) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id
		FROM entries e
		JOIN participants p ON e.participant_id = p.id
		WHERE e.event_id = ? AND p.user_id = ?
	`, eventID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	return owned, rows.Err()
}

// ==================== Weight Class Methods ====================

// CreateWeightClass creates a voter weight class for a voting type
func (r *Repository) CreateWeightClass(ctx context.Context, wc models.WeightClass) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO voter_weight_classes (voting_type_id, name, weight_multiplier, requires_approval)
		VALUES (?, ?, ?, ?)
	`, wc.VotingTypeID, wc.Name, wc.Multiplier, wc.RequiresApproval)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListWeightClasses returns the weight classes defined for a voting type
func (r *Repository) ListWeightClasses(ctx context.Context, votingTypeID int) ([]models.WeightClass, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, voting_type_id, name, weight_multiplier, requires_approval
		FROM voter_weight_classes WHERE voting_type_id = ? ORDER BY id
	`, votingTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []models.WeightClass
	for rows.Next() {
		var wc models.WeightClass
		if err := rows.Scan(&wc.ID, &wc.VotingTypeID, &wc.Name, &wc.Multiplier, &wc.RequiresApproval); err != nil {
			return nil, err
		}
		classes = append(classes, wc)
	}
	return classes, rows.Err()
}

// AssignUserWeightClass gives a user a weight class for one event.
// One assignment per user per event; a re-assignment replaces the old one.
func (r *Repository) AssignUserWeightClass(ctx context.Context, eventID, userID, weightClassID int, approved bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_voter_classes (event_id, user_id, weight_class_id, approved)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id, user_id) DO UPDATE SET
			weight_class_id = excluded.weight_class_id,
			approved = excluded.approved
	`, eventID, userID, weightClassID, approved)
	return err
}

// GetUserWeightMultiplier resolves the effective weight multiplier for a user
// in an event. Absence of an approved assignment means the default 1.00.
func (r *Repository) GetUserWeightMultiplier(ctx context.Context, eventID, userID int) (float64, error) {
	var multiplier float64
	err := r.db.QueryRowContext(ctx, `
		SELECT wc.weight_multiplier
		FROM user_voter_classes uvc
		JOIN voter_weight_classes wc ON uvc.weight_class_id = wc.id
		WHERE uvc.event_id = ? AND uvc.user_id = ?
		  AND (wc.requires_approval = 0 OR uvc.approved = 1)
	`, eventID, userID).Scan(&multiplier)
	if err == sql.ErrNoRows {
		return 1.0, nil
	}
	if err != nil {
		return 0, err
	}
	return multiplier, nil
}

// ==================== Stats Methods ====================

// GetEventStats returns raw counts for the dashboard summary view
func (r *Repository) GetEventStats(ctx context.Context, eventID int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalVotes int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE event_id = ? AND status = 'live'`, eventID).Scan(&totalVotes); err != nil {
		return nil, err
	}
	stats["total_votes"] = totalVotes

	var totalEntries int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE event_id = ?`, eventID).Scan(&totalEntries); err != nil {
		return nil, err
	}
	stats["total_entries"] = totalEntries

	var totalParticipants int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE event_id = ?`, eventID).Scan(&totalParticipants); err != nil {
		return nil, err
	}
	stats["total_participants"] = totalParticipants

	var totalDivisions int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM divisions WHERE event_id = ?`, eventID).Scan(&totalDivisions); err != nil {
		return nil, err
	}
	stats["total_divisions"] = totalDivisions

	var voters int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT ballot_id) FROM votes WHERE event_id = ? AND status = 'live'`, eventID).Scan(&voters); err != nil {
		return nil, err
	}
	stats["total_ballots"] = voters

	return stats, nil
}

// ==================== Scan Helpers ====================

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
