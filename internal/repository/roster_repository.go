package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/study-buddy/study-buddy-api/internal/models"
)

// RosterRepository provides database access for course rosters.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new instance of RosterRepository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// Create inserts a roster and its courses in a single transaction. Course
// rows are written in slice order so position reflects user entry order.
func (r *RosterRepository) Create(ctx context.Context, roster *models.Roster) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const rosterQuery = `INSERT INTO rosters (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, rosterQuery,
		roster.ID, roster.UserID, roster.Title, roster.CreatedAt, roster.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert roster: %w", err)
	}

	const courseQuery = `INSERT INTO courses (id, roster_id, name, code, units, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range roster.Courses {
		course := &roster.Courses[i]
		course.RosterID = roster.ID
		course.Position = i
		if _, err := tx.ExecContext(ctx, courseQuery,
			course.ID, course.RosterID, course.Name, course.Code, course.Units, course.Position, course.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert course %q: %w", course.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// GetByID returns a roster with its courses ordered by position.
func (r *RosterRepository) GetByID(ctx context.Context, id string) (*models.Roster, error) {
	const query = `SELECT id, user_id, title, created_at, updated_at FROM rosters WHERE id = $1 LIMIT 1`
	var roster models.Roster
	if err := r.db.GetContext(ctx, &roster, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find roster: %w", err)
	}
	if err := r.loadCourses(ctx, &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// GetLatestByUser returns the most recently updated roster for a user,
// with courses ordered by position.
func (r *RosterRepository) GetLatestByUser(ctx context.Context, userID string) (*models.Roster, error) {
	const query = `SELECT id, user_id, title, created_at, updated_at FROM rosters WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 1`
	var roster models.Roster
	if err := r.db.GetContext(ctx, &roster, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find latest roster: %w", err)
	}
	if err := r.loadCourses(ctx, &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// ListByUser returns roster headers for a user, newest first. Courses are
// not loaded; callers fetch a single roster when they need them.
func (r *RosterRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Roster, int, error) {
	const countQuery = `SELECT COUNT(*) FROM rosters WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count rosters: %w", err)
	}

	const query = `SELECT id, user_id, title, created_at, updated_at FROM rosters WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rosters := []models.Roster{}
	if err := r.db.SelectContext(ctx, &rosters, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list rosters: %w", err)
	}
	return rosters, total, nil
}

// Delete removes a roster owned by the user. Course rows cascade in the
// schema. Returns sql.ErrNoRows when nothing matched.
func (r *RosterRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM rosters WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *RosterRepository) loadCourses(ctx context.Context, roster *models.Roster) error {
	const query = `SELECT id, roster_id, name, code, units, position, created_at FROM courses WHERE roster_id = $1 ORDER BY position ASC`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, roster.ID); err != nil {
		return fmt.Errorf("load roster courses: %w", err)
	}
	roster.Courses = courses
	return nil
}
