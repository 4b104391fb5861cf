package models

import "time"

// Course is one user-entered academic course. Units weight how many study
// slots the scheduler allocates to it.
type Course struct {
	ID        string    `db:"id" json:"id"`
	RosterID  string    `db:"roster_id" json:"-"`
	Name      string    `db:"name" json:"courseName"`
	Code      string    `db:"code" json:"courseCode"`
	Units     int       `db:"units" json:"units"`
	Position  int       `db:"position" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Roster is the user-curated list of courses for one planning session.
// Course order is preserved; it drives the most-studied tie-break.
type Roster struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Courses []Course `db:"-" json:"courses"`
}
