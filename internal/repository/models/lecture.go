package models

import "database/sql"

// Lecture maps the columns of the portal's lectures table read by the quiz engine.
type Lecture struct {
	ID         string         `db:"id"`
	Title      string         `db:"title"`
	CourseID   string         `db:"course_id"`
	Order      int            `db:"order"`
	Content    sql.NullString `db:"content"`
	Transcript sql.NullString `db:"transcript"`
}
