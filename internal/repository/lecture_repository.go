package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/repository/models"
	"lecture-quiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	selectLectureColumns = `SELECT id, title, course_id, "order", content, transcript FROM lectures`
	getLectureQuery      = selectLectureColumns + ` WHERE id = $1`
	nextLectureQuery     = selectLectureColumns + ` WHERE course_id = $1 AND "order" > $2 ORDER BY "order" ASC LIMIT 1`
)

type lectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository creates a lecture content provider over the portal database.
func NewLectureRepository(db *sqlx.DB) domain.LectureProvider {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) GetLecture(ctx context.Context, lectureID string) (*domain.Lecture, error) {
	var row models.Lecture
	if err := r.db.GetContext(ctx, &row, getLectureQuery, lectureID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("Lecture not found with ID: %s", lectureID))
		}
		return nil, fmt.Errorf("failed to get lecture %s: %w", lectureID, err)
	}
	return toDomainLecture(&row), nil
}

func (r *lectureRepository) NextLecture(ctx context.Context, courseID string, order int) (*domain.Lecture, error) {
	var row models.Lecture
	if err := r.db.GetContext(ctx, &row, nextLectureQuery, courseID, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get lecture after %d in course %s: %w", order, courseID, err)
	}
	return toDomainLecture(&row), nil
}

func toDomainLecture(m *models.Lecture) *domain.Lecture {
	return &domain.Lecture{
		ID:         m.ID,
		Title:      m.Title,
		CourseID:   m.CourseID,
		Order:      m.Order,
		Content:    util.NullStringToString(m.Content),
		Transcript: util.NullStringToString(m.Transcript),
	}
}
