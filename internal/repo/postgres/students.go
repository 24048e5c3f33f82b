package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
)

var ErrStudentNotFound = errors.New("student not found")

type StudentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStudentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *StudentsRepo {
	return &StudentsRepo{pool: pool, prom: prom}
}

func (r *StudentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

type StudentCredits struct {
	StudentID        int `json:"studentId"`
	CreditsAvailable int `json:"creditsAvailable"`
}

func (r *StudentsRepo) Credits(ctx context.Context, accountID int) (StudentCredits, error) {
	var credits StudentCredits

	err := r.observe("students.credits", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT student_id, credits_available FROM student_credits($1)`,
			accountID,
		).Scan(&credits.StudentID, &credits.CreditsAvailable)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StudentCredits{}, ErrStudentNotFound
		}
		return StudentCredits{}, err
	}

	return credits, nil
}

// Classmates lists the other students enrolled in the caller's courses.
// The caller never appears in their own result set; the function filters
// them out.
func (r *StudentsRepo) Classmates(ctx context.Context, accountID int) (mates []course.Classmate, err error) {
	var rows pgx.Rows

	err = r.observe("students.classmates", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT course_code, course_name, student_id, student_name
			 FROM student_classmates($1)`,
			accountID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	mates = make([]course.Classmate, 0)

	for rows.Next() {
		var m course.Classmate

		scanErr := rows.Scan(&m.CourseCode, &m.CourseName, &m.StudentID, &m.StudentName)

		if scanErr != nil {
			err = scanErr
			return
		}
		mates = append(mates, m)
	}

	err = rows.Err()
	return
}

func (r *StudentsRepo) Schedule(ctx context.Context, accountID int) (entries []course.ScheduleEntry, err error) {
	var rows pgx.Rows

	err = r.observe("students.schedule", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT course_code, course_name, teacher_name, schedule, enrolled_at
			 FROM student_schedule($1)`,
			accountID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	entries = make([]course.ScheduleEntry, 0)

	for rows.Next() {
		var e course.ScheduleEntry

		scanErr := rows.Scan(&e.CourseCode, &e.CourseName, &e.TeacherName, &e.Schedule, &e.EnrolledAt)

		if scanErr != nil {
			err = scanErr
			return
		}
		entries = append(entries, e)
	}

	err = rows.Err()
	return
}
