package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
)

type TeachersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTeachersRepo(pool *pgxpool.Pool, prom *observability.Prom) *TeachersRepo {
	return &TeachersRepo{pool: pool, prom: prom}
}

func (r *TeachersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TeachersRepo) AssignedCourses(ctx context.Context, accountID int) (courses []course.AssignedCourse, err error) {
	var rows pgx.Rows

	err = r.observe("teachers.assigned_courses", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT course_code, course_name, teacher_name, schedule, max_seats, seats_left
			 FROM teacher_courses($1)`,
			accountID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	courses = make([]course.AssignedCourse, 0)

	for rows.Next() {
		var c course.AssignedCourse

		scanErr := rows.Scan(&c.CourseCode, &c.CourseName, &c.TeacherName, &c.Schedule, &c.MaxSeats, &c.SeatsLeft)

		if scanErr != nil {
			err = scanErr
			return
		}
		courses = append(courses, c)
	}

	err = rows.Err()
	return
}
