package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/observability"
)

// CoursesRepo fronts the enrollment stored procedures. Seat capacity,
// duplicate enrollment and credit limits are enforced inside them; every
// mutating call surfaces the procedure's (ok, message) outcome row.
type CoursesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCoursesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CoursesRepo {
	return &CoursesRepo{pool: pool, prom: prom}
}

func (r *CoursesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CoursesRepo) ListAvailable(ctx context.Context) (entries []course.CatalogEntry, err error) {
	var rows pgx.Rows

	err = r.observe("courses.list_available", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT course_code, course_name, credits, teacher_id, teacher_name,
			        schedule, max_seats, seats_left
			 FROM available_courses()`,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	entries = make([]course.CatalogEntry, 0)

	for rows.Next() {
		var e course.CatalogEntry

		scanErr := rows.Scan(&e.Code, &e.Name, &e.Credits, &e.TeacherID, &e.TeacherName, &e.Schedule, &e.MaxSeats, &e.SeatsLeft)

		if scanErr != nil {
			err = scanErr
			return
		}
		entries = append(entries, e)
	}

	err = rows.Err()
	return
}

func (r *CoursesRepo) ListUnassigned(ctx context.Context) (courses []course.UnassignedCourse, err error) {
	var rows pgx.Rows

	err = r.observe("courses.list_unassigned", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, code, name, description, credits, max_seats, active,
			        created_at, seats_left
			 FROM unassigned_courses()`,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	courses = make([]course.UnassignedCourse, 0)

	for rows.Next() {
		var c course.UnassignedCourse

		scanErr := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Credits, &c.MaxSeats, &c.Active, &c.CreatedAt, &c.SeatsLeft)

		if scanErr != nil {
			err = scanErr
			return
		}
		courses = append(courses, c)
	}

	err = rows.Err()
	return
}

func (r *CoursesRepo) Enroll(ctx context.Context, accountID int, courseCode string) (course.Outcome, error) {
	return r.outcome(ctx, "courses.enroll",
		`SELECT ok, message FROM enroll_student($1, $2)`, accountID, courseCode)
}

func (r *CoursesRepo) Drop(ctx context.Context, accountID int, courseCode string) (course.Outcome, error) {
	return r.outcome(ctx, "courses.drop",
		`SELECT ok, message FROM drop_enrollment($1, $2)`, accountID, courseCode)
}

func (r *CoursesRepo) Register(ctx context.Context, c course.NewCourse) (course.Outcome, error) {
	return r.outcome(ctx, "courses.register",
		`SELECT ok, message FROM register_course($1, $2, $3, $4, $5, $6)`,
		c.Code, c.Name, c.Description, c.Credits, c.MaxSeats, c.Schedule)
}

func (r *CoursesRepo) AssignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error) {
	return r.outcome(ctx, "courses.assign_teacher",
		`SELECT ok, message FROM assign_course_teacher($1, $2)`, teacherID, courseCode)
}

func (r *CoursesRepo) UnassignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error) {
	return r.outcome(ctx, "courses.unassign_teacher",
		`SELECT ok, message FROM unassign_course_teacher($1, $2)`, teacherID, courseCode)
}

func (r *CoursesRepo) outcome(ctx context.Context, op, query string, args ...any) (course.Outcome, error) {
	var out course.Outcome

	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(&out.OK, &out.Message)
	})

	if err != nil {
		return course.Outcome{}, err
	}

	return out, nil
}
