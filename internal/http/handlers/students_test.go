package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/handlers"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/repo/postgres"
)

type fakeStudentStore struct {
	creditsFn    func(ctx context.Context, accountID int) (postgres.StudentCredits, error)
	scheduleFn   func(ctx context.Context, accountID int) ([]course.ScheduleEntry, error)
	classmatesFn func(ctx context.Context, accountID int) ([]course.Classmate, error)
}

func (f *fakeStudentStore) Credits(ctx context.Context, accountID int) (postgres.StudentCredits, error) {
	return f.creditsFn(ctx, accountID)
}

func (f *fakeStudentStore) Schedule(ctx context.Context, accountID int) ([]course.ScheduleEntry, error) {
	return f.scheduleFn(ctx, accountID)
}

func (f *fakeStudentStore) Classmates(ctx context.Context, accountID int) ([]course.Classmate, error) {
	return f.classmatesFn(ctx, accountID)
}

func studentRouter(store *fakeStudentStore) *gin.Engine {
	h := handlers.NewStudentsHandler(store)
	am := middlewares.NewAuthMiddleware(fakeVerifier{accountID: "5"})

	r := gin.New()
	r.GET("/students/credits", am.RequireAuth(), h.Credits)
	r.GET("/students/schedule", am.RequireAuth(), h.Schedule)
	r.GET("/students/classmates", am.RequireAuth(), h.Classmates)

	return r
}

func getAuthed(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer anything")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestStudentCredits(t *testing.T) {
	tests := []struct {
		name       string
		creditsFn  func(ctx context.Context, accountID int) (postgres.StudentCredits, error)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			creditsFn: func(ctx context.Context, accountID int) (postgres.StudentCredits, error) {
				if accountID != 5 {
					t.Errorf("accountID = %d, want 5", accountID)
				}
				return postgres.StudentCredits{StudentID: 3, CreditsAvailable: 9}, nil
			},
			wantStatus: http.StatusOK,
			wantBody:   `"creditsAvailable":9`,
		},
		{
			name: "no_student_profile",
			creditsFn: func(ctx context.Context, accountID int) (postgres.StudentCredits, error) {
				return postgres.StudentCredits{}, postgres.ErrStudentNotFound
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "No student profile",
		},
		{
			name: "store_failure",
			creditsFn: func(ctx context.Context, accountID int) (postgres.StudentCredits, error) {
				return postgres.StudentCredits{}, errors.New("timeout")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStudentStore{creditsFn: tt.creditsFn}

			w := getAuthed(studentRouter(store), "/students/credits")

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %s does not contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestStudentSchedule(t *testing.T) {
	t.Run("with_courses", func(t *testing.T) {
		store := &fakeStudentStore{
			scheduleFn: func(ctx context.Context, accountID int) ([]course.ScheduleEntry, error) {
				return []course.ScheduleEntry{
					{CourseCode: "MATH101", CourseName: "Calculus", Schedule: "Mon 10:00", EnrolledAt: time.Now()},
				}, nil
			},
		}

		w := getAuthed(studentRouter(store), "/students/schedule")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "MATH101") {
			t.Errorf("schedule body missing course code: %s", w.Body.String())
		}
	})

	t.Run("empty_schedule_is_ok", func(t *testing.T) {
		store := &fakeStudentStore{
			scheduleFn: func(ctx context.Context, accountID int) ([]course.ScheduleEntry, error) {
				return nil, nil
			},
		}

		w := getAuthed(studentRouter(store), "/students/schedule")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestStudentClassmates(t *testing.T) {
	t.Run("with_classmates", func(t *testing.T) {
		store := &fakeStudentStore{
			classmatesFn: func(ctx context.Context, accountID int) ([]course.Classmate, error) {
				if accountID != 5 {
					t.Errorf("accountID = %d, want 5", accountID)
				}
				return []course.Classmate{
					{CourseCode: "MATH101", CourseName: "Calculus", StudentID: 8, StudentName: "Luis"},
					{CourseCode: "PHYS201", CourseName: "Mechanics", StudentID: 9, StudentName: "Marta"},
				}, nil
			},
		}

		w := getAuthed(studentRouter(store), "/students/classmates")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "Luis") || !strings.Contains(w.Body.String(), "MATH101") {
			t.Errorf("classmates body missing expected rows: %s", w.Body.String())
		}
	})

	t.Run("empty_is_ok", func(t *testing.T) {
		store := &fakeStudentStore{
			classmatesFn: func(ctx context.Context, accountID int) ([]course.Classmate, error) {
				return nil, nil
			},
		}

		w := getAuthed(studentRouter(store), "/students/classmates")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "No classmates found") {
			t.Errorf("expected the empty-result message, body=%s", w.Body.String())
		}
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &fakeStudentStore{
			classmatesFn: func(ctx context.Context, accountID int) ([]course.Classmate, error) {
				return nil, errors.New("timeout")
			},
		}

		w := getAuthed(studentRouter(store), "/students/classmates")

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "timeout") {
			t.Errorf("response leaked internal error: %s", w.Body.String())
		}
	})
}
