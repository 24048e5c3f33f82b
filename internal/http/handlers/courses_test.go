package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/auth"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/handlers"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
	"github.com/golang-jwt/jwt/v5"
)

type fakeCourseStore struct {
	listAvailableFn  func(ctx context.Context) ([]course.CatalogEntry, error)
	listUnassignedFn func(ctx context.Context) ([]course.UnassignedCourse, error)
	enrollFn         func(ctx context.Context, accountID int, courseCode string) (course.Outcome, error)
	dropFn           func(ctx context.Context, accountID int, courseCode string) (course.Outcome, error)
	registerFn       func(ctx context.Context, c course.NewCourse) (course.Outcome, error)
	assignFn         func(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error)
}

func (f *fakeCourseStore) ListAvailable(ctx context.Context) ([]course.CatalogEntry, error) {
	return f.listAvailableFn(ctx)
}

func (f *fakeCourseStore) ListUnassigned(ctx context.Context) ([]course.UnassignedCourse, error) {
	return f.listUnassignedFn(ctx)
}

func (f *fakeCourseStore) Enroll(ctx context.Context, accountID int, courseCode string) (course.Outcome, error) {
	return f.enrollFn(ctx, accountID, courseCode)
}

func (f *fakeCourseStore) Drop(ctx context.Context, accountID int, courseCode string) (course.Outcome, error) {
	return f.dropFn(ctx, accountID, courseCode)
}

func (f *fakeCourseStore) Register(ctx context.Context, c course.NewCourse) (course.Outcome, error) {
	return f.registerFn(ctx, c)
}

func (f *fakeCourseStore) AssignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error) {
	return f.assignFn(ctx, teacherID, courseCode)
}

func (f *fakeCourseStore) UnassignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error) {
	return f.assignFn(ctx, teacherID, courseCode)
}

// fakeCache records invalidations and serves a canned available list
// when one is configured.
type fakeCache struct {
	available   []course.CatalogEntry
	setCalls    int
	invalidated int
}

func (f *fakeCache) GetAvailable(ctx context.Context) ([]course.CatalogEntry, bool) {
	return f.available, f.available != nil
}

func (f *fakeCache) SetAvailable(ctx context.Context, entries []course.CatalogEntry) {
	f.setCalls++
}

func (f *fakeCache) GetUnassigned(ctx context.Context) ([]course.UnassignedCourse, bool) {
	return nil, false
}

func (f *fakeCache) SetUnassigned(ctx context.Context, courses []course.UnassignedCourse) {
	f.setCalls++
}

func (f *fakeCache) Invalidate(ctx context.Context) {
	f.invalidated++
}

// fakeVerifier hands back fixed claims so requests flow through the
// real auth middleware instead of poking context keys directly.
type fakeVerifier struct {
	accountID string
}

func (f fakeVerifier) Verify(token string) (*auth.Claims, error) {
	return &auth.Claims{
		Role: "Student",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: f.accountID,
		},
	}, nil
}

func enrollRouter(store *fakeCourseStore, cache *fakeCache) *gin.Engine {
	h := handlers.NewCoursesHandler(store, cache)
	am := middlewares.NewAuthMiddleware(fakeVerifier{accountID: "5"})

	r := gin.New()
	r.POST("/courses/enrollments", am.RequireAuth(), h.Enroll)
	r.POST("/courses", h.RegisterCourse)
	r.POST("/courses/assignments", h.AssignTeacher)
	r.GET("/courses/available", h.ListAvailable)

	return r
}

func postJSON(r *gin.Engine, path, body string, withToken bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		req.Header.Set("Authorization", "Bearer anything")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type batchResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []course.Outcome `json:"data"`
}

func TestEnrollBatch(t *testing.T) {
	tests := []struct {
		name        string
		enrollFn    func(ctx context.Context, accountID int, courseCode string) (course.Outcome, error)
		wantSuccess bool
		wantResults map[string]bool
		wantInvalid int
	}{
		{
			name: "all_succeed",
			enrollFn: func(ctx context.Context, accountID int, code string) (course.Outcome, error) {
				return course.Outcome{OK: true, Message: "Enrolled"}, nil
			},
			wantSuccess: true,
			wantResults: map[string]bool{"MATH101": true, "PHYS201": true},
			wantInvalid: 1,
		},
		{
			name: "one_course_full",
			enrollFn: func(ctx context.Context, accountID int, code string) (course.Outcome, error) {
				if code == "PHYS201" {
					return course.Outcome{OK: false, Message: "No seats available"}, nil
				}
				return course.Outcome{OK: true, Message: "Enrolled"}, nil
			},
			wantSuccess: false,
			wantResults: map[string]bool{"MATH101": true, "PHYS201": false},
			wantInvalid: 1,
		},
		{
			name: "store_error_marks_item_failed",
			enrollFn: func(ctx context.Context, accountID int, code string) (course.Outcome, error) {
				return course.Outcome{}, errors.New("broken pipe")
			},
			wantSuccess: false,
			wantResults: map[string]bool{"MATH101": false, "PHYS201": false},
			wantInvalid: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCourseStore{enrollFn: tt.enrollFn}
			cache := &fakeCache{}

			w := postJSON(enrollRouter(store, cache), "/courses/enrollments",
				`{"courses":[{"course_code":"MATH101"},{"course_code":"PHYS201"}]}`, true)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
			}

			var resp batchResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}

			if resp.Success != tt.wantSuccess {
				t.Errorf("success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if len(resp.Data) != len(tt.wantResults) {
				t.Fatalf("got %d results, want %d", len(resp.Data), len(tt.wantResults))
			}
			for _, out := range resp.Data {
				want, known := tt.wantResults[out.CourseCode]
				if !known {
					t.Errorf("unexpected course code %q in results", out.CourseCode)
					continue
				}
				if out.OK != want {
					t.Errorf("course %s: ok = %v, want %v", out.CourseCode, out.OK, want)
				}
			}
			if cache.invalidated != tt.wantInvalid {
				t.Errorf("cache invalidations = %d, want %d", cache.invalidated, tt.wantInvalid)
			}
		})
	}
}

func TestEnrollRequiresAuth(t *testing.T) {
	store := &fakeCourseStore{}
	w := postJSON(enrollRouter(store, &fakeCache{}), "/courses/enrollments",
		`{"courses":[{"course_code":"MATH101"}]}`, false)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

func TestEnrollRejectsEmptyBatch(t *testing.T) {
	store := &fakeCourseStore{}
	w := postJSON(enrollRouter(store, &fakeCache{}), "/courses/enrollments", `{"courses":[]}`, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestListAvailable(t *testing.T) {
	entry := course.CatalogEntry{Code: "MATH101", Name: "Calculus", Credits: 4, SeatsLeft: 3}

	t.Run("cache_hit_skips_store", func(t *testing.T) {
		store := &fakeCourseStore{
			listAvailableFn: func(ctx context.Context) ([]course.CatalogEntry, error) {
				t.Fatal("store should not be queried on a cache hit")
				return nil, nil
			},
		}
		cache := &fakeCache{available: []course.CatalogEntry{entry}}

		r := enrollRouter(store, cache)
		req := httptest.NewRequest(http.MethodGet, "/courses/available", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}
	})

	t.Run("empty_cache_hit_matches_uncached_message", func(t *testing.T) {
		store := &fakeCourseStore{
			listAvailableFn: func(ctx context.Context) ([]course.CatalogEntry, error) {
				t.Fatal("store should not be queried on a cache hit")
				return nil, nil
			},
		}
		cache := &fakeCache{available: []course.CatalogEntry{}}

		r := enrollRouter(store, cache)
		req := httptest.NewRequest(http.MethodGet, "/courses/available", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), "No courses available") {
			t.Errorf("cached empty catalog should use the empty-result message, body=%s", w.Body.String())
		}
	})

	t.Run("cache_miss_fills_cache", func(t *testing.T) {
		store := &fakeCourseStore{
			listAvailableFn: func(ctx context.Context) ([]course.CatalogEntry, error) {
				return []course.CatalogEntry{entry}, nil
			},
		}
		cache := &fakeCache{}

		r := enrollRouter(store, cache)
		req := httptest.NewRequest(http.MethodGet, "/courses/available", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200", w.Code)
		}
		if cache.setCalls != 1 {
			t.Errorf("cache set calls = %d, want 1", cache.setCalls)
		}
	})

	t.Run("store_failure", func(t *testing.T) {
		store := &fakeCourseStore{
			listAvailableFn: func(ctx context.Context) ([]course.CatalogEntry, error) {
				return nil, errors.New("timeout")
			},
		}

		r := enrollRouter(store, &fakeCache{})
		req := httptest.NewRequest(http.MethodGet, "/courses/available", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", w.Code)
		}
	})
}

func TestRegisterCourse(t *testing.T) {
	body := `{"code":"MATH101","name":"Calculus","credits":4,"max_seats":30,"schedule":"Mon 10:00"}`

	tests := []struct {
		name        string
		registerFn  func(ctx context.Context, c course.NewCourse) (course.Outcome, error)
		wantStatus  int
		wantInvalid int
	}{
		{
			name: "created",
			registerFn: func(ctx context.Context, c course.NewCourse) (course.Outcome, error) {
				if c.Code != "MATH101" || c.Credits != 4 {
					t.Errorf("unexpected course payload: %+v", c)
				}
				return course.Outcome{OK: true, Message: "Course registered"}, nil
			},
			wantStatus:  http.StatusOK,
			wantInvalid: 1,
		},
		{
			name: "rejected_by_store",
			registerFn: func(ctx context.Context, c course.NewCourse) (course.Outcome, error) {
				return course.Outcome{OK: false, Message: "Course code already exists"}, nil
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store_failure",
			registerFn: func(ctx context.Context, c course.NewCourse) (course.Outcome, error) {
				return course.Outcome{}, errors.New("db down")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCourseStore{registerFn: tt.registerFn}
			cache := &fakeCache{}

			w := postJSON(enrollRouter(store, cache), "/courses", body, false)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if cache.invalidated != tt.wantInvalid {
				t.Errorf("cache invalidations = %d, want %d", cache.invalidated, tt.wantInvalid)
			}
		})
	}
}

func TestAssignTeacher(t *testing.T) {
	store := &fakeCourseStore{
		assignFn: func(ctx context.Context, teacherID int, code string) (course.Outcome, error) {
			if teacherID != 2 || code != "MATH101" {
				t.Errorf("assign called with teacher=%d course=%q", teacherID, code)
			}
			return course.Outcome{OK: true, Message: "Assigned"}, nil
		},
	}
	cache := &fakeCache{}

	w := postJSON(enrollRouter(store, cache), "/courses/assignments",
		`{"teacher_id":2,"course_code":"MATH101"}`, false)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidated)
	}
}
