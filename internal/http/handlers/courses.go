package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/catalog"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
)

type CourseStore interface {
	ListAvailable(ctx context.Context) ([]course.CatalogEntry, error)
	ListUnassigned(ctx context.Context) ([]course.UnassignedCourse, error)
	Enroll(ctx context.Context, accountID int, courseCode string) (course.Outcome, error)
	Drop(ctx context.Context, accountID int, courseCode string) (course.Outcome, error)
	Register(ctx context.Context, c course.NewCourse) (course.Outcome, error)
	AssignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error)
	UnassignTeacher(ctx context.Context, teacherID int, courseCode string) (course.Outcome, error)
}

type CoursesHandler struct {
	store CourseStore
	cache catalog.Cache
}

func NewCoursesHandler(store CourseStore, cache catalog.Cache) *CoursesHandler {
	return &CoursesHandler{store: store, cache: cache}
}

type EnrollmentItem struct {
	CourseCode string `json:"course_code" binding:"required"`
}

type EnrollmentRequest struct {
	Courses []EnrollmentItem `json:"courses" binding:"required,min=1,dive"`
}

type NewCourseRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Credits     int    `json:"credits" binding:"required,gt=0"`
	MaxSeats    int    `json:"max_seats" binding:"required,gt=0"`
	Schedule    string `json:"schedule"`
}

type AssignmentRequest struct {
	TeacherID  int    `json:"teacher_id" binding:"required"`
	CourseCode string `json:"course_code" binding:"required"`
}

func (h *CoursesHandler) ListAvailable(ctx *gin.Context) {
	rctx := ctx.Request.Context()

	if entries, ok := h.cache.GetAvailable(rctx); ok {
		respondCatalog(ctx, entries, "No courses available", "Courses retrieved successfully")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.store.ListAvailable(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list available courses")
		return
	}

	h.cache.SetAvailable(rctx, entries)
	respondCatalog(ctx, entries, "No courses available", "Courses retrieved successfully")
}

func (h *CoursesHandler) ListUnassigned(ctx *gin.Context) {
	rctx := ctx.Request.Context()

	if courses, ok := h.cache.GetUnassigned(rctx); ok {
		respondCatalog(ctx, courses, "No unassigned courses found", "Unassigned courses retrieved successfully")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	courses, err := h.store.ListUnassigned(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list unassigned courses")
		return
	}

	h.cache.SetUnassigned(rctx, courses)
	respondCatalog(ctx, courses, "No unassigned courses found", "Unassigned courses retrieved successfully")
}

// respondCatalog keeps cached and uncached responses identical, including
// the empty-result message.
func respondCatalog[T any](ctx *gin.Context, items []T, emptyMsg, okMsg string) {
	if len(items) == 0 {
		RespondOK(ctx, emptyMsg, items)
		return
	}

	RespondOK(ctx, okMsg, items)
}

// Enroll processes each requested course independently; one full course
// does not fail the whole batch. The stored procedure is the only place
// seat capacity, duplicates and credit limits are checked.
func (h *CoursesHandler) Enroll(ctx *gin.Context) {
	h.processBatch(ctx, h.store.Enroll,
		"All enrollments processed successfully",
		"Some enrollments could not be processed")
}

func (h *CoursesHandler) Drop(ctx *gin.Context) {
	h.processBatch(ctx, h.store.Drop,
		"All enrollments removed successfully",
		"Some enrollments could not be removed")
}

func (h *CoursesHandler) processBatch(ctx *gin.Context, op func(context.Context, int, string) (course.Outcome, error), okMsg, partialMsg string) {
	var req EnrollmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	accountID, ok := middlewares.AccountIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	results := make([]course.Outcome, 0, len(req.Courses))
	allOK := true
	anyOK := false

	for _, item := range req.Courses {
		out, err := op(cctx, accountID, item.CourseCode)

		if err != nil {
			out = course.Outcome{OK: false, Message: "database error"}
		}

		out.CourseCode = item.CourseCode
		results = append(results, out)

		if out.OK {
			anyOK = true
		} else {
			allOK = false
		}
	}

	if anyOK {
		h.cache.Invalidate(ctx.Request.Context())
	}

	msg := okMsg
	if !allOK {
		msg = partialMsg
	}

	ctx.JSON(200, Response{
		Success: allOK,
		Message: msg,
		Data:    results,
	})
}

func (h *CoursesHandler) RegisterCourse(ctx *gin.Context) {
	var req NewCourseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	out, err := h.store.Register(cctx, course.NewCourse{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
		MaxSeats:    req.MaxSeats,
		Schedule:    req.Schedule,
	})

	if err != nil {
		RespondInternal(ctx, "Could not register the course")
		return
	}

	if !out.OK {
		RespondBadRequest(ctx, out.Message)
		return
	}

	h.cache.Invalidate(ctx.Request.Context())
	RespondOK(ctx, out.Message, out)
}

func (h *CoursesHandler) AssignTeacher(ctx *gin.Context) {
	h.assignment(ctx, h.store.AssignTeacher, "Could not assign the course")
}

func (h *CoursesHandler) UnassignTeacher(ctx *gin.Context) {
	h.assignment(ctx, h.store.UnassignTeacher, "Could not unassign the course")
}

func (h *CoursesHandler) assignment(ctx *gin.Context, op func(context.Context, int, string) (course.Outcome, error), failMsg string) {
	var req AssignmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	out, err := op(cctx, req.TeacherID, req.CourseCode)

	if err != nil {
		RespondInternal(ctx, failMsg)
		return
	}

	if !out.OK {
		RespondBadRequest(ctx, out.Message)
		return
	}

	h.cache.Invalidate(ctx.Request.Context())
	RespondOK(ctx, out.Message, out)
}
