package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
)

type TeacherStore interface {
	AssignedCourses(ctx context.Context, accountID int) ([]course.AssignedCourse, error)
}

type TeachersHandler struct {
	store TeacherStore
}

func NewTeachersHandler(store TeacherStore) *TeachersHandler {
	return &TeachersHandler{store: store}
}

func (h *TeachersHandler) AssignedCourses(ctx *gin.Context) {
	accountID, ok := middlewares.AccountIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	courses, err := h.store.AssignedCourses(cctx, accountID)

	if err != nil {
		RespondInternal(ctx, "Could not retrieve assigned courses")
		return
	}

	if len(courses) == 0 {
		RespondOK(ctx, "No courses assigned", courses)
		return
	}

	RespondOK(ctx, "Assigned courses retrieved successfully", courses)
}
