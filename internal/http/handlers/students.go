package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/http/middlewares"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/repo/postgres"
)

type StudentStore interface {
	Credits(ctx context.Context, accountID int) (postgres.StudentCredits, error)
	Schedule(ctx context.Context, accountID int) ([]course.ScheduleEntry, error)
	Classmates(ctx context.Context, accountID int) ([]course.Classmate, error)
}

type StudentsHandler struct {
	store StudentStore
}

func NewStudentsHandler(store StudentStore) *StudentsHandler {
	return &StudentsHandler{store: store}
}

// Credits returns the caller's remaining enrollment credits. The counter
// is owned by the enrollment procedures; this is a read-only view.
func (h *StudentsHandler) Credits(ctx *gin.Context) {
	accountID, ok := middlewares.AccountIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	credits, err := h.store.Credits(cctx, accountID)

	if err != nil {
		if errors.Is(err, postgres.ErrStudentNotFound) {
			RespondNotFound(ctx, "No student profile for this account")
			return
		}
		RespondInternal(ctx, "Could not retrieve credits")
		return
	}

	RespondOK(ctx, "Credits retrieved successfully", credits)
}

func (h *StudentsHandler) Schedule(ctx *gin.Context) {
	accountID, ok := middlewares.AccountIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	entries, err := h.store.Schedule(cctx, accountID)

	if err != nil {
		RespondInternal(ctx, "Could not retrieve schedule")
		return
	}

	if len(entries) == 0 {
		RespondOK(ctx, "No enrolled courses", entries)
		return
	}

	RespondOK(ctx, "Schedule retrieved successfully", entries)
}

// Classmates lists the other students sharing the caller's enrolled
// courses, one row per shared course.
func (h *StudentsHandler) Classmates(ctx *gin.Context) {
	accountID, ok := middlewares.AccountIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	mates, err := h.store.Classmates(cctx, accountID)

	if err != nil {
		RespondInternal(ctx, "Could not retrieve classmates")
		return
	}

	if len(mates) == 0 {
		RespondOK(ctx, "No classmates found", mates)
		return
	}

	RespondOK(ctx, "Classmates retrieved successfully", mates)
}
