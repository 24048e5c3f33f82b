package catalog

import (
	"context"

	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/course"
)

// Cache is a read-through cache for the two catalog queries. Both are
// whole-result-set values; anything that changes seats or assignments
// invalidates the lot.
type Cache interface {
	GetAvailable(ctx context.Context) ([]course.CatalogEntry, bool)
	SetAvailable(ctx context.Context, entries []course.CatalogEntry)
	GetUnassigned(ctx context.Context) ([]course.UnassignedCourse, bool)
	SetUnassigned(ctx context.Context, courses []course.UnassignedCourse)
	Invalidate(ctx context.Context)
}
