package auth

import (
	"context"
	"errors"
)

// ErrFacilityForbidden indicates the caller's scope excludes a facility.
var ErrFacilityForbidden = errors.New("auth: facility not in scope")

// EnsureFacilityScope verifies the caller may act on a facility. Callers with
// no scope claim may act on any facility; an empty facility name means the
// request is not facility-specific and always passes.
func EnsureFacilityScope(ctx context.Context, facility string) error {
	if facility == "" {
		return nil
	}
	scope := FacilitiesFromContext(ctx)
	if len(scope) == 0 {
		return nil
	}
	for _, allowed := range scope {
		if allowed == facility {
			return nil
		}
	}
	return ErrFacilityForbidden
}
