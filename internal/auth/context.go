package auth

import "context"

type contextKey string

const (
	contextKeyRole       contextKey = "auth.role"
	contextKeySubject    contextKey = "auth.subject"
	contextKeyFacilities contextKey = "auth.facilities"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, subject string, role Role, facilities []string) context.Context {
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeyFacilities, facilities)
	return ctx
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyRole)
	if role, ok := value.(Role); ok {
		return role
	}
	if role, ok := value.(string); ok {
		if normalized, valid := NormalizeRole(role); valid {
			return normalized
		}
	}
	return ""
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeySubject)
	if subject, ok := value.(string); ok {
		return subject
	}
	return ""
}

// FacilitiesFromContext extracts the facility scope from context. Nil means
// unrestricted.
func FacilitiesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	value := ctx.Value(contextKeyFacilities)
	if facilities, ok := value.([]string); ok {
		return facilities
	}
	return nil
}
