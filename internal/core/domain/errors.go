package domain

import "errors"

// Sentinel errors for the whole core. Handlers never branch on error strings;
// the central HTTP error handler maps these to status codes.
var (
	// ErrUnauthorized covers missing, malformed, expired or revoked credentials.
	// Login and refresh failures deliberately collapse into this single error so
	// the response never reveals which part of the credential was wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by credential verification. It maps to
	// the same uninformative 401 as ErrUnauthorized.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidRefreshToken is returned when a refresh token is malformed,
	// expired, or present on the revocation list.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrForbidden means the caller is authenticated but lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity is absent or soft-deleted.
	ErrNotFound = errors.New("not found")

	ErrUserExists          = errors.New("user already exists")
	ErrRoleExists          = errors.New("role with this code already exists")
	ErrReservedRoleCode    = errors.New("cannot use reserved system role codes")
	ErrSystemRoleImmutable = errors.New("system roles cannot be modified")
	ErrRoleInUse           = errors.New("role is assigned to users and cannot be deleted")
	ErrAdminUndeletable    = errors.New("users holding the admin role cannot be deleted")
	ErrUserHasRoles        = errors.New("user still has role assignments")
	ErrMenuCycle           = errors.New("menu parent would create a cycle")

	// ErrRateLimited is returned by the admission-control layer.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrValidation covers malformed input that survived request binding.
	ErrValidation = errors.New("invalid input")
)
