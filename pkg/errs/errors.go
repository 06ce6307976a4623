package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNoPermission   = http.StatusForbidden
	ErrStatusNotFound       = http.StatusNotFound
	ErrStatusConflict       = http.StatusConflict
	ErrStatusNotModified    = http.StatusNotModified
)

var (
	ErrInternalServer = errors.New("Internal server error")
	ErrClient         = errors.New("Bad request")
	ErrUnauthorized   = errors.New("Unauthorized")
	ErrForbidden      = errors.New("Forbidden access")
	ErrNotFound       = errors.New("Resource not found")
	ErrConflict       = errors.New("Conflicting record found")
	ErrNotModified    = errors.New("Not modified")

	ErrUserNotFound           = errors.New("User not found")
	ErrControlCenterNotFound  = errors.New("Control center not found")
	ErrVehicleNotFound        = errors.New("Vehicle not found")
	ErrGroupNotFound          = errors.New("Group not found")
	ErrDepartmentNotFound     = errors.New("Department not found")
	ErrMaxMembersReached      = errors.New("Maximum members reached")
	ErrAlreadyMember          = errors.New("User already in control center")
	ErrNotMember              = errors.New("User not in control center")
	ErrTypeNotAllowed         = errors.New("Type not allowed")
	ErrProtectedControlCenter = errors.New("Control center is protected")
	ErrNoStatus               = errors.New("Control center has no status")
	ErrNoVehicle              = errors.New("Control center has no vehicle")
	ErrInvalidStatus          = errors.New("Invalid status")
	ErrMemberTerminated       = errors.New("Member is terminated")
)

// statusCodes is checked in order, so specific errors win over the generic
// ones they may be wrapped together with.
var statusCodes = []struct {
	err  error
	code int
}{
	{ErrUserNotFound, ErrStatusNotFound},
	{ErrControlCenterNotFound, ErrStatusNotFound},
	{ErrVehicleNotFound, ErrStatusNotFound},
	{ErrGroupNotFound, ErrStatusNotFound},
	{ErrDepartmentNotFound, ErrStatusNotFound},
	{ErrMaxMembersReached, ErrStatusConflict},
	{ErrAlreadyMember, ErrStatusConflict},
	{ErrNotMember, ErrStatusConflict},
	{ErrTypeNotAllowed, ErrStatusConflict},
	{ErrProtectedControlCenter, ErrStatusConflict},
	{ErrNoStatus, ErrStatusConflict},
	{ErrNoVehicle, ErrStatusConflict},
	{ErrInvalidStatus, ErrStatusClient},
	{ErrMemberTerminated, ErrStatusUnauthorized},
	{ErrNotModified, ErrStatusNotModified},
	{ErrNotFound, ErrStatusNotFound},
	{ErrConflict, ErrStatusConflict},
	{ErrForbidden, ErrStatusNoPermission},
	{ErrUnauthorized, ErrStatusUnauthorized},
	{ErrClient, ErrStatusClient},
	{ErrInternalServer, ErrStatusInternalServer},
}

// GetErrorStatusCode resolves wrapped errors too, defaulting to 500.
func GetErrorStatusCode(err error) int {
	for _, item := range statusCodes {
		if errors.Is(err, item.err) {
			return item.code
		}
	}

	return ErrStatusInternalServer
}
