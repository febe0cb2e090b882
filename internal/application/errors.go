package application

import "errors"

// Sentinel errors returned by the application services. Handlers map each
// one to an HTTP status; anything not in this list is an internal fault
// and surfaces as a generic 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPicture     = errors.New("invalid profile picture format")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrReceiverRequired = errors.New("receiver email is required")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrSelfTransfer     = errors.New("cannot send payment to yourself")
	ErrBadRequestID     = errors.New("request id must be a valid UUID")

	ErrInvalidRole            = errors.New("invalid role")
	ErrNotAnAdmin             = errors.New("user is not an admin")
	ErrCannotRemoveSuperAdmin = errors.New("cannot remove super admin")
)
