package domain

import "errors"

// Domain errors
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrTeamNotFound      = errors.New("team not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPracticeNotFound  = errors.New("practice not found")
	ErrSummaryNotFound   = errors.New("summary not found")
	ErrRecordNotFound    = errors.New("record not found")
	ErrRecordExists      = errors.New("record already exists")
	ErrDuplicatePlayer   = errors.New("player with this email is already registered to this team")
	ErrDuplicateResponse = errors.New("player has already submitted responses for this practice")
	ErrTeamMismatch      = errors.New("player is not registered for the team associated with this practice")
	ErrUnknownQuestion   = errors.New("invalid question id")
	ErrStorage           = errors.New("storage failure")
	ErrCorruptData       = errors.New("corrupt collection data")
	ErrInternalError     = errors.New("internal server error")
)

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrPracticeNotFound) ||
		errors.Is(err, ErrSummaryNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}

// IsConflictError checks if an error is a duplicate/conflict type error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicatePlayer) ||
		errors.Is(err, ErrDuplicateResponse) ||
		errors.Is(err, ErrRecordExists)
}

// IsValidationError checks if an error is a malformed-input type error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrUnknownQuestion)
}
