package service

import "errors"

var (
	// ErrLinkInvalid covers missing, expired, and already-consumed tokens.
	// Expired links are deliberately indistinguishable from nonexistent
	// ones.
	ErrLinkInvalid = errors.New("invalid or already used link")

	// ErrTypeMismatch means the token is valid but bound to a different
	// reading type than the one selected. Distinct from ErrLinkInvalid so
	// the caller can show a different message.
	ErrTypeMismatch = errors.New("link not valid for the selected reading type")

	ErrUnknownReadingType = errors.New("unknown reading type")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidTransition  = errors.New("operation not valid in the current session state")
	ErrQuestionRequired   = errors.New("question is required")
	ErrWrongCardCount     = errors.New("wrong number of cards for this reading type")
	ErrDuplicateCard      = errors.New("the same card cannot be selected twice")
	ErrUnknownCard        = errors.New("unknown card id")
	ErrInvalidUserInfo    = errors.New("invalid user information")
	ErrBirthDateInFuture  = errors.New("birth date cannot be in the future")
	ErrGenerationFailed   = errors.New("failed to generate reading")
)
