package services

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by all services. Handlers map these onto HTTP
// statuses in one place; nothing below this layer touches gin.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConflictError names the field that collided (sub name, username, email).
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// ValidationError rejects malformed input before any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
