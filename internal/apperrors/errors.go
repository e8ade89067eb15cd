package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates the batch total exceeds the account balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrTerminalState indicates an attempted transition out of a terminal state.
var ErrTerminalState = errors.New("entity is in a terminal state")
