package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrImmutable indicates an attempt to modify a posted document.
var ErrImmutable = errors.New("document is posted and immutable")

// ErrForbidden indicates the caller lacks permission for the operation.
var ErrForbidden = errors.New("operation not permitted")
