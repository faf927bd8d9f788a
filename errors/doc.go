// Package errors provides the structured error type used across rallykit.
// Descriptor problems detected before a request is issued are reported as
// AppError values with INVALID_INPUT, MISSING_FIELD or INVALID_REF codes.
package errors
