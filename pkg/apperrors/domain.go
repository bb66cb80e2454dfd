package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for domain errors of the questionnaire
and compatibility modules.
*/

// ErrFormNotFound is returned when one of the two users has not submitted
// a questionnaire yet. Mirrors the 404 the API contract promises.
var ErrFormNotFound = New(
	CodeFormNotFound,
	"compatibility",
	"One or both users have not filled the compatibility form",
	http.StatusNotFound,
)

// ErrMissingAnswer wraps an engine precondition failure: a required
// question has no answer. Surfaced as 422, never computed around.
func ErrMissingAnswer(err error) *AppError {
	return Wrap(err, CodeMissingAnswer, "compatibility", "Answer set is incomplete", http.StatusUnprocessableEntity)
}

// ErrInvalidAnswerRange wraps an out-of-scale answer value.
func ErrInvalidAnswerRange(err error) *AppError {
	return Wrap(err, CodeInvalidAnswerRange, "compatibility", "Answer value is outside the questionnaire scale", http.StatusUnprocessableEntity)
}

// ErrSchemaDrift marks a configuration-integrity failure (weights and
// question partition out of sync). This is a startup error; if it ever
// reaches a request it means config validation was skipped.
func ErrSchemaDrift(err error) *AppError {
	return Wrap(err, CodeSchemaDrift, "compatibility", "Questionnaire schema configuration is invalid", http.StatusInternalServerError)
}

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrInvalidCredentials is shared by login and token refresh.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)
