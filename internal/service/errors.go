package service

import "errors"

var (
	ErrInvalidConversationID = newClientError(errors.New("invalid conversation_id: use 1-128 characters from [A-Za-z0-9_.-]"))
	ErrEmptyQuery            = newClientError(errors.New("query must not be empty"))
	ErrInvalidFilename       = newClientError(errors.New("invalid filename"))
)

// clientError marks a failure caused by the request. The HTTP error handler
// answers these with 400.
type clientError struct {
	err error
}

func newClientError(err error) error {
	return &clientError{err: err}
}

func (e *clientError) Error() string { return e.err.Error() }
func (e *clientError) Unwrap() error { return e.err }
func (e *clientError) ClientError() bool { return true }
