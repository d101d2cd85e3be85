package app

// IntentError is a failure an intent reports back to the caller. Status, when
// set, becomes the HTTP status of the error response; Code travels in the
// errorCode field of the body.
type IntentError struct {
	Message string
	Code    string
	Status  int
}

func (e *IntentError) Error() string { return e.Message }

// NewIntentError builds an IntentError with an HTTP status.
func NewIntentError(status int, code, message string) *IntentError {
	return &IntentError{Message: message, Code: code, Status: status}
}
