package alerts

import "errors"

var (
	ErrAlertNotFound     = errors.New("alert not found")
	ErrAlertClosed       = errors.New("alert is already closed")
	ErrInvalidTransition = errors.New("alerts cannot be moved back to pending")
)
