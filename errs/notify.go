package errs

import (
	"errors"
	"fmt"
)

// ErrNotificationDispatch marks a failed delivery to a single recipient.
// Dispatch errors are always non-fatal: they are logged per recipient and
// never surfaced to the write path that triggered the notification.
var ErrNotificationDispatch = errors.New("notification dispatch failed")

type DispatchError struct {
	Recipient string
	Cause     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: recipient %s: %v", ErrNotificationDispatch.Error(), e.Recipient, e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return ErrNotificationDispatch
}

func NewDispatchError(recipient string, cause error) *DispatchError {
	return &DispatchError{Recipient: recipient, Cause: cause}
}

func IsDispatchError(err error) bool {
	return errors.Is(err, ErrNotificationDispatch)
}
