package errs

import (
	"errors"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken       = errors.New("missing access token")
	ErrExpiredToken       = errors.New("expired access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrNoResolvedEmployee = errors.New("identity has no resolved employee")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Access token is invalid",
		Field:      "authorization",
	}
}

// NewNoResolvedEmployeeError marks a request whose identity carries no
// employee id. Distinct from NotFound: a non-admin without a resolvable
// employee must be rejected, not handed an empty project list.
func NewNoResolvedEmployeeError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrNoResolvedEmployee,
		Details:    "Requester could not be resolved to an employee record",
		Field:      "employee_id",
	}
}

func IsNoResolvedEmployee(err error) bool {
	return errors.Is(err, ErrNoResolvedEmployee)
}
