package app

import "fmt"

// DomainError is a ledger-operation failure with a fixed HTTP mapping. The
// codes in use are VALIDATION_ERROR (bad input), NOT_FOUND (unknown todo),
// STATE_CONFLICT (duplicate purchase) and ORACLE_NOT_CONFIGURED; anything
// else surfacing from an operation is infrastructure and maps to a generic
// 500 in the transport layer.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
