// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// ErrCustomerNotFound is returned when no customer row has the requested ID
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

// Helper constructor
func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrValidation carries every offending field of a rejected customer payload
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid customer: missing or empty %s", strings.Join(e.Fields, ", "))
}

// Helper constructor
func NewValidation(fields ...string) error {
	return &ErrValidation{Fields: fields}
}
