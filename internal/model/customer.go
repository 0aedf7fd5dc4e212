// internal/model/customer.go
package model

import (
	appErrors "github.com/unclebandit/customers-service/internal/errors"
)

// Customer represents a single customer record. ID is assigned by the store on
// insert and never changes afterwards.
type Customer struct {
	ID        int    `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Address   string `db:"address" json:"address"`
}

// Validate checks that every required field is present and non-empty. It
// collects all offending fields so a single error names each of them. No
// trimming is applied: presence means length > 0.
func (c *Customer) Validate() error {
	var missing []string
	if c.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if c.LastName == "" {
		missing = append(missing, "last_name")
	}
	if c.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return appErrors.NewValidation(missing...)
	}
	return nil
}
