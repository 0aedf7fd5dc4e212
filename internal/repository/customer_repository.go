package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/customers-service/internal/errors"
	"github.com/unclebandit/customers-service/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	Create(c *model.Customer) error
	GetByID(id int) (*model.Customer, error)
	ListAll() ([]model.Customer, error)
	Update(c *model.Customer) error
	Delete(id int) (bool, error)
}

// CustomerRepository is the concrete implementation. Queries are written with
// `?` bindvars and rebound per driver, so the same code runs against Postgres
// and SQLite.
type CustomerRepository struct {
	DB *sqlx.DB
}

// Create inserts a new row and assigns the store-generated id to c.
func (r *CustomerRepository) Create(c *model.Customer) error {
	query := r.DB.Rebind(`
        INSERT INTO customers (first_name, last_name, address)
        VALUES (?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRow(query, c.FirstName, c.LastName, c.Address).Scan(&c.ID)
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := r.DB.Rebind(`
        SELECT id, first_name, last_name, address
        FROM customers
        WHERE id = ?
    `)
	var c model.Customer
	if err := r.DB.Get(&c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

// ListAll fetches every customer in store order. An empty table yields an
// empty slice, never nil, so it serializes as a JSON array.
func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	query := `
        SELECT id, first_name, last_name, address
        FROM customers
    `
	customers := []model.Customer{}
	if err := r.DB.Select(&customers, query); err != nil {
		return nil, err
	}
	return customers, nil
}

// Update overwrites the three mutable fields in one statement. The id is never
// touched.
func (r *CustomerRepository) Update(c *model.Customer) error {
	query := r.DB.Rebind(`
        UPDATE customers
        SET first_name = ?, last_name = ?, address = ?
        WHERE id = ?
    `)
	res, err := r.DB.Exec(query, c.FirstName, c.LastName, c.Address, c.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewCustomerNotFound(c.ID)
	}
	return nil
}

// Delete removes the row if present and reports whether anything was removed.
// A missing row is not an error.
func (r *CustomerRepository) Delete(id int) (bool, error) {
	query := r.DB.Rebind(`DELETE FROM customers WHERE id = ?`)
	res, err := r.DB.Exec(query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
