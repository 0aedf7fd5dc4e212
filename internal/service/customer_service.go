// internal/service/customer_service.go
package service

import (
	"go.uber.org/zap"

	"github.com/unclebandit/customers-service/internal/events"
	"github.com/unclebandit/customers-service/internal/model"
	"github.com/unclebandit/customers-service/internal/repository"
)

// CustomerService owns the write rules for customers: validation runs before
// any store mutation, and lifecycle events are published after successful
// writes.
type CustomerService struct {
	Repo   repository.CustomerRepositoryInterface
	Events events.Publisher
	Logger *zap.Logger
}

// CreateCustomer validates the fields, inserts the row and returns the entity
// with its store-assigned id.
func (s *CustomerService) CreateCustomer(firstName, lastName, address string) (*model.Customer, error) {
	c := &model.Customer{
		FirstName: firstName,
		LastName:  lastName,
		Address:   address,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}

	s.Logger.Info("customer created", zap.Int("id", c.ID))
	s.publish(events.CustomerCreated, c.ID)
	return c, nil
}

// GetCustomer fetches a single customer by id.
func (s *CustomerService) GetCustomer(id int) (*model.Customer, error) {
	return s.Repo.GetByID(id)
}

// ListCustomers returns every stored customer, empty slice included.
func (s *CustomerService) ListCustomers() ([]model.Customer, error) {
	return s.Repo.ListAll()
}

// UpdateCustomer overwrites all three mutable fields of an existing customer.
// Field validation runs before the store is consulted, so an invalid payload
// never reaches it even when the id does not exist.
func (s *CustomerService) UpdateCustomer(id int, firstName, lastName, address string) (*model.Customer, error) {
	c := &model.Customer{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
		Address:   address,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(c); err != nil {
		return nil, err
	}

	s.Logger.Info("customer updated", zap.Int("id", id))
	s.publish(events.CustomerUpdated, id)
	return c, nil
}

// DeleteCustomer removes a customer if present. Deleting an absent id is a
// successful no-op, which keeps client retries simple.
func (s *CustomerService) DeleteCustomer(id int) error {
	deleted, err := s.Repo.Delete(id)
	if err != nil {
		return err
	}
	if deleted {
		s.Logger.Info("customer deleted", zap.Int("id", id))
		s.publish(events.CustomerDeleted, id)
	}
	return nil
}

// publish sends a lifecycle event without ever failing the request that
// triggered it.
func (s *CustomerService) publish(eventType string, id int) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(events.NewEvent(eventType, id)); err != nil {
		s.Logger.Warn("failed to publish event",
			zap.String("event", eventType),
			zap.Int("customer_id", id),
			zap.Error(err),
		)
	}
}
