// internal/controller/customer_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/customers-service/internal/errors"
	"github.com/unclebandit/customers-service/internal/service"
)

// CustomerController translates HTTP requests into CustomerService calls and
// service results into status codes and JSON bodies.
type CustomerController struct {
	Service *service.CustomerService
	Logger  *zap.Logger
}

// customerPayload is the wire shape of create and update bodies. A stray "id"
// in the body is ignored: the id comes from the store on create and from the
// URL on update.
type customerPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterRoutes mounts the customer resource on the router.
func (c *CustomerController) RegisterRoutes(r chi.Router) {
	r.Post("/customers", c.CreateCustomer)
	r.Get("/customers", c.ListCustomers)
	r.Get("/customers/{id}", c.GetCustomer)
	r.Put("/customers/{id}", c.UpdateCustomer)
	r.Delete("/customers/{id}", c.DeleteCustomer)
}

// CreateCustomer handles POST /customers.
func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerPayload
	if !c.decodeJSON(w, r, &body) {
		return
	}

	cust, err := c.Service.CreateCustomer(body.FirstName, body.LastName, body.Address)
	if err != nil {
		c.writeServiceError(w, err, "create customer")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/customers/%d", cust.ID))
	c.writeJSON(w, http.StatusCreated, cust)
}

// ListCustomers handles GET /customers.
func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.Service.ListCustomers()
	if err != nil {
		c.writeServiceError(w, err, "list customers")
		return
	}
	c.writeJSON(w, http.StatusOK, customers)
}

// GetCustomer handles GET /customers/{id}.
func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := c.customerID(w, r)
	if !ok {
		return
	}

	cust, err := c.Service.GetCustomer(id)
	if err != nil {
		c.writeServiceError(w, err, "get customer")
		return
	}
	c.writeJSON(w, http.StatusOK, cust)
}

// UpdateCustomer handles PUT /customers/{id}.
func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := c.customerID(w, r)
	if !ok {
		return
	}

	var body customerPayload
	if !c.decodeJSON(w, r, &body) {
		return
	}

	cust, err := c.Service.UpdateCustomer(id, body.FirstName, body.LastName, body.Address)
	if err != nil {
		c.writeServiceError(w, err, "update customer")
		return
	}
	c.writeJSON(w, http.StatusOK, cust)
}

// DeleteCustomer handles DELETE /customers/{id}. Responds 204 whether or not
// the row existed.
func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := c.customerID(w, r)
	if !ok {
		return
	}

	if err := c.Service.DeleteCustomer(id); err != nil {
		c.writeServiceError(w, err, "delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// customerID parses the {id} URL parameter, answering 400 on anything that is
// not an integer.
func (c *CustomerController) customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, "customer id must be an integer")
		return 0, false
	}
	return id, true
}

// decodeJSON parses the request body before any service call, answering 400
// with a field-level message where the decoder can name the field.
func (c *CustomerController) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		c.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a string", typeErr.Field))
	case errors.Is(err, io.EOF):
		c.writeError(w, http.StatusBadRequest, "request body is required")
	default:
		c.writeError(w, http.StatusBadRequest, "invalid request body")
	}
	return false
}

// writeServiceError maps service errors onto status codes. Validation and
// not-found are expected outcomes; anything else is a store fault, logged and
// reported as a 500.
func (c *CustomerController) writeServiceError(w http.ResponseWriter, err error, operation string) {
	var notFound *appErrors.ErrCustomerNotFound
	var invalid *appErrors.ErrValidation
	switch {
	case errors.As(err, &notFound):
		c.writeError(w, http.StatusNotFound, "customer not found")
	case errors.As(err, &invalid):
		c.writeError(w, http.StatusBadRequest, invalid.Error())
	default:
		c.Logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (c *CustomerController) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.Logger.Error("failed to encode response", zap.Error(err))
	}
}

func (c *CustomerController) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, errorBody{Error: http.StatusText(status), Message: message})
}
