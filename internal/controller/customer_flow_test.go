package controller_test

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/customers-service/internal/controller"
	"github.com/unclebandit/customers-service/internal/db"
	"github.com/unclebandit/customers-service/internal/events"
	"github.com/unclebandit/customers-service/internal/model"
	"github.com/unclebandit/customers-service/internal/repository"
	"github.com/unclebandit/customers-service/internal/service"
)

func newSQLiteRouter(t *testing.T) (*chi.Mux, *events.MemoryPublisher) {
	t.Helper()

	tempFile, err := os.CreateTemp(t.TempDir(), "test_*.db")
	if err != nil {
		t.Fatalf("os.CreateTemp() failed: %v", err)
	}
	tempFile.Close()

	conn, err := db.Open(tempFile.Name())
	if err != nil {
		t.Fatalf("db.Open() failed: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})

	if err := db.EnsureSchema(conn); err != nil {
		t.Fatalf("db.EnsureSchema() failed: %v", err)
	}

	pub := events.NewMemoryPublisher()
	svc := &service.CustomerService{
		Repo:   &repository.CustomerRepository{DB: conn},
		Events: pub,
		Logger: zap.NewNop(),
	}
	ctrl := &controller.CustomerController{
		Service: svc,
		Logger:  zap.NewNop(),
	}

	r := chi.NewRouter()
	ctrl.RegisterRoutes(r)
	return r, pub
}

// TestCustomerLifecycle walks one record through every operation against a
// real SQLite store.
func TestCustomerLifecycle(t *testing.T) {
	router, pub := newSQLiteRouter(t)

	// Create
	w := doRequest(t, router, "POST", "/customers",
		`{"first_name": "John", "last_name": "Doe", "address": "123 Main Street, New York, NY 10001"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.Customer
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("create: failed to decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("create: expected store-assigned id")
	}

	// Read back
	w = doRequest(t, router, "GET", "/customers/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	// Update
	w = doRequest(t, router, "PUT", "/customers/1",
		`{"first_name": "Johnny", "last_name": "Doe", "address": "99 New Address Road"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, "GET", "/customers/1", "")
	var updated model.Customer
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("get after update: failed to decode response: %v", err)
	}
	if updated.FirstName != "Johnny" || updated.Address != "99 New Address Road" {
		t.Errorf("update not persisted: got %+v", updated)
	}

	// Delete, then the id is gone for good
	if w = doRequest(t, router, "DELETE", "/customers/1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w = doRequest(t, router, "GET", "/customers/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
	if w = doRequest(t, router, "DELETE", "/customers/1", ""); w.Code != http.StatusNoContent {
		t.Errorf("repeat delete: expected 204, got %d", w.Code)
	}

	// A new customer never inherits the deleted id.
	w = doRequest(t, router, "POST", "/customers",
		`{"first_name": "Jane", "last_name": "Smith", "address": "456 Oak Avenue, Los Angeles, CA 90001"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("second create: expected 201, got %d", w.Code)
	}
	var second model.Customer
	if err := json.NewDecoder(w.Body).Decode(&second); err != nil {
		t.Fatalf("second create: failed to decode response: %v", err)
	}
	if second.ID <= created.ID {
		t.Errorf("expected fresh id above %d, got %d", created.ID, second.ID)
	}

	// A rejected create leaves the stored set unchanged.
	if w = doRequest(t, router, "POST", "/customers", `{"first_name": "Orphan"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: expected 400, got %d", w.Code)
	}
	w = doRequest(t, router, "GET", "/customers", "")
	var all []model.Customer
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("list after invalid create: failed to decode response: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 customer after rejected create, got %d", len(all))
	}

	// One event per effective write: create, update, delete, create.
	published := pub.Events()
	if len(published) != 4 {
		t.Fatalf("expected 4 events, got %d", len(published))
	}
	wantTypes := []string{
		events.CustomerCreated,
		events.CustomerUpdated,
		events.CustomerDeleted,
		events.CustomerCreated,
	}
	for i, want := range wantTypes {
		if published[i].Type != want {
			t.Errorf("event %d: expected %q, got %q", i, want, published[i].Type)
		}
	}
}
