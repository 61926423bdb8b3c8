// Package memstore is an in-process implementation of the leads and orders
// repositories. It backs service and handler tests and has the same
// ordering and not-found semantics as the Postgres repositories.
package memstore

import (
	"sync"
	"time"
)

// Operation names accepted by FailOn.
const (
	OpGetLead            = "GetLead"
	OpListLeads          = "ListLeads"
	OpListDueBy          = "ListDueBy"
	OpCreateLead         = "CreateLead"
	OpUpdateLead         = "UpdateLead"
	OpDeleteLead         = "DeleteLead"
	OpCreateInteraction  = "CreateInteraction"
	OpUpdateCallSchedule = "UpdateCallSchedule"
	OpListInteractions   = "ListInteractions"
	OpCreateContact      = "CreateContact"
	OpListContacts       = "ListContacts"
	OpCreateOrder        = "CreateOrder"
	OpGetOrder           = "GetOrder"
	OpListOrders         = "ListOrders"
	OpFindOrders         = "FindOrders"
	OpUpdateOrder        = "UpdateOrder"
	OpDeleteOrder        = "DeleteOrder"
)

// Store holds every collection behind one mutex.
type Store struct {
	mu       sync.RWMutex
	failures map[string]error
	now      func() time.Time

	leads  *Leads
	orders *Orders
}

// New returns an empty store.
func New() *Store {
	s := &Store{
		failures: make(map[string]error),
		now:      time.Now,
	}
	s.leads = &Leads{store: s}
	s.orders = &Orders{store: s}
	return s
}

// SetClock replaces the time source used for created_at and updated_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Leads returns the leads repository view.
func (s *Store) Leads() *Leads { return s.leads }

// Orders returns the orders repository view.
func (s *Store) Orders() *Orders { return s.orders }

// failure must be called with mu held.
func (s *Store) failure(op string) error {
	return s.failures[op]
}
