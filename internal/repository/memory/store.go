// Package memory holds in-process repositories backed by a single Store.
// Transactions are serialized and rolled back by restoring a snapshot.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/reconciliation"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/session"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/period"
)

type dayKey struct {
	employeeID string
	date       string
}

type periodKey struct {
	employeeID string
	period     period.Period
}

type tables struct {
	employees    map[string]employee.Employee
	sites        map[string]attendance.Site // by employee id
	events       []attendance.Event
	days         map[dayKey]attendance.Day
	leaves       map[string]leave.LeaveRequest
	sessions     map[string]session.WorkSession
	realizations map[string]session.Realization
	aggregates   map[periodKey]reconciliation.MonthlyAggregate
	payrolls     map[string]payroll.Payroll
	components   map[string][]payroll.SalaryComponent
	payments     map[string]payment.Payment
}

func newTables() tables {
	return tables{
		employees:    map[string]employee.Employee{},
		sites:        map[string]attendance.Site{},
		days:         map[dayKey]attendance.Day{},
		leaves:       map[string]leave.LeaveRequest{},
		sessions:     map[string]session.WorkSession{},
		realizations: map[string]session.Realization{},
		aggregates:   map[periodKey]reconciliation.MonthlyAggregate{},
		payrolls:     map[string]payroll.Payroll{},
		components:   map[string][]payroll.SalaryComponent{},
		payments:     map[string]payment.Payment{},
	}
}

func (t tables) clone() tables {
	return tables{
		employees:    maps.Clone(t.employees),
		sites:        maps.Clone(t.sites),
		events:       append([]attendance.Event(nil), t.events...),
		days:         maps.Clone(t.days),
		leaves:       maps.Clone(t.leaves),
		sessions:     maps.Clone(t.sessions),
		realizations: maps.Clone(t.realizations),
		aggregates:   maps.Clone(t.aggregates),
		payrolls:     maps.Clone(t.payrolls),
		components:   maps.Clone(t.components),
		payments:     maps.Clone(t.payments),
	}
}

// Store is the shared state of the memory repositories. It implements
// database.Transactor.
type Store struct {
	txMu sync.Mutex

	mu   sync.RWMutex
	data tables

	// Now stamps CreatedAt and UpdatedAt.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: newTables(),
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

// WithTransaction runs fn with every other transaction excluded. Changes made
// by fn are discarded when it returns an error.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddEmployee seeds the employee directory.
func (s *Store) AddEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.employees[e.ID] = e
}

// AssignSite sets the attendance site of an employee.
func (s *Store) AssignSite(employeeID string, site attendance.Site) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sites[employeeID] = site
}

// AddSession seeds the session catalogue.
func (s *Store) AddSession(ws session.WorkSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sessions[ws.ID] = ws
}

// Events returns every recorded attendance event in insertion order.
func (s *Store) Events() []attendance.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]attendance.Event(nil), s.data.events...)
}

func (s *Store) now() time.Time {
	return s.Now()
}

func dateKey(employeeID string, date time.Time) dayKey {
	return dayKey{employeeID: employeeID, date: date.Format("2006-01-02")}
}

func notFound(err error, id string) error {
	return fmt.Errorf("%w: %s", err, id)
}
