// Package memstore keeps every repository in process memory. It backs tests and
// STORE_DRIVER=memory; its transactions are serialized and rolled back through
// an undo journal so callers observe the same all-or-nothing behaviour as Mongo.
package memstore

import (
	"context"
	"sync"

	"investplan/database"
	"investplan/database/repository"
	"investplan/models"
)

var (
	_ repository.TransactionRepository = (*Transactions)(nil)
	_ repository.UserRepository        = (*Users)(nil)
	_ repository.ProductRepository     = (*Products)(nil)
	_ repository.InvestmentRepository  = (*Investments)(nil)
	_ database.Transactor              = (*Store)(nil)
)

type journalKey struct{}

type journal struct {
	undo []func()
}

// Store holds the shared state behind every repository view.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	transactions map[string]models.Transaction
	users        map[string]models.User
	products     map[string]models.Product
	investments  map[string]models.Investment
}

func New() *Store {
	return &Store{
		transactions: make(map[string]models.Transaction),
		users:        make(map[string]models.User),
		products:     make(map[string]models.Product),
		investments:  make(map[string]models.Investment),
	}
}

func (s *Store) Transactions() *Transactions { return &Transactions{s: s} }
func (s *Store) Users() *Users               { return &Users{s: s} }
func (s *Store) Products() *Products         { return &Products{s: s} }
func (s *Store) Investments() *Investments   { return &Investments{s: s} }

// WithTransaction implements database.Transactor. Nested calls join the outer unit.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	err := fn(context.WithValue(ctx, journalKey{}, j))
	if err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
	}
	return err
}

// enter serializes a call made outside a unit of work with in-flight units, so
// it never observes writes that may still be rolled back. Calls inside a unit
// already hold txMu through WithTransaction.
func (s *Store) enter(ctx context.Context) func() {
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// record registers an undo step for the transaction in ctx, if any. Caller holds s.mu.
func record(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}
