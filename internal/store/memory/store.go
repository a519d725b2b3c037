// Package memory is the in-process storage backend. It satisfies the same
// narrow store interfaces the domain services consume, holds everything in
// maps behind one RWMutex, and is selected in demo mode or used as a test
// fixture in place of a database.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// Store keeps all tenant data in memory. Every exported method takes the
// lock; helpers prefixed locked* assume the caller holds it.
type Store struct {
	mu sync.RWMutex

	tenants      map[uuid.UUID]models.Tenant
	users        map[uuid.UUID]models.User
	products     map[uuid.UUID]models.Product
	transactions map[uuid.UUID]models.Transaction
	returns      map[uuid.UUID]models.SaleReturn
	handovers    map[uuid.UUID]models.CashHandover

	now func() time.Time
}

// NewStore builds an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tenants:      make(map[uuid.UUID]models.Tenant),
		users:        make(map[uuid.UUID]models.User),
		products:     make(map[uuid.UUID]models.Product),
		transactions: make(map[uuid.UUID]models.Transaction),
		returns:      make(map[uuid.UUID]models.SaleReturn),
		handovers:    make(map[uuid.UUID]models.CashHandover),
		now:          time.Now,
	}
}

func copyTransaction(txn models.Transaction) models.Transaction {
	out := txn
	out.Items = append([]models.TransactionItem(nil), txn.Items...)
	return out
}

func copyReturn(ret models.SaleReturn) models.SaleReturn {
	out := ret
	out.Items = append([]models.ReturnItem(nil), ret.Items...)
	return out
}

func copyHandover(h models.CashHandover) models.CashHandover {
	out := h
	out.Denominations = make(map[string]int, len(h.Denominations))
	for face, count := range h.Denominations {
		out.Denominations[face] = count
	}
	return out
}
