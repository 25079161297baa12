package masterdata

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows master data listings
type ListFilter struct {
	ActiveOnly bool
}

// TillRepository persists tills
type TillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Till, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Till, error)
	// FindAll orders by number
	FindAll(ctx context.Context, filter ListFilter) ([]*Till, error)
	ExistsByNumber(ctx context.Context, number int, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, till *Till) error
}

// BankRepository persists banks
type BankRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bank, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Bank, error)
	FindAll(ctx context.Context, filter ListFilter) ([]*Bank, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, bank *Bank) error
}

// TerminalRepository persists terminals
type TerminalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Terminal, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Terminal, error)
	// FindAll orders by name
	FindAll(ctx context.Context, filter ListFilter) ([]*Terminal, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, terminal *Terminal) error
}

// CashierRepository persists cashiers
type CashierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cashier, error)
	FindAll(ctx context.Context, filter ListFilter) ([]*Cashier, error)
	Save(ctx context.Context, cashier *Cashier) error
}
