package masterdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zreport/backend/internal/domain/masterdata"
)

type MockTillRepository struct {
	mock.Mock
}

func (m *MockTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Till, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Till), args.Error(1)
}

func (m *MockTillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Till, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*masterdata.Till), args.Error(1)
}

func (m *MockTillRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Till, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*masterdata.Till), args.Error(1)
}

func (m *MockTillRepository) ExistsByNumber(ctx context.Context, number int, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTillRepository) Save(ctx context.Context, till *masterdata.Till) error {
	args := m.Called(ctx, till)
	return args.Error(0)
}

type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Bank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Bank), args.Error(1)
}

func (m *MockBankRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Bank, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*masterdata.Bank), args.Error(1)
}

func (m *MockBankRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Bank, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*masterdata.Bank), args.Error(1)
}

func (m *MockBankRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBankRepository) Save(ctx context.Context, bank *masterdata.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

type MockTerminalRepository struct {
	mock.Mock
}

func (m *MockTerminalRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Terminal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Terminal), args.Error(1)
}

func (m *MockTerminalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Terminal, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*masterdata.Terminal), args.Error(1)
}

func (m *MockTerminalRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Terminal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*masterdata.Terminal), args.Error(1)
}

func (m *MockTerminalRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTerminalRepository) Save(ctx context.Context, terminal *masterdata.Terminal) error {
	args := m.Called(ctx, terminal)
	return args.Error(0)
}

type MockCashierRepository struct {
	mock.Mock
}

func (m *MockCashierRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Cashier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Cashier), args.Error(1)
}

func (m *MockCashierRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Cashier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*masterdata.Cashier), args.Error(1)
}

func (m *MockCashierRepository) Save(ctx context.Context, cashier *masterdata.Cashier) error {
	args := m.Called(ctx, cashier)
	return args.Error(0)
}
