package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

func activeScope(filter masterdata.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.ActiveOnly {
			return db.Where("active = ?", true)
		}
		return db
	}
}

func excludeScope(excludeID *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if excludeID != nil {
			return db.Where("id <> ?", *excludeID)
		}
		return db
	}
}

// GormTillRepository implements masterdata.TillRepository using GORM
type GormTillRepository struct {
	db *gorm.DB
}

// NewGormTillRepository creates a new GormTillRepository
func NewGormTillRepository(db *gorm.DB) *GormTillRepository {
	return &GormTillRepository{db: db}
}

// FindByID finds a till by its ID
func (r *GormTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Till, error) {
	var model models.TillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the tills with the given IDs, ignoring unknown ones
func (r *GormTillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Till, error) {
	if len(ids) == 0 {
		return []*masterdata.Till{}, nil
	}
	var rows []models.TillModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("number").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tillsToDomain(rows), nil
}

// FindAll lists tills ordered by number
func (r *GormTillRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Till, error) {
	var rows []models.TillModel
	if err := r.db.WithContext(ctx).Scopes(activeScope(filter)).Order("number").Find(&rows).Error; err != nil {
		return nil, err
	}
	return tillsToDomain(rows), nil
}

// ExistsByNumber checks whether another till already uses number
func (r *GormTillRepository) ExistsByNumber(ctx context.Context, number int, excludeID *uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TillModel{}).
		Scopes(excludeScope(excludeID)).
		Where("number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a till
func (r *GormTillRepository) Save(ctx context.Context, till *masterdata.Till) error {
	return translateError(r.db.WithContext(ctx).Save(models.TillModelFromDomain(till)).Error)
}

func tillsToDomain(rows []models.TillModel) []*masterdata.Till {
	out := make([]*masterdata.Till, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormBankRepository implements masterdata.BankRepository using GORM
type GormBankRepository struct {
	db *gorm.DB
}

// NewGormBankRepository creates a new GormBankRepository
func NewGormBankRepository(db *gorm.DB) *GormBankRepository {
	return &GormBankRepository{db: db}
}

// FindByID finds a bank by its ID
func (r *GormBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Bank, error) {
	var model models.BankModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the banks with the given IDs
func (r *GormBankRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Bank, error) {
	if len(ids) == 0 {
		return []*masterdata.Bank{}, nil
	}
	var rows []models.BankModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return banksToDomain(rows), nil
}

// FindAll lists banks ordered by name
func (r *GormBankRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Bank, error) {
	var rows []models.BankModel
	if err := r.db.WithContext(ctx).Scopes(activeScope(filter)).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return banksToDomain(rows), nil
}

// ExistsByName checks whether another bank already uses name
func (r *GormBankRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BankModel{}).
		Scopes(excludeScope(excludeID)).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a bank
func (r *GormBankRepository) Save(ctx context.Context, bank *masterdata.Bank) error {
	return translateError(r.db.WithContext(ctx).Save(models.BankModelFromDomain(bank)).Error)
}

func banksToDomain(rows []models.BankModel) []*masterdata.Bank {
	out := make([]*masterdata.Bank, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormTerminalRepository implements masterdata.TerminalRepository using GORM
type GormTerminalRepository struct {
	db *gorm.DB
}

// NewGormTerminalRepository creates a new GormTerminalRepository
func NewGormTerminalRepository(db *gorm.DB) *GormTerminalRepository {
	return &GormTerminalRepository{db: db}
}

// FindByID finds a terminal by its ID
func (r *GormTerminalRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Terminal, error) {
	var model models.TerminalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the terminals with the given IDs
func (r *GormTerminalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*masterdata.Terminal, error) {
	if len(ids) == 0 {
		return []*masterdata.Terminal{}, nil
	}
	var rows []models.TerminalModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return terminalsToDomain(rows), nil
}

// FindAll lists terminals ordered by name
func (r *GormTerminalRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Terminal, error) {
	var rows []models.TerminalModel
	if err := r.db.WithContext(ctx).Scopes(activeScope(filter)).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return terminalsToDomain(rows), nil
}

// ExistsByName checks whether another terminal already uses name
func (r *GormTerminalRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TerminalModel{}).
		Scopes(excludeScope(excludeID)).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a terminal
func (r *GormTerminalRepository) Save(ctx context.Context, terminal *masterdata.Terminal) error {
	return translateError(r.db.WithContext(ctx).Save(models.TerminalModelFromDomain(terminal)).Error)
}

func terminalsToDomain(rows []models.TerminalModel) []*masterdata.Terminal {
	out := make([]*masterdata.Terminal, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// GormCashierRepository implements masterdata.CashierRepository using GORM
type GormCashierRepository struct {
	db *gorm.DB
}

// NewGormCashierRepository creates a new GormCashierRepository
func NewGormCashierRepository(db *gorm.DB) *GormCashierRepository {
	return &GormCashierRepository{db: db}
}

// FindByID finds a cashier by its ID
func (r *GormCashierRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Cashier, error) {
	var model models.CashierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists cashiers ordered by name
func (r *GormCashierRepository) FindAll(ctx context.Context, filter masterdata.ListFilter) ([]*masterdata.Cashier, error) {
	var rows []models.CashierModel
	if err := r.db.WithContext(ctx).Scopes(activeScope(filter)).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*masterdata.Cashier, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a cashier
func (r *GormCashierRepository) Save(ctx context.Context, cashier *masterdata.Cashier) error {
	return translateError(r.db.WithContext(ctx).Save(models.CashierModelFromDomain(cashier)).Error)
}

// Ensure interface compliance
var (
	_ masterdata.TillRepository     = (*GormTillRepository)(nil)
	_ masterdata.BankRepository     = (*GormBankRepository)(nil)
	_ masterdata.TerminalRepository = (*GormTerminalRepository)(nil)
	_ masterdata.CashierRepository  = (*GormCashierRepository)(nil)
)
