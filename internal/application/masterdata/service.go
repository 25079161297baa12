// Package masterdata holds the use cases for tills, banks, card terminals
// and cashiers.
package masterdata

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zreport/backend/internal/domain/masterdata"
	"github.com/zreport/backend/internal/domain/shared"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Error codes returned by Service
const (
	CodeInvalidBank = "INVALID_BANK"
)

// Service handles master data operations
type Service struct {
	tills     masterdata.TillRepository
	banks     masterdata.BankRepository
	terminals masterdata.TerminalRepository
	cashiers  masterdata.CashierRepository
	logger    *zap.Logger
}

// NewService creates a new master data service
func NewService(
	tills masterdata.TillRepository,
	banks masterdata.BankRepository,
	terminals masterdata.TerminalRepository,
	cashiers masterdata.CashierRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		tills:     tills,
		banks:     banks,
		terminals: terminals,
		cashiers:  cashiers,
		logger:    logger,
	}
}

// CreateTill creates a till with a unique number
func (s *Service) CreateTill(ctx context.Context, req CreateTillRequest) (*TillResponse, error) {
	exists, err := s.tills.ExistsByNumber(ctx, req.Number, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Till %d already exists", req.Number)
	}

	till, err := masterdata.NewTill(req.Number, req.FiscalMemoryNo)
	if err != nil {
		return nil, err
	}
	if err := s.tills.Save(ctx, till); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Till created",
		zap.String("till_id", till.ID.String()),
		zap.Int("number", till.Number))
	resp := ToTillResponse(till)
	return &resp, nil
}

// UpdateTill changes a till's number, fiscal memory number and active flag
func (s *Service) UpdateTill(ctx context.Context, id uuid.UUID, req UpdateTillRequest) (*TillResponse, error) {
	till, err := s.tills.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.tills.ExistsByNumber(ctx, req.Number, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Till %d already exists", req.Number)
	}

	if err := till.Update(req.Number, req.FiscalMemoryNo); err != nil {
		return nil, err
	}
	if req.Active != nil {
		till.SetActive(*req.Active)
	}
	if err := s.tills.Save(ctx, till); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Till updated", zap.String("till_id", till.ID.String()))
	resp := ToTillResponse(till)
	return &resp, nil
}

// GetTill returns one till
func (s *Service) GetTill(ctx context.Context, id uuid.UUID) (*TillResponse, error) {
	till, err := s.tills.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTillResponse(till)
	return &resp, nil
}

// ListTills returns tills ordered by number
func (s *Service) ListTills(ctx context.Context, filter masterdata.ListFilter) ([]TillResponse, error) {
	tills, err := s.tills.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]TillResponse, len(tills))
	for i, t := range tills {
		out[i] = ToTillResponse(t)
	}
	return out, nil
}

// CreateBank creates a bank with a unique name
func (s *Service) CreateBank(ctx context.Context, req CreateBankRequest) (*BankResponse, error) {
	if err := s.ensureBankNameFree(ctx, req.Name, nil); err != nil {
		return nil, err
	}

	bank, err := masterdata.NewBank(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.banks.Save(ctx, bank); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Bank created",
		zap.String("bank_id", bank.ID.String()),
		zap.String("name", bank.Name))
	resp := ToBankResponse(bank)
	return &resp, nil
}

// UpdateBank renames a bank and toggles its active flag
func (s *Service) UpdateBank(ctx context.Context, id uuid.UUID, req UpdateBankRequest) (*BankResponse, error) {
	bank, err := s.banks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBankNameFree(ctx, req.Name, &id); err != nil {
		return nil, err
	}

	if err := bank.Rename(req.Name); err != nil {
		return nil, err
	}
	if req.Active != nil {
		bank.SetActive(*req.Active)
	}
	if err := s.banks.Save(ctx, bank); err != nil {
		return nil, err
	}

	resp := ToBankResponse(bank)
	return &resp, nil
}

// GetBank returns one bank
func (s *Service) GetBank(ctx context.Context, id uuid.UUID) (*BankResponse, error) {
	bank, err := s.banks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBankResponse(bank)
	return &resp, nil
}

// ListBanks returns banks ordered by name
func (s *Service) ListBanks(ctx context.Context, filter masterdata.ListFilter) ([]BankResponse, error) {
	banks, err := s.banks.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]BankResponse, len(banks))
	for i, b := range banks {
		out[i] = ToBankResponse(b)
	}
	return out, nil
}

func (s *Service) ensureBankNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.banks.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Bank with this name already exists")
	}
	return nil
}

// CreateTerminal creates a terminal. The commission rate is normalized to a
// four-decimal fraction here and never again.
func (s *Service) CreateTerminal(ctx context.Context, req CreateTerminalRequest) (*TerminalResponse, error) {
	if err := s.ensureTerminalNameFree(ctx, req.Name, nil); err != nil {
		return nil, err
	}
	bankName, err := s.bankName(ctx, req.BankID)
	if err != nil {
		return nil, err
	}

	terminal, err := masterdata.NewTerminal(req.TerminalNo, req.Name, req.CommissionRate, req.BankID)
	if err != nil {
		return nil, err
	}
	if err := s.terminals.Save(ctx, terminal); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Terminal created",
		zap.String("terminal_id", terminal.ID.String()),
		zap.String("raw_rate", req.CommissionRate),
		zap.String("commission_rate", terminal.CommissionRate.StringFixed(4)))
	resp := ToTerminalResponse(terminal, bankName)
	return &resp, nil
}

// UpdateTerminal replaces a terminal's editable fields
func (s *Service) UpdateTerminal(ctx context.Context, id uuid.UUID, req UpdateTerminalRequest) (*TerminalResponse, error) {
	terminal, err := s.terminals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTerminalNameFree(ctx, req.Name, &id); err != nil {
		return nil, err
	}
	bankName, err := s.bankName(ctx, req.BankID)
	if err != nil {
		return nil, err
	}

	if err := terminal.Update(req.TerminalNo, req.Name, req.CommissionRate, req.BankID); err != nil {
		return nil, err
	}
	if req.Active != nil {
		terminal.SetActive(*req.Active)
	}
	if err := s.terminals.Save(ctx, terminal); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Terminal updated",
		zap.String("terminal_id", terminal.ID.String()),
		zap.String("commission_rate", terminal.CommissionRate.StringFixed(4)))
	resp := ToTerminalResponse(terminal, bankName)
	return &resp, nil
}

// GetTerminal returns one terminal with its bank name
func (s *Service) GetTerminal(ctx context.Context, id uuid.UUID) (*TerminalResponse, error) {
	terminal, err := s.terminals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bankName, err := s.bankName(ctx, terminal.BankID)
	if err != nil {
		return nil, err
	}
	resp := ToTerminalResponse(terminal, bankName)
	return &resp, nil
}

// ListTerminals returns terminals ordered by name
func (s *Service) ListTerminals(ctx context.Context, filter masterdata.ListFilter) ([]TerminalResponse, error) {
	terminals, err := s.terminals.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := BankNames(ctx, s.banks, terminals)
	if err != nil {
		return nil, err
	}
	out := make([]TerminalResponse, len(terminals))
	for i, t := range terminals {
		var name string
		if t.BankID != nil {
			name = names[*t.BankID]
		}
		out[i] = ToTerminalResponse(t, name)
	}
	return out, nil
}

// BankNames resolves the bank names of terminals in one query. Terminals
// without a bank, or whose bank is gone, have no entry.
func BankNames(ctx context.Context, banks masterdata.BankRepository, terminals []*masterdata.Terminal) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(terminals))
	for _, t := range terminals {
		if t.BankID != nil && !seen[*t.BankID] {
			seen[*t.BankID] = true
			ids = append(ids, *t.BankID)
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	found, err := banks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range found {
		names[b.ID] = b.Name
	}
	return names, nil
}

func (s *Service) ensureTerminalNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.terminals.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Terminal with this name already exists")
	}
	return nil
}

// bankName loads the referenced bank, rejecting unknown ids
func (s *Service) bankName(ctx context.Context, bankID *uuid.UUID) (string, error) {
	if bankID == nil {
		return "", nil
	}
	bank, err := s.banks.FindByID(ctx, *bankID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError(CodeInvalidBank, "Bank not found")
		}
		return "", err
	}
	return bank.Name, nil
}

// CreateCashier creates a cashier
func (s *Service) CreateCashier(ctx context.Context, req CreateCashierRequest) (*CashierResponse, error) {
	cashier, err := masterdata.NewCashier(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.cashiers.Save(ctx, cashier); err != nil {
		return nil, err
	}

	logger.Or(ctx, s.logger).Info("Cashier created", zap.String("cashier_id", cashier.ID.String()))
	resp := ToCashierResponse(cashier)
	return &resp, nil
}

// UpdateCashier renames a cashier and toggles its active flag
func (s *Service) UpdateCashier(ctx context.Context, id uuid.UUID, req UpdateCashierRequest) (*CashierResponse, error) {
	cashier, err := s.cashiers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cashier.Rename(req.Name); err != nil {
		return nil, err
	}
	if req.Active != nil {
		cashier.SetActive(*req.Active)
	}
	if err := s.cashiers.Save(ctx, cashier); err != nil {
		return nil, err
	}
	resp := ToCashierResponse(cashier)
	return &resp, nil
}

// GetCashier returns one cashier
func (s *Service) GetCashier(ctx context.Context, id uuid.UUID) (*CashierResponse, error) {
	cashier, err := s.cashiers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCashierResponse(cashier)
	return &resp, nil
}

// ListCashiers returns cashiers ordered by name
func (s *Service) ListCashiers(ctx context.Context, filter masterdata.ListFilter) ([]CashierResponse, error) {
	cashiers, err := s.cashiers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CashierResponse, len(cashiers))
	for i, c := range cashiers {
		out[i] = ToCashierResponse(c)
	}
	return out, nil
}
