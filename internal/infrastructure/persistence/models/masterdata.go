package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zreport/backend/internal/domain/masterdata"
)

// TillModel is the persistence model for a till
type TillModel struct {
	BaseModel
	Number         int    `gorm:"not null;uniqueIndex"`
	FiscalMemoryNo string `gorm:"type:varchar(50)"`
	Active         bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TillModel) TableName() string {
	return "tills"
}

// ToDomain converts the model to a domain Till
func (m *TillModel) ToDomain() *masterdata.Till {
	return &masterdata.Till{
		BaseEntity:     m.BaseModel.ToDomain(),
		Number:         m.Number,
		FiscalMemoryNo: m.FiscalMemoryNo,
		Active:         m.Active,
	}
}

// TillModelFromDomain creates a persistence model from a domain Till
func TillModelFromDomain(t *masterdata.Till) *TillModel {
	m := &TillModel{Number: t.Number, FiscalMemoryNo: t.FiscalMemoryNo, Active: t.Active}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// BankModel is the persistence model for a bank
type BankModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Active bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BankModel) TableName() string {
	return "banks"
}

// ToDomain converts the model to a domain Bank
func (m *BankModel) ToDomain() *masterdata.Bank {
	return &masterdata.Bank{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, Active: m.Active}
}

// BankModelFromDomain creates a persistence model from a domain Bank
func BankModelFromDomain(b *masterdata.Bank) *BankModel {
	m := &BankModel{Name: b.Name, Active: b.Active}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// TerminalModel is the persistence model for a card terminal
type TerminalModel struct {
	BaseModel
	TerminalNo     string          `gorm:"type:varchar(50)"`
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	BankID         *uuid.UUID      `gorm:"type:uuid;index"`
	Active         bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TerminalModel) TableName() string {
	return "terminals"
}

// ToDomain converts the model to a domain Terminal
func (m *TerminalModel) ToDomain() *masterdata.Terminal {
	return &masterdata.Terminal{
		BaseEntity:     m.BaseModel.ToDomain(),
		TerminalNo:     m.TerminalNo,
		Name:           m.Name,
		CommissionRate: m.CommissionRate,
		BankID:         m.BankID,
		Active:         m.Active,
	}
}

// TerminalModelFromDomain creates a persistence model from a domain Terminal
func TerminalModelFromDomain(t *masterdata.Terminal) *TerminalModel {
	m := &TerminalModel{
		TerminalNo:     t.TerminalNo,
		Name:           t.Name,
		CommissionRate: t.CommissionRate,
		BankID:         t.BankID,
		Active:         t.Active,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// CashierModel is the persistence model for a cashier
type CashierModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null"`
	Active bool   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CashierModel) TableName() string {
	return "cashiers"
}

// ToDomain converts the model to a domain Cashier
func (m *CashierModel) ToDomain() *masterdata.Cashier {
	return &masterdata.Cashier{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, Active: m.Active}
}

// CashierModelFromDomain creates a persistence model from a domain Cashier
func CashierModelFromDomain(c *masterdata.Cashier) *CashierModel {
	m := &CashierModel{Name: c.Name, Active: c.Active}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
