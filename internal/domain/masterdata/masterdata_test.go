package masterdata

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zreport/backend/internal/domain/shared"
)

func TestNewTill(t *testing.T) {
	till, err := NewTill(3, " FM-0042 ")
	require.NoError(t, err)
	assert.Equal(t, 3, till.Number)
	assert.Equal(t, "FM-0042", till.FiscalMemoryNo)
	assert.True(t, till.Active)

	_, err = NewTill(0, "")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	require.NoError(t, till.Update(4, ""))
	assert.Equal(t, 4, till.Number)
	assert.Error(t, till.Update(-1, ""))

	till.SetActive(false)
	assert.False(t, till.Active)
}

func TestNewTerminal_NormalizesRate(t *testing.T) {
	bank := uuid.New()

	term, err := NewTerminal("T-1", "Front POS", "2,5", &bank)
	require.NoError(t, err)
	assert.Equal(t, "0.0250", term.CommissionRate.StringFixed(4))
	assert.Equal(t, &bank, term.BankID)

	require.NoError(t, term.Update("T-1", "Front POS", "0.0175", nil))
	assert.Equal(t, "0.0175", term.CommissionRate.StringFixed(4))
	assert.Nil(t, term.BankID)

	require.NoError(t, term.Update("T-1", "Front POS", "1", nil))
	assert.Equal(t, "1.0000", term.CommissionRate.StringFixed(4))

	ref := term.Ref("Garanti")
	assert.Equal(t, term.ID, ref.ID)
	assert.Equal(t, "Garanti", ref.BankName)
	assert.True(t, ref.CommissionRate.Equal(term.CommissionRate))

	_, err = NewTerminal("T-2", "  ", "2", nil)
	assert.Error(t, err)
}

func TestBankAndCashierNames(t *testing.T) {
	b, err := NewBank(" Ziraat ")
	require.NoError(t, err)
	assert.Equal(t, "Ziraat", b.Name)
	assert.Error(t, b.Rename(""))

	_, err = NewBank("")
	assert.Error(t, err)

	c, err := NewCashier("Ayşe")
	require.NoError(t, err)
	require.NoError(t, c.Rename("Ayşe K."))
	assert.Equal(t, "Ayşe K.", c.Name)
	c.SetActive(false)
	assert.False(t, c.Active)

	_, err = NewCashier(" ")
	assert.Error(t, err)
}
