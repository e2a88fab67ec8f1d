package board

import (
	"testing"

	"github.com/NGoodma/expat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCellsLayout(t *testing.T) {
	cells := NewCells()
	require.Len(t, cells, Size)

	for i, c := range cells {
		assert.Equal(t, i, c.ID)
		assert.Empty(t, c.OwnerID)
		assert.Zero(t, c.Level)
	}

	assert.Equal(t, models.CellGo, cells[0].Type)
	assert.Equal(t, models.CellJail, cells[JailCell].Type)
	assert.Equal(t, models.CellParking, cells[20].Type)
	assert.Equal(t, models.CellGoToJail, cells[30].Type)

	assert.Equal(t, int64(200_000), cells[4].Price, "first tax")
	assert.Equal(t, int64(100_000), cells[38].Price, "second tax")

	for _, pos := range []int{5, 15, 25, 35} {
		assert.Equal(t, models.CellStation, cells[pos].Type)
		assert.Equal(t, StationBaseRent, cells[pos].Rent.Base)
	}
	for _, pos := range []int{12, 28} {
		assert.Equal(t, models.CellUtility, cells[pos].Type)
	}
}

func TestNewCellsAreIndependentCopies(t *testing.T) {
	a := NewCells()
	b := NewCells()
	a[1].OwnerID = "p1"
	a[1].Level = 3

	assert.Empty(t, b[1].OwnerID)
	assert.Zero(t, b[1].Level)

	def, ok := Definition(1)
	require.True(t, ok)
	assert.Empty(t, def.OwnerID)
}

func TestGroupSizes(t *testing.T) {
	assert.Equal(t, 2, GroupSize("#8B4513"))
	assert.Equal(t, 3, GroupSize("#87CEEB"))
	assert.Equal(t, 2, GroupSize("#0000CD"))
	assert.Equal(t, 4, GroupSize(stationGroup))
	assert.Equal(t, 2, GroupSize(utilityGroup))
}

func TestMortgageArithmetic(t *testing.T) {
	c, _ := Definition(1)
	assert.Equal(t, int64(30_000), MortgageValue(&c))
	assert.Equal(t, int64(33_000), UnmortgageCost(&c))
	assert.Equal(t, int64(25_000), SellUpgradeRefund(&c))

	last, _ := Definition(39)
	assert.Equal(t, int64(220_000), UnmortgageCost(&last))
}

func TestDefinitionOutOfRange(t *testing.T) {
	_, ok := Definition(-1)
	assert.False(t, ok)
	_, ok = Definition(Size)
	assert.False(t, ok)
}
