// Package board holds the immutable board layout and the economic constants of the game.
package board

import "github.com/NGoodma/expat/internal/models"

const (
	Size     = 40
	JailCell = 10

	MaxPlayers = 6

	StartBalance int64 = 1_500_000
	PassGoReward int64 = 200_000
	BailAmount   int64 = 50_000

	ChanceReward  int64 = 200_000
	ChancePenalty int64 = -100_000

	AuctionStartBid  int64 = 10_000
	AuctionIncrement int64 = 10_000

	StationBaseRent   int64 = 25_000
	UtilityMultiplier int64 = 4_000
	UtilityMonopoly   int64 = 10_000
	// DefaultDiceTotal is used for utility rent when no roll is known.
	DefaultDiceTotal = 7

	// MaxJailRolls is the number of failed jail rolls after which release is forced.
	MaxJailRolls = 2
	// MaxDoubles sends the roller to jail.
	MaxDoubles = 3
)

const (
	stationGroup = "#a3a3a3"
	utilityGroup = "#c2c2c2"
)

// MortgageValue is paid out when a cell is mortgaged.
func MortgageValue(c *models.Cell) int64 {
	return c.Price / 2
}

// UnmortgageCost is the mortgage value plus 10% interest, rounded to the nearest unit.
func UnmortgageCost(c *models.Cell) int64 {
	return (c.Price*11 + 10) / 20
}

// SellUpgradeRefund is paid out when one improvement level is sold.
func SellUpgradeRefund(c *models.Cell) int64 {
	return c.BuildCost / 2
}

func special(t models.CellType, name string) models.Cell {
	return models.Cell{Type: t, Name: name}
}

func tax(name string, amount int64) models.Cell {
	return models.Cell{Type: models.CellTax, Name: name, Price: amount}
}

func station(name string) models.Cell {
	return models.Cell{
		Type:  models.CellStation,
		Name:  name,
		Group: stationGroup,
		Price: 200_000,
		Rent:  models.RentSchedule{Base: StationBaseRent},
	}
}

func utility(name string) models.Cell {
	return models.Cell{Type: models.CellUtility, Name: name, Group: utilityGroup, Price: 150_000}
}

func property(name, group string, price, build int64, rent ...int64) models.Cell {
	return models.Cell{
		Type:      models.CellProperty,
		Name:      name,
		Group:     group,
		Price:     price,
		BuildCost: build,
		Rent: models.RentSchedule{
			Base:     rent[0],
			Monopoly: rent[1],
			House1:   rent[2],
			House2:   rent[3],
			House3:   rent[4],
			House4:   rent[5],
			Hotel:    rent[6],
		},
	}
}

// layout is indexed by position. Never mutate it; NewCells hands out copies.
var layout = [Size]models.Cell{
	special(models.CellGo, "СТАРТ"),
	property("Catebi", "#8B4513", 60_000, 50_000, 2_000, 4_000, 10_000, 30_000, 90_000, 160_000, 250_000),
	special(models.CellChest, "Общ. Казна"),
	property("Parki Ar Minda", "#8B4513", 60_000, 50_000, 4_000, 8_000, 20_000, 60_000, 180_000, 320_000, 450_000),
	tax("Налог", 200_000),
	station("Liberty Bank"),
	property("Frame", "#87CEEB", 100_000, 50_000, 6_000, 12_000, 30_000, 90_000, 270_000, 400_000, 550_000),
	special(models.CellChance, "Шанс"),
	property("Emigration to Action", "#87CEEB", 100_000, 50_000, 6_000, 12_000, 30_000, 90_000, 270_000, 400_000, 550_000),
	property("Волонтёры Тбилиси", "#87CEEB", 120_000, 50_000, 8_000, 16_000, 40_000, 100_000, 300_000, 450_000, 600_000),

	special(models.CellJail, "Арест"),
	property("surikata mami", "#FF69B4", 140_000, 100_000, 10_000, 20_000, 50_000, 150_000, 450_000, 625_000, 750_000),
	utility("Silknet"),
	property("loly tattoo", "#FF69B4", 140_000, 100_000, 10_000, 20_000, 50_000, 150_000, 450_000, 625_000, 750_000),
	property("NDMA", "#FF69B4", 160_000, 100_000, 12_000, 24_000, 60_000, 180_000, 500_000, 700_000, 900_000),
	station("Credo"),
	property("Engineer history", "#FFA500", 180_000, 100_000, 14_000, 28_000, 70_000, 200_000, 550_000, 750_000, 950_000),
	special(models.CellChest, "Общ. Казна"),
	property("Thats my Georgia", "#FFA500", 180_000, 100_000, 14_000, 28_000, 70_000, 200_000, 550_000, 750_000, 950_000),
	property("Travel to challenge", "#FFA500", 200_000, 100_000, 16_000, 32_000, 80_000, 220_000, 600_000, 800_000, 1_000_000),

	special(models.CellParking, "Визаран"),
	property("Paper Kartuli", "#FF0000", 220_000, 150_000, 18_000, 36_000, 90_000, 250_000, 700_000, 875_000, 1_050_000),
	special(models.CellChance, "Шанс"),
	property("Ауди тория", "#FF0000", 220_000, 150_000, 18_000, 36_000, 90_000, 250_000, 700_000, 875_000, 1_050_000),
	property("Sative Space", "#FF0000", 240_000, 150_000, 20_000, 40_000, 100_000, 300_000, 750_000, 925_000, 1_100_000),
	station("TBC"),
	property("Join Cafe", "#FFFF00", 260_000, 150_000, 22_000, 44_000, 110_000, 330_000, 800_000, 975_000, 1_150_000),
	property("Mesto", "#FFFF00", 260_000, 150_000, 22_000, 44_000, 110_000, 330_000, 800_000, 975_000, 1_150_000),
	utility("Magti com"),
	property("Кофевар", "#FFFF00", 280_000, 150_000, 24_000, 48_000, 120_000, 360_000, 850_000, 1_025_000, 1_200_000),

	special(models.CellGoToJail, "Досмотр"),
	property("Improv Tbilisi", "#008000", 300_000, 200_000, 26_000, 52_000, 130_000, 390_000, 900_000, 1_100_000, 1_275_000),
	property("Biblio teka", "#008000", 300_000, 200_000, 26_000, 52_000, 130_000, 390_000, 900_000, 1_100_000, 1_275_000),
	special(models.CellChest, "Общ. Казна"),
	property("CHUVI", "#008000", 320_000, 200_000, 28_000, 56_000, 150_000, 450_000, 1_000_000, 1_200_000, 1_400_000),
	station("BoG"),
	special(models.CellChance, "Шанс"),
	property("Colibring Nomads", "#0000CD", 350_000, 200_000, 35_000, 70_000, 175_000, 500_000, 1_100_000, 1_300_000, 1_500_000),
	tax("Налог", 100_000),
	property("Горизонт. кафе Фрик", "#0000CD", 400_000, 200_000, 50_000, 100_000, 200_000, 600_000, 1_400_000, 1_700_000, 2_000_000),
}

// NewCells returns a fresh, unowned copy of the board for a new room.
func NewCells() []*models.Cell {
	cells := make([]*models.Cell, Size)
	for i := range layout {
		c := layout[i]
		c.ID = i
		cells[i] = &c
	}
	return cells
}

// Definition returns the static definition of the cell at pos.
func Definition(pos int) (models.Cell, bool) {
	if pos < 0 || pos >= Size {
		return models.Cell{}, false
	}
	c := layout[pos]
	c.ID = pos
	return c, true
}

// GroupSize returns how many cells share the given group tag.
func GroupSize(group string) int {
	n := 0
	for i := range layout {
		if layout[i].Group == group {
			n++
		}
	}
	return n
}
