package models

// CellType identifies the behaviour of a board cell when a player lands on it.
type CellType string

const (
	CellGo       CellType = "go"
	CellProperty CellType = "property"
	CellStation  CellType = "station"
	CellUtility  CellType = "utility"
	CellTax      CellType = "tax"
	CellChance   CellType = "chance"
	CellChest    CellType = "chest"
	CellJail     CellType = "jail"
	CellGoToJail CellType = "gotojail"
	CellParking  CellType = "parking"
)

// MaxLevel is the hotel level. Levels 1..4 are houses.
const MaxLevel = 5

// RentSchedule holds the rent table of a property. Stations only use Base,
// utilities use none of it.
type RentSchedule struct {
	Base     int64 `json:"base"`
	Monopoly int64 `json:"monopoly,omitempty"`
	House1   int64 `json:"house1,omitempty"`
	House2   int64 `json:"house2,omitempty"`
	House3   int64 `json:"house3,omitempty"`
	House4   int64 `json:"house4,omitempty"`
	Hotel    int64 `json:"hotel,omitempty"`
}

// ForLevel returns the rent for a developed property (level 1..5).
func (r RentSchedule) ForLevel(level int) int64 {
	switch level {
	case 1:
		return r.House1
	case 2:
		return r.House2
	case 3:
		return r.House3
	case 4:
		return r.House4
	case MaxLevel:
		return r.Hotel
	}
	return r.Base
}

// Cell is one of the board positions together with its mutable ownership state.
// For tax cells Price is the amount charged.
type Cell struct {
	ID        int          `json:"id"`
	Type      CellType     `json:"type"`
	Name      string       `json:"name"`
	Group     string       `json:"group,omitempty"`
	Price     int64        `json:"price,omitempty"`
	BuildCost int64        `json:"buildCost,omitempty"`
	Rent      RentSchedule `json:"rent"`

	OwnerID   string `json:"ownerId,omitempty"`
	Level     int    `json:"level"`
	Mortgaged bool   `json:"isMortgaged"`
}

// Ownable reports whether the cell can be bought.
func (c *Cell) Ownable() bool {
	return c.Type == CellProperty || c.Type == CellStation || c.Type == CellUtility
}

// Release returns the cell to the bank with no development.
func (c *Cell) Release() {
	c.OwnerID = ""
	c.Level = 0
	c.Mortgaged = false
}
