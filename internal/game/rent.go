// internal/game/rent.go
package game

import (
	"github.com/NGoodma/expat/internal/board"
	"github.com/NGoodma/expat/internal/models"
)

// CalculateRent returns what a visitor owes the owner of c. diceTotal only
// matters for utilities; pass 0 to use the default total.
func CalculateRent(cells []*models.Cell, c *models.Cell, diceTotal int) int64 {
	if c == nil || c.OwnerID == "" || c.Mortgaged {
		return 0
	}
	if diceTotal <= 0 {
		diceTotal = board.DefaultDiceTotal
	}

	switch c.Type {
	case models.CellUtility:
		multiplier := board.UtilityMultiplier
		if countOwned(cells, c.OwnerID, models.CellUtility, "") == countOwned(cells, "", models.CellUtility, "") {
			multiplier = board.UtilityMonopoly
		}
		return multiplier * int64(diceTotal)

	case models.CellStation:
		owned := countOwned(cells, c.OwnerID, models.CellStation, "")
		if owned < 1 {
			owned = 1
		}
		return board.StationBaseRent << (owned - 1)

	case models.CellProperty:
		if c.Level > 0 {
			return c.Rent.ForLevel(c.Level)
		}
		if countOwned(cells, c.OwnerID, models.CellProperty, c.Group) == countOwned(cells, "", models.CellProperty, c.Group) {
			if c.Rent.Monopoly > 0 {
				return c.Rent.Monopoly
			}
			return c.Rent.Base * 2
		}
		return c.Rent.Base
	}
	return 0
}

// countOwned counts cells of type t (and group, when non-empty) held by owner.
// An empty owner counts every such cell.
func countOwned(cells []*models.Cell, owner string, t models.CellType, group string) int {
	n := 0
	for _, c := range cells {
		if c.Type != t || (group != "" && c.Group != group) {
			continue
		}
		if owner == "" || c.OwnerID == owner {
			n++
		}
	}
	return n
}
