package entity

import (
	"fmt"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
)

// Fleet lists ship sizes largest first: maxSize-s+1 ships of every size s in [1, maxSize].
func Fleet(maxSize int) []int {
	sizes := make([]int, 0, maxSize*(maxSize+1)/2)
	for size := maxSize; size >= 1; size-- {
		for i := 0; i < maxSize-size+1; i++ {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// FleetFootprint is the number of segment cells of Fleet(maxSize).
func FleetFootprint(maxSize int) int {
	total := 0
	for _, size := range Fleet(maxSize) {
		total += size
	}
	return total
}

// generate places the whole fleet, restarting from an empty grid whenever one ship runs out of attempts.
func (that *Board) generate() error {
	fleet := Fleet(that.maxShipSize)

	for attempt := 0; attempt < that.maxRegenerations; attempt++ {
		if that.placeFleet(fleet) {
			return nil
		}
		that.reset()
	}

	return fmt.Errorf("%w: %dx%d with max ship size %d after %d attempts",
		apperror.ErrGenerationExhausted, that.width, that.height, that.maxShipSize, that.maxRegenerations)
}

func (that *Board) placeFleet(fleet []int) bool {
	for id, size := range fleet {
		if !that.placeShip(id, size) {
			return false
		}
	}
	return true
}

func (that *Board) placeShip(id, size int) bool {
	limit := that.width * that.height

	for try := 0; try < limit; try++ {
		origin, orientation := that.randomAnchor(size)
		if !that.fits(origin, orientation, size) {
			continue
		}

		that.claim(newShip(id, origin, orientation, size))
		return true
	}

	return false
}

// randomAnchor picks an orientation and an origin for which the whole ship lies on the grid.
func (that *Board) randomAnchor(size int) (Coord, Orientation) {
	if that.rnd.Intn(2) == 1 {
		return Coord{X: that.rnd.Intn(that.width), Y: that.rnd.Intn(that.height - size + 1)}, Vertical
	}
	return Coord{X: that.rnd.Intn(that.width - size + 1), Y: that.rnd.Intn(that.height)}, Horizontal
}

func (that *Board) fits(origin Coord, orientation Orientation, size int) bool {
	for _, c := range shipSegments(origin, orientation, size) {
		if !that.inBounds(c.X, c.Y) || that.cells[c.Y][c.X].OccupiesSpace() {
			return false
		}
	}

	for _, c := range clearance(origin, orientation, size, that.width, that.height) {
		if that.cells[c.Y][c.X].Kind == KindSegment {
			return false
		}
	}

	return true
}

// claim stamps the ship's segments and clearance into the grid and registers it.
func (that *Board) claim(ship *Ship) {
	ship.border = clearance(ship.Origin, ship.Orientation, ship.Size, that.width, that.height)

	for _, c := range ship.border {
		if that.cells[c.Y][c.X].Kind == KindEmpty {
			that.cells[c.Y][c.X].Kind = KindBorder
		}
	}

	for index, c := range ship.segments {
		that.cells[c.Y][c.X] = Cell{Kind: KindSegment, ShipID: ship.ID, Index: index}
	}

	that.ships[ship.ID] = ship
}
