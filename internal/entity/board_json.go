package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCorruptedBoard = errors.New("corrupted board snapshot")

type boardSnapshot struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Hidden      bool           `json:"hidden"`
	MaxShipSize int            `json:"max_ship_size"`
	Cells       [][]Cell       `json:"cells"`
	Ships       []shipSnapshot `json:"ships"`
}

type shipSnapshot struct {
	ID          int         `json:"id"`
	Origin      Coord       `json:"origin"`
	Orientation Orientation `json:"orientation"`
	Size        int         `json:"size"`
	Remaining   []int       `json:"remaining"`
}

// MarshalJSON exports everything needed to rebuild the board. Engagers are not part of it.
func (that *Board) MarshalJSON() ([]byte, error) {
	snapshot := boardSnapshot{
		Width:       that.width,
		Height:      that.height,
		Hidden:      that.hidden,
		MaxShipSize: that.maxShipSize,
		Cells:       that.cells,
		Ships:       make([]shipSnapshot, 0, len(that.ships)),
	}

	for _, ship := range that.Ships() {
		remaining := make([]int, 0, ship.left)
		for i, alive := range ship.remaining {
			if alive {
				remaining = append(remaining, i)
			}
		}

		snapshot.Ships = append(snapshot.Ships, shipSnapshot{
			ID:          ship.ID,
			Origin:      ship.Origin,
			Orientation: ship.Orientation,
			Size:        ship.Size,
			Remaining:   remaining,
		})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("could not marshal board: %w", err)
	}

	return data, nil
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var snapshot boardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("could not unmarshal board: %w", err)
	}

	if snapshot.Width < 1 || snapshot.Height < 1 || len(snapshot.Cells) != snapshot.Height {
		return fmt.Errorf("%w: grid does not match %dx%d", ErrCorruptedBoard, snapshot.Width, snapshot.Height)
	}

	for _, row := range snapshot.Cells {
		if len(row) != snapshot.Width {
			return fmt.Errorf("%w: row width %d, expected %d", ErrCorruptedBoard, len(row), snapshot.Width)
		}
	}

	board := Board{
		width:            snapshot.Width,
		height:           snapshot.Height,
		hidden:           snapshot.Hidden,
		maxShipSize:      snapshot.MaxShipSize,
		cells:            snapshot.Cells,
		ships:            make(map[int]*Ship, len(snapshot.Ships)),
		maxRegenerations: DefaultMaxRegenerations,
	}

	for _, s := range snapshot.Ships {
		ship := newShip(s.ID, s.Origin, s.Orientation, s.Size)
		ship.border = clearance(s.Origin, s.Orientation, s.Size, board.width, board.height)

		for i := range ship.remaining {
			ship.remaining[i] = false
		}
		ship.left = 0

		for _, index := range s.Remaining {
			if index < 0 || index >= ship.Size || ship.remaining[index] {
				return fmt.Errorf("%w: ship %d has invalid segment %d", ErrCorruptedBoard, s.ID, index)
			}
			ship.remaining[index] = true
			ship.left++
		}

		for index, c := range ship.segments {
			if !board.inBounds(c.X, c.Y) {
				return fmt.Errorf("%w: ship %d leaves the grid", ErrCorruptedBoard, s.ID)
			}

			cell := board.cells[c.Y][c.X]
			if cell.Kind != KindSegment || cell.ShipID != s.ID || cell.Index != index {
				return fmt.Errorf("%w: ship %d does not match its cells", ErrCorruptedBoard, s.ID)
			}
		}

		if ship.left == 0 {
			return fmt.Errorf("%w: sunk ship %d is still registered", ErrCorruptedBoard, s.ID)
		}

		board.ships[ship.ID] = ship
	}

	*that = board

	return nil
}
