package entity

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Engager is notified when a ship it tracks is sunk. The ship never owns it.
type Engager interface {
	ShipSunk(shipID int)
}

// Ship holds coordinates into the board grid rather than cell pointers.
type Ship struct {
	ID          int
	Origin      Coord
	Orientation Orientation
	Size        int

	segments  []Coord
	border    []Coord
	remaining []bool
	left      int

	engager Engager
}

func newShip(id int, origin Coord, orientation Orientation, size int) *Ship {
	ship := &Ship{
		ID:          id,
		Origin:      origin,
		Orientation: orientation,
		Size:        size,
		segments:    shipSegments(origin, orientation, size),
		remaining:   make([]bool, size),
		left:        size,
	}

	for i := range ship.remaining {
		ship.remaining[i] = true
	}

	return ship
}

func shipSegments(origin Coord, orientation Orientation, size int) []Coord {
	segments := make([]Coord, 0, size)
	for i := 0; i < size; i++ {
		if orientation == Vertical {
			segments = append(segments, Coord{X: origin.X, Y: origin.Y + i})
		} else {
			segments = append(segments, Coord{X: origin.X + i, Y: origin.Y})
		}
	}
	return segments
}

// clearance returns every in-grid cell of the ship's bounding box grown by one, minus its segments.
func clearance(origin Coord, orientation Orientation, size, width, height int) []Coord {
	xSize, ySize := size+2, 3
	if orientation == Vertical {
		xSize, ySize = 3, size+2
	}

	xStart, yStart := max(origin.X-1, 0), max(origin.Y-1, 0)
	xEnd, yEnd := min(origin.X-1+xSize, width), min(origin.Y-1+ySize, height)

	own := make(map[Coord]struct{}, size)
	for _, c := range shipSegments(origin, orientation, size) {
		own[c] = struct{}{}
	}

	border := make([]Coord, 0, xSize*ySize-size)
	for y := yStart; y < yEnd; y++ {
		for x := xStart; x < xEnd; x++ {
			if _, ok := own[Coord{X: x, Y: y}]; ok {
				continue
			}
			border = append(border, Coord{X: x, Y: y})
		}
	}

	return border
}

// hit removes the segment from the remaining set and reports whether the ship is now sunk.
func (that *Ship) hit(index int) bool {
	if index < 0 || index >= len(that.remaining) || !that.remaining[index] {
		return that.left == 0
	}

	that.remaining[index] = false
	that.left--

	return that.left == 0
}

func (that *Ship) IsSunk() bool {
	return that.left == 0
}

// Hits is the number of segments already struck.
func (that *Ship) Hits() int {
	return that.Size - that.left
}

func (that *Ship) Segments() []Coord {
	return append([]Coord(nil), that.segments...)
}

func (that *Ship) Border() []Coord {
	return append([]Coord(nil), that.border...)
}

// NextSegment returns the lowest-index segment that has not been hit yet.
func (that *Ship) NextSegment() (Coord, bool) {
	for i, alive := range that.remaining {
		if alive {
			return that.segments[i], true
		}
	}
	return Coord{}, false
}

func (that *Ship) AttachEngager(engager Engager) {
	that.engager = engager
}

func (that *Ship) DetachEngager() {
	that.engager = nil
}

func (that *Ship) IsEngaged() bool {
	return that.engager != nil
}

func (that *Ship) notifySunk() {
	if that.engager == nil {
		return
	}

	engager := that.engager
	that.engager = nil
	engager.ShipSunk(that.ID)
}
