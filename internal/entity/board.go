package entity

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rocketscienceinc/seabattle-backend/internal/apperror"
)

// DefaultMaxRegenerations bounds whole-board restarts of the placer.
const DefaultMaxRegenerations = 1000

type Board struct {
	width       int
	height      int
	hidden      bool
	maxShipSize int

	cells [][]Cell
	ships map[int]*Ship

	rnd              *rand.Rand
	maxRegenerations int
}

type Option func(*Board)

// WithMaxShipSize requests a maximum ship size, it is still clamped to half of the shorter side.
func WithMaxShipSize(size int) Option {
	return func(that *Board) {
		that.maxShipSize = size
	}
}

func WithRand(rnd *rand.Rand) Option {
	return func(that *Board) {
		that.rnd = rnd
	}
}

func WithMaxRegenerations(limit int) Option {
	return func(that *Board) {
		that.maxRegenerations = limit
	}
}

// NewBoard builds a board and places a full fleet on it.
func NewBoard(width, height int, hidden bool, opts ...Option) (*Board, error) {
	board := &Board{
		width:            width,
		height:           height,
		hidden:           hidden,
		maxRegenerations: DefaultMaxRegenerations,
	}

	for _, opt := range opts {
		opt(board)
	}

	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", apperror.ErrInvalidDimensions, width, height)
	}

	board.maxShipSize = EffectiveMaxShipSize(width, height, board.maxShipSize)
	if board.maxShipSize < 1 {
		return nil, fmt.Errorf("%w: %dx%d", apperror.ErrInvalidDimensions, width, height)
	}

	if board.rnd == nil {
		board.rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	board.reset()

	if err := board.generate(); err != nil {
		return nil, err
	}

	return board, nil
}

// EffectiveMaxShipSize clamps the requested size to one below half of the shorter side, but never below one.
// A missing request (requested <= 0) gets the largest size allowed.
func EffectiveMaxShipSize(width, height, requested int) int {
	limit := min(width, height) / 2
	if limit < 1 {
		return limit
	}

	largest := max(limit-1, 1)
	if requested <= 0 || requested > largest {
		return largest
	}

	return requested
}

// reset drops every ship and returns the grid to all-Empty.
func (that *Board) reset() {
	that.cells = make([][]Cell, that.height)
	for y := range that.cells {
		that.cells[y] = make([]Cell, that.width)
	}
	that.ships = make(map[int]*Ship)
}

func (that *Board) Width() int {
	return that.width
}

func (that *Board) Height() int {
	return that.height
}

func (that *Board) Hidden() bool {
	return that.hidden
}

func (that *Board) MaxShipSize() int {
	return that.maxShipSize
}

func (that *Board) inBounds(x, y int) bool {
	return x >= 0 && x < that.width && y >= 0 && y < that.height
}

// Open attacks a cell. An already opened cell is rejected without touching any state.
func (that *Board) Open(x, y int) (HitResult, error) {
	if !that.inBounds(x, y) {
		return Miss, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}

	cell := &that.cells[y][x]
	if cell.IsOpened() {
		return Miss, fmt.Errorf("%w: (%d, %d)", apperror.ErrAlreadyOpened, x, y)
	}

	if !cell.open() {
		return Miss, nil
	}

	ship, ok := that.ships[cell.ShipID]
	if ok && ship.hit(cell.Index) {
		that.sink(ship)
	}

	return Hit, nil
}

// sink reveals the ship's clearance, drops it from the registry and tells its engager.
func (that *Board) sink(ship *Ship) {
	for _, c := range ship.border {
		that.cells[c.Y][c.X].reveal()
	}

	delete(that.ships, ship.ID)
	ship.notifySunk()
}

func (that *Board) IsAlive() bool {
	return len(that.ships) > 0
}

func (that *Board) IsOpened(x, y int) bool {
	return that.inBounds(x, y) && that.cells[y][x].IsOpened()
}

// Cell returns a copy of the cell at the given position.
func (that *Board) Cell(x, y int) (Cell, error) {
	if !that.inBounds(x, y) {
		return Cell{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}
	return that.cells[y][x], nil
}

// Ship looks up an active ship.
func (that *Board) Ship(id int) (*Ship, bool) {
	ship, ok := that.ships[id]
	return ship, ok
}

// Ships returns the active ships ordered by id.
func (that *Board) Ships() []*Ship {
	ships := make([]*Ship, 0, len(that.ships))
	for _, ship := range that.ships {
		ships = append(ships, ship)
	}

	sort.Slice(ships, func(i, j int) bool { return ships[i].ID < ships[j].ID })

	return ships
}

// ShipIDAt reports the ship owning the segment at (x, y), sunk ships included.
func (that *Board) ShipIDAt(x, y int) (int, bool) {
	if !that.inBounds(x, y) || that.cells[y][x].Kind != KindSegment {
		return 0, false
	}
	return that.cells[y][x].ShipID, true
}

func (that *Board) Glyph(x, y int) Glyph {
	if !that.inBounds(x, y) {
		return GlyphUnopened
	}
	return that.cells[y][x].Glyph(that.hidden)
}

// Render returns one string of glyphs per row.
func (that *Board) Render() []string {
	rows := make([]string, 0, that.height)

	var builder strings.Builder
	for y := 0; y < that.height; y++ {
		builder.Reset()
		for x := 0; x < that.width; x++ {
			builder.WriteRune(rune(that.cells[y][x].Glyph(that.hidden)))
		}
		rows = append(rows, builder.String())
	}

	return rows
}

// BoardView is what a client may see of a board.
type BoardView struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Rows      []string `json:"rows"`
	ShipsLeft int      `json:"ships_left"`
}

func (that *Board) View() BoardView {
	return BoardView{
		Width:     that.width,
		Height:    that.height,
		Rows:      that.Render(),
		ShipsLeft: len(that.ships),
	}
}
